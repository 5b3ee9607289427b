package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/schema"
	"github.com/masteryyh/scaffold/pkg/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.UTC)

func newTestHandler(development bool) (*ErrorHandler, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := NewErrorHandler(development, slog.New(slog.NewJSONHandler(buf, nil)))
	h.now = func() time.Time { return fixedNow }
	return h, buf
}

func serveFailing(h *ErrorHandler, fn gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(h.Middleware(), h.Recovery())
	engine.POST("/api/things/:id", fn)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/things/1", nil)
	engine.ServeHTTP(rec, req)
	return rec
}

func failWith(err error) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Failed(c, err)
	}
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerDecisionTable(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantKind    string
		wantMessage string
		wantLogged  bool
	}{
		{
			name: "schema failure",
			err: &schema.Error{Part: schema.PartParams, Issues: []schema.Issue{
				{Path: []string{"id"}, Message: "Invalid UUID", Code: "uuid"},
			}},
			wantStatus:  http.StatusUnprocessableEntity,
			wantKind:    "ValidationError",
			wantMessage: "params.id: Invalid UUID",
		},
		{
			name:        "operational app error",
			err:         customerrors.NotFound("Example not found"),
			wantStatus:  http.StatusNotFound,
			wantKind:    "NotFoundError",
			wantMessage: "Example not found",
		},
		{
			name:        "wrapped app error",
			err:         fmt.Errorf("loading example: %w", customerrors.Conflict("Example exists")),
			wantStatus:  http.StatusConflict,
			wantKind:    "ConflictError",
			wantMessage: "Example exists",
		},
		{
			name:        "too many requests",
			err:         customerrors.TooManyRequests(""),
			wantStatus:  http.StatusTooManyRequests,
			wantKind:    "TooManyRequestsError",
			wantMessage: "Too Many Requests",
		},
		{
			name:        "non operational app error is masked",
			err:         customerrors.InternalServer("connection string leaked"),
			wantStatus:  http.StatusInternalServerError,
			wantKind:    "InternalServerError",
			wantMessage: "Internal Server Error",
			wantLogged:  true,
		},
		{
			name:        "service unavailable is masked",
			err:         customerrors.ServiceUnavailable("upstream down"),
			wantStatus:  http.StatusInternalServerError,
			wantKind:    "InternalServerError",
			wantMessage: "Internal Server Error",
			wantLogged:  true,
		},
		{
			name:        "gorm error",
			err:         fmt.Errorf("query examples: %w", gorm.ErrInvalidTransaction),
			wantStatus:  http.StatusInternalServerError,
			wantKind:    "InternalServerError",
			wantMessage: "Internal Server Error",
			wantLogged:  true,
		},
		{
			name:        "postgres error",
			err:         &pgconn.PgError{Code: "23505", Message: "duplicate key value"},
			wantStatus:  http.StatusInternalServerError,
			wantKind:    "InternalServerError",
			wantMessage: "Internal Server Error",
			wantLogged:  true,
		},
		{
			name:        "expired token",
			err:         fmt.Errorf("%w: %w", jwt.ErrTokenInvalidClaims, jwt.ErrTokenExpired),
			wantStatus:  http.StatusUnauthorized,
			wantKind:    "UnauthorizedError",
			wantMessage: "Token expired",
		},
		{
			name:        "malformed token",
			err:         fmt.Errorf("%w: bad segment", jwt.ErrTokenMalformed),
			wantStatus:  http.StatusUnauthorized,
			wantKind:    "UnauthorizedError",
			wantMessage: "Invalid token",
		},
		{
			name:        "unknown error",
			err:         errors.New("nil map write in pricing engine"),
			wantStatus:  http.StatusInternalServerError,
			wantKind:    "InternalServerError",
			wantMessage: "Internal Server Error",
			wantLogged:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, logs := newTestHandler(false)
			rec := serveFailing(h, failWith(tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeErrorBody(t, rec)
			assert.Equal(t, tt.wantKind, body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantStatus, body.StatusCode)
			assert.Equal(t, "2026-03-04T05:06:07.890Z", body.Timestamp)
			assert.Equal(t, "/api/things/1", body.Path)
			assert.Equal(t, http.MethodPost, body.Method)
			assert.Empty(t, body.Stack)

			if tt.wantLogged {
				assert.Contains(t, logs.String(), tt.err.Error())
			} else {
				assert.NotContains(t, logs.String(), "request failed with unexpected error")
			}
		})
	}
}

func TestErrorHandlerValidateError(t *testing.T) {
	h, _ := newTestHandler(false)
	rec := serveFailing(h, failWith(customerrors.NewValidateError(customerrors.FieldErrors{
		"name": {Message: "Required", Value: "required"},
	}, "")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"Validation Failed","details":{"name":{"message":"Required","value":"required"}}}`, rec.Body.String())
}

func TestErrorHandlerMissingParameter(t *testing.T) {
	h, _ := newTestHandler(false)
	rec := serveFailing(h, failWith(customerrors.MissingParameter("body")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"Validation Failed","details":{"body":{"message":"Body parameter is missing"}}}`, rec.Body.String())
}

func TestErrorHandlerStackOnlyInDevelopment(t *testing.T) {
	h, _ := newTestHandler(true)
	rec := serveFailing(h, failWith(errors.New("boom")))
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.NotEmpty(t, body.Stack)

	h, _ = newTestHandler(true)
	rec = serveFailing(h, failWith(customerrors.NotFound("gone")))
	assert.NotEmpty(t, decodeErrorBody(t, rec).Stack)

	h, _ = newTestHandler(false)
	rec = serveFailing(h, failWith(customerrors.NotFound("gone")))
	assert.Empty(t, decodeErrorBody(t, rec).Stack)
	assert.NotContains(t, rec.Body.String(), "stack")
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	h, logs := newTestHandler(false)
	rec := serveFailing(h, func(c *gin.Context) {
		panic("unexpected nil config")
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.Contains(t, logs.String(), "unexpected nil config")
}

func TestErrorHandlerLeavesSuccessAlone(t *testing.T) {
	h, _ := newTestHandler(false)
	rec := serveFailing(h, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestErrorHandlerUsesLastError(t *testing.T) {
	h, _ := newTestHandler(false)
	rec := serveFailing(h, func(c *gin.Context) {
		_ = c.Error(customerrors.BadRequest("first"))
		response.Failed(c, customerrors.Forbidden("second"))
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "second", decodeErrorBody(t, rec).Message)
}
