package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/masteryyh/scaffold/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthEngine(cfg *config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(false)

	engine := gin.New()
	engine.Use(h.Middleware(), h.Recovery())
	engine.POST("/guarded", Auth(cfg), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return engine
}

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthDisabled(t *testing.T) {
	for _, cfg := range []*config.AuthConfig{nil, {Mode: config.AuthModeNone}, {}} {
		engine := newAuthEngine(cfg)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/guarded", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestBasicAuth(t *testing.T) {
	engine := newAuthEngine(&config.AuthConfig{
		Mode:     config.AuthModeBasic,
		Username: "admin",
		Password: "secret",
	})

	tests := []struct {
		name        string
		setup       func(r *http.Request)
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "no credentials",
			setup:       func(r *http.Request) {},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authorization required",
		},
		{
			name:        "wrong password",
			setup:       func(r *http.Request) { r.SetBasicAuth("admin", "nope") },
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid username or password",
		},
		{
			name:       "valid credentials",
			setup:      func(r *http.Request) { r.SetBasicAuth("admin", "secret") },
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				body := decodeErrorBody(t, rec)
				assert.Equal(t, "UnauthorizedError", body.Error)
				assert.Equal(t, tt.wantMessage, body.Message)
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"
	engine := newAuthEngine(&config.AuthConfig{
		Mode:      config.AuthModeJWT,
		JWTSecret: secret,
		JWTIssuer: "scaffold",
	})

	now := time.Now()
	valid := jwt.RegisteredClaims{
		Issuer:    "scaffold",
		Subject:   "tester",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{name: "valid token", header: "Bearer " + signToken(t, secret, valid), wantStatus: http.StatusNoContent},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantMessage: "Authorization required"},
		{name: "wrong scheme", header: "Token abc", wantStatus: http.StatusUnauthorized, wantMessage: "Authorization required"},
		{name: "expired", header: "Bearer " + signToken(t, secret, expired), wantStatus: http.StatusUnauthorized, wantMessage: "Token expired"},
		{name: "bad signature", header: "Bearer " + signToken(t, "other", valid), wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "malformed", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "wrong issuer", header: "Bearer " + signToken(t, secret, wrongIssuer), wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "no expiry", header: "Bearer " + signToken(t, secret, noExpiry), wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				body := decodeErrorBody(t, rec)
				assert.Equal(t, "UnauthorizedError", body.Error)
				assert.Equal(t, tt.wantMessage, body.Message)
			}
		})
	}
}
