package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/scaffold/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemParams struct {
	ID string `uri:"id" validate:"required,uuid"`
}

type itemQuery struct {
	Verbose bool `form:"verbose"`
}

type itemBody struct {
	Name string `json:"name" validate:"required"`
}

const validID = "0190b7a4-8d4e-7c3a-9d1e-2f3a4b5c6d7e"

func newValidationEngine(t *testing.T, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h, _ := newTestHandler(false)

	engine := gin.New()
	engine.Use(h.Middleware(), h.Recovery())
	engine.PUT("/items/:id", ValidateRequest(schema.Schema{
		Params: schema.Params[itemParams](),
		Query:  schema.Query[itemQuery](),
		Body:   schema.Body[itemBody](),
	}), handler)
	return engine
}

func doPut(engine *gin.Engine, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	return rec
}

func TestValidateRequestPasses(t *testing.T) {
	var (
		gotParams *itemParams
		gotQuery  *itemQuery
		gotBody   *itemBody
		rawBody   []byte
	)
	engine := newValidationEngine(t, func(c *gin.Context) {
		gotParams, _ = schema.Validated[itemParams](c, schema.PartParams)
		gotQuery, _ = schema.Validated[itemQuery](c, schema.PartQuery)
		gotBody, _ = schema.Validated[itemBody](c, schema.PartBody)
		rawBody, _ = io.ReadAll(c.Request.Body)
		c.Status(http.StatusNoContent)
	})

	rec := doPut(engine, "/items/"+validID+"?verbose=true", `{"name":"widget"}`)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, gotParams)
	assert.Equal(t, validID, gotParams.ID)
	require.NotNil(t, gotQuery)
	assert.True(t, gotQuery.Verbose)
	require.NotNil(t, gotBody)
	assert.Equal(t, "widget", gotBody.Name)
	assert.JSONEq(t, `{"name":"widget"}`, string(rawBody))
}

func TestValidateRequestStopsAtFirstFailingPart(t *testing.T) {
	called := false
	engine := newValidationEngine(t, func(c *gin.Context) {
		called = true
	})

	rec := doPut(engine, "/items/not-a-uuid", `{}`)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ValidationError", body["error"])
	assert.Equal(t, "params.id: Invalid UUID", body["message"])
}

func TestValidateRequestQueryCoercionFailure(t *testing.T) {
	engine := newValidationEngine(t, func(c *gin.Context) {})

	rec := doPut(engine, "/items/"+validID+"?verbose=maybe", `{"name":"widget"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "query.verbose")
}

func TestValidateRequestBodyFailure(t *testing.T) {
	engine := newValidationEngine(t, func(c *gin.Context) {})

	rec := doPut(engine, "/items/"+validID, `{"name":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "body.name: Required")

	rec = doPut(engine, "/items/"+validID, `{"name":`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Malformed JSON")
}

func TestValidateRequestEmptySchema(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ping", ValidateRequest(schema.Schema{}), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping?anything=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
