package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, `"level":"INFO"`},
		{http.StatusNotFound, `"level":"WARN"`},
		{http.StatusInternalServerError, `"level":"ERROR"`},
	}

	for _, tt := range tests {
		buf := &bytes.Buffer{}
		engine := gin.New()
		engine.Use(RequestLogger(slog.New(slog.NewJSONHandler(buf, nil))))
		engine.GET("/status", func(c *gin.Context) {
			c.Status(tt.status)
		})

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status?x=1", nil))

		out := buf.String()
		assert.Contains(t, out, tt.wantLevel)
		assert.Contains(t, out, `"path":"/status?x=1"`)
		assert.Contains(t, out, `"method":"GET"`)
	}
}
