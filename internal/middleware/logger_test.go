package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	server := gin.New()
	server.Use(RequestLogger(logger))
	server.GET("/ping", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		c.Status(http.StatusNoContent)
	})
	server.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	t.Run("GeneratesRequestID", func(t *testing.T) {
		buf.Reset()
		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

		requestID := recorder.Header().Get(RequestIDHeader)
		require.NotEmpty(t, requestID)
		require.Contains(t, buf.String(), `"request_id":"`+requestID+`"`)
		require.Contains(t, buf.String(), `"message":"inside"`)
		require.Contains(t, buf.String(), `"status_code":204`)
	})

	t.Run("PropagatesRequestID", func(t *testing.T) {
		buf.Reset()
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)
		request.Header.Set(RequestIDHeader, "abc")

		server.ServeHTTP(recorder, request)

		require.Equal(t, "abc", recorder.Header().Get(RequestIDHeader))
		require.Contains(t, buf.String(), `"request_id":"abc"`)
	})

	t.Run("RecoversPanic", func(t *testing.T) {
		buf.Reset()
		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/panic", nil))

		require.Equal(t, http.StatusInternalServerError, recorder.Code)
		require.Contains(t, buf.String(), "panic message: boom")
	})
}
