package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/d-krupke/thesis-manager/pkg/context"
)

func TestLoggerEmitsOneLinePerRequest(t *testing.T) {
	var logged int
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {
		logged++
	})

	var seenRequestID string
	e := echo.New()
	e.Use(Context(), Logger(logger))
	e.GET("/ping", func(c echo.Context) error {
		seenRequestID = context.GetRequestID(c.Request().Context())
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, logged)
	assert.Equal(t, "req-42", seenRequestID)
}
