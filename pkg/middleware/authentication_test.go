package middleware

import (
	stdcontext "context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-krupke/thesis-manager/pkg/context"
)

type fakeVerifier struct {
	key      string
	username string
}

func (v *fakeVerifier) Verify(ctx stdcontext.Context, key string) (string, error) {
	if key == v.key {
		return v.username, nil
	}
	return "", fmt.Errorf("unknown token")
}

func newAuthTestServer(enabled bool) *echo.Echo {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	verifier := &fakeVerifier{key: "good-key", username: "alice"}

	e := echo.New()
	e.Use(Authentication(logger, verifier, enabled))
	e.GET("/whoami", func(c echo.Context) error {
		user := context.GetUser(c.Request().Context())
		return c.String(http.StatusOK, user)
	})
	return e
}

func authRequest(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticationValidToken(t *testing.T) {
	rec := authRequest(newAuthTestServer(true), "Token good-key")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestAuthenticationInvalidToken(t *testing.T) {
	rec := authRequest(newAuthTestServer(true), "Token bad-key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticationMissingHeader(t *testing.T) {
	rec := authRequest(newAuthTestServer(true), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticationWrongScheme(t *testing.T) {
	rec := authRequest(newAuthTestServer(true), "Bearer good-key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticationDisabled(t *testing.T) {
	rec := authRequest(newAuthTestServer(false), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
