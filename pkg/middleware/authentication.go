package middleware

import (
	stdcontext "context"
	"net/http"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/d-krupke/thesis-manager/pkg/context"
	"github.com/d-krupke/thesis-manager/pkg/tracing"
)

// TokenVerifier resolves an API token key to the username it was issued to.
type TokenVerifier interface {
	Verify(ctx stdcontext.Context, key string) (string, error)
}

// Authentication enforces "Authorization: Token <key>" on every request and
// stores the resolved username on the context.
func Authentication(logger ectologger.Logger, verifier TokenVerifier, enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}

			ctx := c.Request().Context()
			ctx, span := tracing.StartSpan(ctx, "middleware.Authentication")
			defer span.End()

			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Token ") {
				logger.WithContext(ctx).Warn("request is missing api token")
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}

			key := strings.TrimSpace(strings.TrimPrefix(auth, "Token "))
			user, err := verifier.Verify(ctx, key)
			if err != nil {
				logger.WithContext(ctx).WithError(err).Warn("token is invalid")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx = context.SetUser(ctx, user)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
