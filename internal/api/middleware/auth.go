package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feedboard/social-api/internal/api/metrics"
	"github.com/feedboard/social-api/internal/core/ports"
)

const (
	ctxAuthenticated = "isAuthenticated"
	ctxUserID        = "userId"
)

// Auth is the fail-open auth gate. It decodes the Authorization header when
// present and annotates the request context with the verified identity; it
// never rejects a request. Rejection is each resolver's responsibility, since
// createUser and login must stay reachable without a credential.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ctxAuthenticated, false)

			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("malformed_header").Inc()
				return next(c)
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return next(c)
			}

			c.Set(ctxAuthenticated, true)
			c.Set(ctxUserID, claims.UserID)
			return next(c)
		}
	}
}

// ViewerFrom builds the per-request identity from the annotations left by Auth.
func ViewerFrom(c echo.Context) ports.Viewer {
	authed, _ := c.Get(ctxAuthenticated).(bool)
	userID, _ := c.Get(ctxUserID).(string)
	return ports.Viewer{Authenticated: authed, UserID: userID}
}
