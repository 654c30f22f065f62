package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lemmy-blog/backend/internal/auth"
	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

const sessionKey = "session"

// RequireSession rejects requests without a valid session token with 401 and
// stores the verified claims in the context otherwise.
func RequireSession(m *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.Verify(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
					"error":   "unauthorized",
					"message": err.Error(),
				}).SetInternal(err)
			}

			c.Set(sessionKey, claims)
			return next(c)
		}
	}
}

// OptionalSession stores the claims of a valid session token when one is
// sent. A missing or invalid token leaves the request anonymous.
func OptionalSession(m *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header != "" {
				if claims, err := m.Verify(header); err == nil {
					c.Set(sessionKey, claims)
				} else {
					c.Logger().Debugf("ignoring invalid session token: %v", err)
				}
			}
			return next(c)
		}
	}
}

// Session returns the claims stored by RequireSession or OptionalSession.
func Session(c echo.Context) (*models.SessionClaims, bool) {
	claims, ok := c.Get(sessionKey).(*models.SessionClaims)
	return claims, ok && claims != nil
}

// Identity returns the caller's identity, or nil for anonymous requests.
func Identity(c echo.Context) *models.Identity {
	claims, ok := Session(c)
	if !ok {
		return nil
	}
	id := claims.Identity()
	return &id
}
