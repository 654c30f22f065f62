package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lemmy-blog/backend/internal/auth"
	"github.com/anonto42/lemmy-blog/backend/internal/middleware"
	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

// Every signed-in author has the same permissions.
var sessionPermissions = []string{"read_posts", "write_posts", "delete_own_posts"}

// AuthHandler exposes the caller's session. Tokens are issued by the Lemmy
// login flow, which lives outside this service.
type AuthHandler struct {
	now func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{now: time.Now}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, sessions *auth.Manager) {
	g.GET("/me", h.Me, middleware.RequireSession(sessions))
}

// Me describes the verified session token
func (h *AuthHandler) Me(c echo.Context) error {
	claims, _ := middleware.Session(c)

	user := echo.Map{
		"username":      claims.Username,
		"instance":      claims.Instance,
		"lemmy_user_id": claims.LemmyUserID,
		"token_expires": claims.ExpiresAt.Unix(),
	}
	if claims.IssuedAt != nil {
		user["authenticated_since"] = claims.IssuedAt.Unix()
	}

	remaining := int64(claims.ExpiresAt.Sub(h.now()) / time.Second)
	if remaining < 0 {
		remaining = 0
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":        user,
			"permissions": sessionPermissions,
			"session_info": echo.Map{
				"expires_at":     models.NewTimestamp(claims.ExpiresAt.Time),
				"time_remaining": remaining,
			},
		},
	})
}
