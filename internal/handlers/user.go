package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lemmy-blog/backend/internal/auth"
	"github.com/anonto42/lemmy-blog/backend/internal/middleware"
	"github.com/anonto42/lemmy-blog/backend/internal/services"
)

// UserHandler serves the signed-in author's own posts
type UserHandler struct {
	service *services.PostService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *services.PostService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterProfileRoutes registers routes scoped to the caller
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, sessions *auth.Manager) {
	g.GET("/me/posts", h.GetMyPosts, middleware.RequireSession(sessions))
}

// GetMyPosts lists every post the caller wrote, drafts included, with stats
func (h *UserHandler) GetMyPosts(c echo.Context) error {
	caller := middleware.Identity(c)

	result, err := h.service.ListByAuthor(c.Request().Context(), *caller)
	if err != nil {
		return serviceError(err, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":         caller,
			"posts":        result.Posts,
			"stats":        result.Stats,
			"storage_type": h.service.StorageType(),
		},
	})
}
