package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lemmy-blog/backend/internal/auth"
	"github.com/anonto42/lemmy-blog/backend/internal/middleware"
	"github.com/anonto42/lemmy-blog/backend/internal/models"
	"github.com/anonto42/lemmy-blog/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	service *services.PostService
	siteURL string
}

// NewPostHandler creates a new PostHandler. siteURL is used to build the
// public link returned for a created post.
func NewPostHandler(service *services.PostService, siteURL string) *PostHandler {
	return &PostHandler{
		service: service,
		siteURL: strings.TrimRight(siteURL, "/"),
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, sessions *auth.Manager) {
	requireSession := middleware.RequireSession(sessions)

	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost, requireSession)
	g.GET("/posts/:slug", h.GetPost, middleware.OptionalSession(sessions))
	g.PUT("/posts/:slug", h.UpdatePost, requireSession)
	g.DELETE("/posts/:slug", h.DeletePost, requireSession)
}

// ListPosts returns one page of published posts
func (h *PostHandler) ListPosts(c echo.Context) error {
	q := models.ListPostsQuery{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Search: strings.TrimSpace(c.QueryParam("search")),
		Tag:    strings.TrimSpace(c.QueryParam("tag")),
		Author: strings.TrimSpace(c.QueryParam("author")),
	}
	if err := c.Validate(&q); err != nil {
		return badRequest(err.Error())
	}

	filter := services.ListFilter{Search: q.Search, Tag: q.Tag, Author: q.Author}
	page, err := h.service.List(c.Request().Context(), filter, q.Page, q.Limit)
	if err != nil {
		return serviceError(err, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    page,
	})
}

// queryInt parses an integer query parameter; anything unparseable is 0 and
// left to the service's clamping.
func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

// CreatePost creates a new post authored by the session's identity
func (h *PostHandler) CreatePost(c echo.Context) error {
	caller := middleware.Identity(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	result, err := h.service.Create(c.Request().Context(), &req, *caller)
	if err != nil {
		return serviceError(err, "")
	}
	post := result.Post

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Post created successfully",
		"data": echo.Map{
			"slug":         post.Slug,
			"title":        post.Title,
			"author":       post.Author,
			"status":       post.Status(),
			"created_at":   post.CreatedAt,
			"storage_type": h.service.StorageType(),
			"mirrored":     result.Mirrored,
			"url":          h.siteURL + "/posts/" + post.Slug,
		},
	})
}

// GetPost retrieves a post by slug. Drafts are visible to their author only.
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"), middleware.Identity(c))
	if err != nil {
		return serviceError(err, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"post": post,
			"meta": echo.Map{"storage_type": h.service.StorageType()},
		},
	})
}

// UpdatePost updates an existing post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	caller := middleware.Identity(c)
	slug := c.Param("slug")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request payload")
	}

	post, err := h.service.Update(c.Request().Context(), slug, &req, *caller)
	if err != nil {
		return serviceError(err, "You can only edit your own posts")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Post updated successfully",
		"data": echo.Map{
			"slug":         post.Slug,
			"title":        post.Title,
			"updated_at":   post.UpdatedAt,
			"storage_type": h.service.StorageType(),
		},
	})
}

// DeletePost deletes a post
func (h *PostHandler) DeletePost(c echo.Context) error {
	caller := middleware.Identity(c)
	slug := c.Param("slug")

	if err := h.service.Delete(c.Request().Context(), slug, *caller); err != nil {
		return serviceError(err, "You can only delete your own posts")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Post deleted successfully",
		"data": echo.Map{
			"slug":       slug,
			"deleted_at": models.NewTimestamp(time.Now()),
		},
	})
}
