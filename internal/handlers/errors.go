package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lemmy-blog/backend/internal/services"
)

func errorBody(code, message string) echo.Map {
	return echo.Map{"error": code, "message": message}
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errorBody("validation_error", message))
}

// serviceError translates a PostService error into an HTTP error. forbidden
// is the message used when the caller does not own the post.
func serviceError(err error, forbidden string) *echo.HTTPError {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		body := errorBody("validation_error", validationErr.Message)
		if len(validationErr.Fields) > 0 {
			body["required_fields"] = validationErr.Fields
		}
		return echo.NewHTTPError(http.StatusBadRequest, body)
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, errorBody("not_found", "Post not found"))
	case errors.Is(err, services.ErrForbidden):
		if forbidden == "" {
			forbidden = "You can only modify your own posts"
		}
		return echo.NewHTTPError(http.StatusForbidden, errorBody("forbidden", forbidden))
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, errorBody("conflict", "Post was modified since it was read"))
	default:
		log.Printf("Request failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, errorBody("server_error", "Internal server error")).SetInternal(err)
	}
}
