package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and the active storage backend.
type HealthHandler struct {
	storageType string
}

func NewHealthHandler(storageType string) *HealthHandler {
	return &HealthHandler{storageType: storageType}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":       "healthy",
		"service":      "lemmy-blog",
		"storage_type": h.storageType,
	})
}
