package router

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lemmy-blog/backend/internal/auth"
	"github.com/anonto42/lemmy-blog/backend/internal/handlers"
	"github.com/anonto42/lemmy-blog/backend/internal/services"
)

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, postService *services.PostService, sessions *auth.Manager, siteURL string) {
	// Health check - always accessible
	healthHandler := handlers.NewHealthHandler(postService.StorageType())
	e.GET("/health", healthHandler.HealthCheck)

	api := e.Group("/api/v1")
	api.GET("/health", healthHandler.HealthCheck)

	// Session routes; tokens come from the Lemmy login flow
	authHandler := handlers.NewAuthHandler()
	authHandler.RegisterAuthRoutes(api.Group("/auth"), sessions)
	log.Println("Auth routes configured.")

	// Post routes: reads are public, writes require a session
	postHandler := handlers.NewPostHandler(postService, siteURL)
	postHandler.RegisterPostRoutes(api, sessions)
	log.Println("Post routes configured.")

	// Caller-scoped routes
	userHandler := handlers.NewUserHandler(postService)
	userHandler.RegisterProfileRoutes(api, sessions)
	log.Println("Profile routes configured.")

	log.Println("All routes configured.")
}
