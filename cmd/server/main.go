package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/lemmy-blog/backend/internal/auth"
	"github.com/anonto42/lemmy-blog/backend/internal/mirror"
	"github.com/anonto42/lemmy-blog/backend/internal/router"
	"github.com/anonto42/lemmy-blog/backend/internal/services"
	"github.com/anonto42/lemmy-blog/backend/pkg/config"
	"github.com/anonto42/lemmy-blog/backend/validators"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Open the selected post store; a durable backend that is down is fatal
	store, err := config.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", cfg.StorageBackend, err)
	}
	log.Printf("Post storage: %s", store.Name())

	var opts []services.Option
	if cfg.MirrorEnabled() {
		m, err := mirror.NewGitHubMirror(cfg.GitHubToken, cfg.GitHubRepo, cfg.GitHubPostsDir)
		if err != nil {
			log.Fatalf("Failed to configure GitHub mirror: %v", err)
		}
		opts = append(opts, services.WithMirror(m))
		log.Printf("Mirroring new posts to %s", cfg.GitHubRepo)
	}
	postService := services.NewPostService(store, opts...)

	if cfg.SeedWelcomePost {
		if _, err := postService.SeedWelcomePost(ctx); err != nil {
			log.Printf("Failed to seed welcome post: %v", err)
		}
	}

	sessions := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	router.SetupRoutes(e, postService, sessions, cfg.SiteURL)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("Error closing %s storage: %v", store.Name(), err)
	}
	log.Println("Server stopped.")
}
