package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/lemmy-blog/backend/internal/auth"
	"github.com/anonto42/lemmy-blog/backend/internal/repositories"
	"github.com/anonto42/lemmy-blog/backend/internal/services"
	"github.com/anonto42/lemmy-blog/backend/validators"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	e.Validator = validators.NewValidator()
	svc := services.NewPostService(repositories.NewMemoryPostStore())
	SetupRoutes(e, svc, auth.NewManager("secret", time.Hour), "http://localhost:8080")

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/posts", http.StatusOK},
		{http.MethodPost, "/api/v1/posts", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/posts/missing", http.StatusNotFound},
		{http.MethodPut, "/api/v1/posts/missing", http.StatusUnauthorized},
		{http.MethodDelete, "/api/v1/posts/missing", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/me/posts", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestHealthReportsStorage(t *testing.T) {
	e := echo.New()
	svc := services.NewPostService(repositories.NewMemoryPostStore())
	SetupRoutes(e, svc, auth.NewManager("secret", time.Hour), "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "in_memory_temporary", body["storage_type"])
}
