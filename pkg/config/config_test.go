package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not
// leak into the test.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "JWT_SECRET", "SESSION_TTL", "STORAGE_BACKEND", "MONGO_URI", "MONGO_DATABASE",
		"POSTGRES_CONN_STR", "FIREBASE_CREDENTIALS_PATH", "FIREBASE_STORAGE_BUCKET", "BLOB_PREFIX",
		"GITHUB_TOKEN", "GITHUB_REPO", "GITHUB_POSTS_DIR", "SITE_URL", "SEED_WELCOME_POST", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, developmentJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "posts/", cfg.BlobPrefix)
	assert.True(t, cfg.SeedWelcomePost)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MirrorEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("SEED_WELCOME_POST", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("GITHUB_TOKEN", "ghp_x")
	t.Setenv("GITHUB_REPO", "octo/blog")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.False(t, cfg.SeedWelcomePost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MirrorEnabled())
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret outside development", map[string]string{"ENV": "production"}},
		{"bad ttl", map[string]string{"SESSION_TTL": "forever"}},
		{"bad seed flag", map[string]string{"SEED_WELCOME_POST": "maybe"}},
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "netlify"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenStore(ctx, &Config{StorageBackend: BackendMemory})
	require.NoError(t, err)
	assert.Equal(t, "in_memory_temporary", store.Name())

	_, err = OpenStore(ctx, &Config{StorageBackend: BackendMongo})
	assert.ErrorContains(t, err, "MONGO_URI")

	_, err = OpenStore(ctx, &Config{StorageBackend: BackendPostgres})
	assert.ErrorContains(t, err, "POSTGRES_CONN_STR")

	_, err = OpenStore(ctx, &Config{StorageBackend: BackendFirebase})
	assert.Error(t, err)

	_, err = OpenStore(ctx, &Config{StorageBackend: BackendFirebase, FirebaseCredentialsPath: "/nonexistent/creds.json"})
	assert.ErrorContains(t, err, "not found")
}
