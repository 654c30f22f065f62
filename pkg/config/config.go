package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFirebase = "firebase"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

const developmentJWTSecret = "supersecretjwtkey"

type Config struct {
	Port string
	Env  string

	JWTSecret  string
	SessionTTL time.Duration

	StorageBackend          string
	MongoURI                string
	MongoDatabase           string
	PostgresConnStr         string
	FirebaseCredentialsPath string
	FirebaseStorageBucket   string
	BlobPrefix              string

	GitHubToken    string
	GitHubRepo     string
	GitHubPostsDir string

	SiteURL            string
	SeedWelcomePost    bool
	CORSAllowedOrigins []string
}

// Load reads the configuration from the environment, after loading a .env
// file if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		StorageBackend:          strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "blog"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseStorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		BlobPrefix:              getEnv("BLOB_PREFIX", "posts/"),
		GitHubToken:             getEnv("GITHUB_TOKEN", ""),
		GitHubRepo:              getEnv("GITHUB_REPO", ""),
		GitHubPostsDir:          getEnv("GITHUB_POSTS_DIR", "posts"),
		SiteURL:                 getEnv("SITE_URL", "http://localhost:8080"),
		CORSAllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	seed, err := strconv.ParseBool(getEnv("SEED_WELCOME_POST", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_WELCOME_POST: %w", err)
	}
	cfg.SeedWelcomePost = seed

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET environment variable not set")
		}
		log.Println("JWT_SECRET not set, using the development secret.")
		cfg.JWTSecret = developmentJWTSecret
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendFirebase, BackendMongo, BackendPostgres:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// MirrorEnabled reports whether created posts are committed to GitHub.
func (c *Config) MirrorEnabled() bool {
	return c.GitHubToken != "" && c.GitHubRepo != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
