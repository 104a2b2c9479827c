package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAuthorName is written into author_name whenever a content item
// arrives without one.
const DefaultAuthorName = "Devesh Mandhata"

// Author is the process-wide default author profile.
type Author struct {
	Name        string
	Credentials []string
	LinkedIn    string
	Email       string
}

type Config struct {
	Addr    string
	SiteURL string
	// DatabaseURL empty means the store is not configured: reads render
	// empty listings and writes are refused.
	DatabaseURL string

	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration

	RedisURL       string
	MeiliURL       string
	MeiliMasterKey string
	RevisionsDir   string

	// S3-compatible backup target
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	LogLevel      string
	DefaultAuthor Author
}

// Load reads .env.local and .env (when present) and then the environment.
// Variables already set in the environment win over the files.
func Load() Config {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	return Config{
		Addr:              getenv("SITE_ADDR", ":8080"),
		SiteURL:           strings.TrimRight(getenv("SITE_URL", "http://localhost:8080"), "/"),
		DatabaseURL:       getenv("DATABASE_URL", ""),
		AdminPassword:     getenv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     getenv("SESSION_SECRET", "folio-dev-secret"),
		SessionTTL:        time.Duration(getenvInt("SESSION_TTL_SECONDS", 86400)) * time.Second,
		RedisURL:          getenv("REDIS_URL", ""),
		MeiliURL:          getenv("MEILI_URL", ""),
		MeiliMasterKey:    getenv("MEILI_MASTER_KEY", ""),
		RevisionsDir:      getenv("REVISIONS_DIR", ""),
		S3Endpoint:        getenv("S3_ENDPOINT", ""),
		S3AccessKey:       getenv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getenv("S3_SECRET_KEY", ""),
		S3Bucket:          getenv("S3_BUCKET", "folio-backups"),
		S3UseSSL:          getenvBool("S3_USE_SSL", true),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		DefaultAuthor: Author{
			Name:        getenv("AUTHOR_NAME", DefaultAuthorName),
			Credentials: getenvList("AUTHOR_CREDENTIALS", []string{"LL.M. (Harvard)", "Research Fellow"}),
			LinkedIn:    getenv("AUTHOR_LINKEDIN", "https://linkedin.com/in/deveshmandhata"),
			Email:       getenv("AUTHOR_EMAIL", "contact@deveshmandhata.com"),
		},
	}
}

// StoreConfigured reports whether database connection parameters are present.
func (c Config) StoreConfigured() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getenvList splits a "|"-separated value, the same separator the site uses
// to display credentials.
func getenvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
