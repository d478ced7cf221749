package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Store drivers for the backend.
const (
	StoreJSON  = "json"
	StoreMySQL = "mysql"
)

type Config struct {
	Port           string
	Env            string
	StoreDriver    string
	UsersFile      string
	PostsFile      string
	UploadDir      string
	DatabaseDSN    string
	MaxUploadBytes int64
	AuthRateRPS    float64
	AuthRateBurst  int
	CORSOrigins    []string
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "5000"),
		Env:            getEnv("ENV", "development"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreJSON)),
		UsersFile:      getEnv("USERS_FILE", "users.json"),
		PostsFile:      getEnv("POSTS_FILE", "posts.json"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/postdeck?parseTime=true"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		AuthRateRPS:    getEnvFloat("AUTH_RATE_RPS", 5),
		AuthRateBurst:  int(getEnvInt64("AUTH_RATE_BURST", 10)),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if cfg.StoreDriver != StoreJSON && cfg.StoreDriver != StoreMySQL {
		slog.Error("unsupported STORE_DRIVER", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
