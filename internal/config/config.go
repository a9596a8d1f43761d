package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	JWTSecret    string
	JWTExpiresIn time.Duration

	TMDBAPIToken string
	TMDBBaseURL  string

	RedisAddr     string
	RedisPassword string

	// ImportSchedule is a cron expression; empty disables scheduled imports.
	ImportSchedule string
	ImportPages    int

	LogLevel string
}

func Load() *Config {
	// Local development convenience; absence is not an error.
	_ = godotenv.Load()

	return &Config{
		Port:           envInt("PORT", 8080),
		DatabaseURL:    env("DATABASE_URL", "postgres://cinetheque:cinetheque@db:5432/cinetheque?sslmode=disable"),
		JWTSecret:      env("JWT_SECRET", "change-me-in-production"),
		JWTExpiresIn:   envDuration("JWT_EXPIRES_IN", 24*time.Hour),
		TMDBAPIToken:   env("TMDB_API_TOKEN", ""),
		TMDBBaseURL:    env("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		RedisAddr:      env("REDIS_ADDR", "redis:6379"),
		RedisPassword:  env("REDIS_PASSWORD", ""),
		ImportSchedule: env("IMPORT_SCHEDULE", ""),
		ImportPages:    envInt("IMPORT_PAGES", 1),
		LogLevel:       env("LOG_LEVEL", "info"),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
