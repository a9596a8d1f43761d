package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDBBaseURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 1, cfg.ImportPages)
	assert.Empty(t, cfg.ImportSchedule)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TMDB_API_TOKEN", "tok")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("IMPORT_PAGES", "3")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "tok", cfg.TMDBAPIToken)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 3, cfg.ImportPages)
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("JWT_EXPIRES_IN", "soon")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
}
