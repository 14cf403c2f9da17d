package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "REDIS_URL", "PORT", "JWT_SECRET", "BCRYPT_COST", "SENDGRID_API_KEY", "EMAIL_FROM", "AVATAR_MAX_BYTES"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultBcryptCost, cfg.BcryptCost)
	assert.Equal(t, int64(DefaultAvatarMaxBytes), cfg.AvatarMaxBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/taskly")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PORT", "9090")

	cfg := Load()
	assert.Equal(t, "postgres://localhost/taskly", cfg.DatabaseURL)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg := Load()
	assert.Equal(t, DefaultBcryptCost, cfg.BcryptCost)
}
