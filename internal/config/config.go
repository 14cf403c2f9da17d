package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	RedisURL       string
	Port           string
	JWTSecret      string // Secret key for JWT token signing
	BcryptCost     int    // Cost factor for password hashing
	SendGridAPIKey string // Empty disables outbound email
	EmailFrom      string // From address for account emails
	AvatarMaxBytes int64  // Upload size cap for avatar images
}

const (
	DefaultBcryptCost     = 8
	DefaultAvatarMaxBytes = 1_000_000 // avatar uploads capped at 1MB
)

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		BcryptCost:     getEnvInt("BCRYPT_COST", DefaultBcryptCost),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", ""),
		AvatarMaxBytes: int64(getEnvInt("AVATAR_MAX_BYTES", DefaultAvatarMaxBytes)),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
