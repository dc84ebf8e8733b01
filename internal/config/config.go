package config

import (
	"os"
	"strconv"

	"github.com/nelttjen/chat-platform-api/internal/constants"
)

type Config struct {
	Port       string
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	GinMode    string

	JWTSecret              string
	AccessTokenTTLMinutes  int
	RefreshTokenTTLMinutes int

	// PasswordPolicyEnabled toggles the strong-password validator on
	// registration and password change.
	PasswordPolicyEnabled bool
}

func Load() *Config {
	return &Config{
		Port:       getEnv("PORT", "8080"),
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "chatuser"),
		DBPassword: getEnv("DB_PASSWORD", "chatpassword"),
		DBName:     getEnv("DB_NAME", "chat_platform"),
		GinMode:    getEnv("GIN_MODE", "debug"),

		JWTSecret:              getEnv("JWT_SECRET", "insecure-jwt-secret-change-me"),
		AccessTokenTTLMinutes:  getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", constants.DefaultAccessTokenTTLMinutes),
		RefreshTokenTTLMinutes: getEnvAsInt("REFRESH_TOKEN_EXPIRE_MINUTES", constants.DefaultRefreshTokenTTLMinutes),

		PasswordPolicyEnabled: getEnvAsBool("PASSWORD_POLICY_ENABLED", true),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
