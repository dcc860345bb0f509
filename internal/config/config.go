package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	BackendURL      string
	DatabasePath    string
	RedisURL        string
	RedisChannel    string
	ServiceName     string
	LogLevel        string
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// A local .env overrides nothing already exported.
	_ = godotenv.Load()

	return &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8085"),
		BackendURL:      getEnv("BACKEND_URL", ""),
		DatabasePath:    getEnv("DB_PATH", "data/itinerary.db"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisChannel:    getEnv("REDIS_CHANNEL", "itinerary_events"),
		ServiceName:     getEnv("SERVICE_NAME", "itinerary-service"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
