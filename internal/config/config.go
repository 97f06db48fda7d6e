// Package config loads daemon configuration from the environment, reading a
// local .env file when one is present.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DataPath  string
	MasterKey string
	AIBaseURL string
	AIModel   string
	LogLevel  string
	LogDev    bool
}

func Load() Config {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	return Config{
		Port:      envOrDefault("NEXUS_PORT", "7100"),
		DataPath:  envOrDefault("NEXUS_DATA_PATH", "./nexus.db"),
		MasterKey: envOrDefault("NEXUS_MASTER_KEY", "change-this-master-key"),
		AIBaseURL: envOrDefault("NEXUS_AI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AIModel:   envOrDefault("NEXUS_AI_MODEL", "gemini-3-flash-preview"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogDev:    os.Getenv("LOG_DEV") == "1",
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
