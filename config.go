package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Addr       string
	DBURL      string
	JWTSecret  string
	SessionTTL time.Duration
	LogLevel   string
}

// LoadConfig reads configuration from the environment, with a .env file as
// optional local override.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Addr:       envOr("ADDR", ":3000"),
		DBURL:      envOr("DB_URL", "sqlite://jukebox.db"),
		JWTSecret:  envOr("JWT_SECRET", "secret"),
		SessionTTL: envDurationSeconds("SESSION_TTL", 180*time.Second),
		LogLevel:   envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v + "s")
	if err != nil {
		return fallback
	}
	return d
}

func setupLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stderr).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
