package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the API process.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	JWTTTL         time.Duration
	CORSOrigin     string
	RedisURL       string
	KafkaBrokers   []string
	KafkaTopic     string
	LogLevel       slog.Level
	MigrateOnStart bool
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load() // load .env if it exists

	cfg := Config{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigin:  getenv("CORS_ORIGIN", "http://localhost:5173"),
		RedisURL:    os.Getenv("REDIS_URL"),
		KafkaTopic:  getenv("KAFKA_TOPIC", "marketplace.orders"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(getenv("JWT_TTL", "720h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg.MigrateOnStart, err = strconv.ParseBool(getenv("MIGRATE_ON_START", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid MIGRATE_ON_START: %w", err)
	}

	return cfg, nil
}
