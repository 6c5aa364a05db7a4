package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MetricsPort string
	Env         string
	LogLevel    slog.Level
	DatabaseURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	// TeamsAPIURL points form sessions at a remote teams API. Empty means
	// submissions are applied in-process.
	TeamsAPIURL        string
	SubmitTimeout      time.Duration
	SessionIdleTimeout time.Duration
}

// ClientConfig holds what the teamctl CLI needs to reach the API.
type ClientConfig struct {
	APIURL       string
	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    parseLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:       getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry: getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),

		TeamsAPIURL:        getEnv("TEAMS_API_URL", ""),
		SubmitTimeout:      getDuration("SUBMIT_TIMEOUT", 30*time.Second),
		SessionIdleTimeout: getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
	}, nil
}

// LoadClient reads the CLI settings. Unlike Load it needs no server secrets.
func LoadClient() *ClientConfig {
	_ = godotenv.Load()

	return &ClientConfig{
		APIURL:       getEnv("HARBOR_API_URL", "http://localhost:8080"),
		Token:        getEnv("HARBOR_TOKEN", ""),
		ClientID:     getEnv("HARBOR_CLIENT_ID", ""),
		ClientSecret: getEnv("HARBOR_CLIENT_SECRET", ""),
		TokenURL:     getEnv("HARBOR_TOKEN_URL", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return d
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
