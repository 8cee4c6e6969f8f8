package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/imrishuroy/bakery-storefront/internal/aws"
)

// Config holds runtime settings for the API and worker.
type Config struct {
	Env      string
	Port     string
	RunLocal bool

	DatabaseURL      string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL string
	CartTTL  time.Duration

	AdminAPIKey        string
	CORSAllowedOrigins []string

	IdempotencyTable string
	IdempotencyTTL   time.Duration
	// IdempotencyStaleAfter bounds how long an unfinished checkout blocks its key.
	IdempotencyStaleAfter time.Duration
	OrderEventsQueueURL   string
	CloudWatchNamespace   string

	UseSecrets bool
	DBSecretID string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		RunLocal:            os.Getenv("RUN_LOCAL") == "true",
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		PostgresUser:        os.Getenv("POSTGRES_USER"),
		PostgresPassword:    os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:          os.Getenv("POSTGRES_DB"),
		PostgresHost:        os.Getenv("POSTGRES_HOST"),
		PostgresPort:        getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:    getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		RedisURL:            os.Getenv("REDIS_URL"),
		AdminAPIKey:         os.Getenv("ADMIN_API_KEY"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		IdempotencyTable:    os.Getenv("IDEMPOTENCY_TABLE"),
		OrderEventsQueueURL: os.Getenv("ORDER_EVENTS_QUEUE_URL"),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Bakery"),
		UseSecrets:          os.Getenv("AWS_USE_SECRETS") == "true",
		DBSecretID:          getEnv("DB_SECRET_ID", "bakery/DB_CREDENTIALS"),
	}

	var err error
	if cfg.CartTTL, err = getDuration("CART_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 48*time.Hour); err != nil {
		return nil, err
	}
	if cfg.IdempotencyStaleAfter, err = getDuration("IDEMPOTENCY_STALE_AFTER", 5*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplySecret overlays database credentials from a JSON secret
// ({"POSTGRES_USER": "...", ...}); empty values are ignored.
func (c *Config) ApplySecret(ctx context.Context, client aws.SecretsManagerAPI) error {
	raw, err := aws.GetSecretString(ctx, client, c.DBSecretID)
	if err != nil {
		return err
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return fmt.Errorf("decode secret %s: %w", c.DBSecretID, err)
	}
	overlay := map[string]*string{
		"DATABASE_URL":      &c.DatabaseURL,
		"POSTGRES_USER":     &c.PostgresUser,
		"POSTGRES_PASSWORD": &c.PostgresPassword,
		"POSTGRES_DB":       &c.PostgresDB,
		"POSTGRES_HOST":     &c.PostgresHost,
		"POSTGRES_PORT":     &c.PostgresPort,
	}
	for k, dst := range overlay {
		if v, ok := m[k]; ok && v != "" {
			*dst = v
		}
	}
	return nil
}

// Validate reports settings required to start the API.
func (c *Config) Validate() error {
	if c.DatabaseURL != "" {
		return nil
	}
	if c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresDB == "" || c.PostgresHost == "" {
		return fmt.Errorf("database config incomplete")
	}
	return nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone)
}

// Location is the business timezone used for order numbers.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.PostgresTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
