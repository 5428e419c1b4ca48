package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bakery-service/database"
	awspkg "bakery-service/pkg/aws"
	"bakery-service/workflow"
)

const dbSecretName = "bakery/DB_CREDENTIALS"

type Config struct {
	Port   string
	AppEnv string

	Postgres database.PostgresConfig
	RedisURL string

	CartTTL         time.Duration
	CheckoutLockTTL time.Duration
	IdempotencyTTL  time.Duration
	CatalogCacheTTL time.Duration

	// CatalogBackend is "postgres" or "dynamodb".
	CatalogBackend   string
	DDBTableProducts string

	KafkaBrokers       []string
	OrderEventsTopic   string
	ContactSNSTopicArn string

	// Product photo uploads are disabled when ProductImagesBucket is empty.
	ProductImagesBucket  string
	ProductImagesBaseURL string

	JWTSecret      string
	AllowedOrigins []string
	StatusPolicy   workflow.Policy
	FormRateLimit  int // submissions per minute per IP

	CloudWatchEnabled bool
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CatalogBackend:       strings.ToLower(getEnv("CATALOG_BACKEND", "postgres")),
		DDBTableProducts:     getEnv("DDB_TABLE_PRODUCTS", "bakery-products"),
		KafkaBrokers:         splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic:     getEnv("ORDER_EVENTS_TOPIC", "bakery.orders"),
		ContactSNSTopicArn:   os.Getenv("CONTACT_SNS_TOPIC_ARN"),
		ProductImagesBucket:  os.Getenv("PRODUCT_IMAGES_BUCKET"),
		ProductImagesBaseURL: os.Getenv("PRODUCT_IMAGES_BASE_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		StatusPolicy:         workflow.PolicyByName(os.Getenv("STATUS_POLICY")),
		CloudWatchEnabled:    os.Getenv("CLOUDWATCH_ENABLED") == "true",
	}

	var err error
	if cfg.CartTTL, err = getDuration("CART_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CheckoutLockTTL, err = getDuration("CHECKOUT_LOCK_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.FormRateLimit, err = strconv.Atoi(getEnv("FORM_RATE_LIMIT", "10")); err != nil || cfg.FormRateLimit <= 0 {
		return nil, fmt.Errorf("FORM_RATE_LIMIT must be a positive integer")
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			if creds, err := sm.GetDBCredentials(context.Background(), dbSecretName); err == nil {
				applyDBCredentials(&cfg.Postgres, creds)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDBCredentials overrides only the fields the secret actually sets.
func applyDBCredentials(pg *database.PostgresConfig, creds *awspkg.DBCredentials) {
	if creds.User != "" {
		pg.User = creds.User
	}
	if creds.Password != "" {
		pg.Password = creds.Password
	}
	if creds.DB != "" {
		pg.DB = creds.DB
	}
	if creds.Host != "" {
		pg.Host = creds.Host
	}
	if creds.Port != "" {
		pg.Port = creds.Port
	}
}

func (c *Config) validate() error {
	pg := c.Postgres
	if pg.User == "" || pg.Password == "" || pg.DB == "" || pg.Host == "" {
		return fmt.Errorf("database config incomplete")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.CatalogBackend {
	case "postgres":
	case "dynamodb":
		if c.DDBTableProducts == "" {
			return fmt.Errorf("DDB_TABLE_PRODUCTS is required for the dynamodb catalog")
		}
	default:
		return fmt.Errorf("unknown CATALOG_BACKEND %q", c.CatalogBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 30s or 24h", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
