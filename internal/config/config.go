package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Intake    IntakeConfig
	Email     EmailConfig
	Enrich    EnrichConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret   string
	TokenCookie string
	RoleCookie  string
	TokenTTL    time.Duration
}

// IntakeConfig carries the downstream endpoints of the contact fan-out.
// An empty URL means that sink is not configured and no-ops.
type IntakeConfig struct {
	WebhookURL      string
	AutomationURL   string
	DispatchTimeout time.Duration
}

type EmailConfig struct {
	ResendAPIKey   string
	From           string
	NotificationTo string
}

type EnrichConfig struct {
	OpenAIKey string
	Model     string
}

type RetentionConfig struct {
	Days int // 0 disables the purge job
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	dispatchTimeout, err := getEnvInt("INTAKE_DISPATCH_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid INTAKE_DISPATCH_TIMEOUT_SECONDS: %w", err)
	}

	tokenTTL, err := getEnvInt("AUTH_TOKEN_TTL_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL_HOURS: %w", err)
	}

	retentionDays, err := getEnvInt("RETENTION_DAYS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid RETENTION_DAYS: %w", err)
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
			TokenCookie: getEnv("AUTH_TOKEN_COOKIE", "auth_token"),
			RoleCookie:  getEnv("AUTH_ROLE_COOKIE", "user_role"),
			TokenTTL:    time.Duration(tokenTTL) * time.Hour,
		},
		Intake: IntakeConfig{
			WebhookURL:      getEnv("FORM_WEBHOOK_URL", ""),
			AutomationURL:   getEnv("N8N_WEBHOOK_URL", ""),
			DispatchTimeout: time.Duration(dispatchTimeout) * time.Second,
		},
		Email: EmailConfig{
			ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
			From:           getEnv("FROM_EMAIL", "noreply@leadgate.dev"),
			NotificationTo: getEnv("NOTIFICATION_EMAIL", "hello@leadgate.dev"),
		},
		Enrich: EnrichConfig{
			OpenAIKey: getEnv("OPENAI_API_KEY", ""),
			Model:     getEnv("ENRICH_MODEL", "gpt-4o-mini"),
		},
		Retention: RetentionConfig{
			Days: retentionDays,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
