package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Email providers
const (
	EmailProviderSendgrid = "sendgrid"
	EmailProviderConsole  = "console"
	EmailProviderNoop     = "noop"
)

type Config struct {
	Environment     string        `mapstructure:"ENV"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR"`
	AppBaseURL      string        `mapstructure:"APP_BASE_URL"`
	Storage         string        `mapstructure:"STORAGE"`
	DBDSN           string        `mapstructure:"DB_DSN"`
	MigrationsAuto  bool          `mapstructure:"MIGRATIONS_AUTO"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	SessionSecret   string        `mapstructure:"SESSION_SECRET"`
	TokenTTL        time.Duration `mapstructure:"TOKEN_TTL"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	EmailProvider   string        `mapstructure:"EMAIL_PROVIDER"`
	EmailFrom       string        `mapstructure:"EMAIL_FROM"`
	EmailFromName   string        `mapstructure:"EMAIL_FROM_NAME"`
	SendgridAPIKey  string        `mapstructure:"SENDGRID_API_KEY"`
	TelegramToken   string        `mapstructure:"TELEGRAM_TOKEN"`
	InstructorEmail string        `mapstructure:"INSTRUCTOR_EMAIL"`
	OutboxWorkers   int           `mapstructure:"OUTBOX_WORKERS"`
	OutboxBuffer    int           `mapstructure:"OUTBOX_BUFFER"`
}

var defaults = map[string]any{
	"ENV":              "development",
	"HTTP_ADDR":        ":8080",
	"APP_BASE_URL":     "http://localhost:3000",
	"STORAGE":          StoragePostgres,
	"DB_DSN":           "",
	"MIGRATIONS_AUTO":  true,
	"JWT_SECRET":       "",
	"SESSION_SECRET":   "",
	"TOKEN_TTL":        "168h",
	"CORS_ORIGINS":     "",
	"EMAIL_PROVIDER":   EmailProviderNoop,
	"EMAIL_FROM":       "noreply@courseapp.com",
	"EMAIL_FROM_NAME":  "CourseApp",
	"SENDGRID_API_KEY": "",
	"TELEGRAM_TOKEN":   "",
	"INSTRUCTOR_EMAIL": "",
	"OUTBOX_WORKERS":   4,
	"OUTBOX_BUFFER":    256,
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine, the environment alone is enough
	_ = godotenv.Load(".env")
	return FromViper(viper.New())
}

// FromViper resolves the configuration from v, with defaults and env binding applied.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Environment:     v.GetString("ENV"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		AppBaseURL:      strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
		Storage:         strings.ToLower(v.GetString("STORAGE")),
		DBDSN:           v.GetString("DB_DSN"),
		MigrationsAuto:  v.GetBool("MIGRATIONS_AUTO"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		SessionSecret:   v.GetString("SESSION_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		EmailProvider:   strings.ToLower(v.GetString("EMAIL_PROVIDER")),
		EmailFrom:       v.GetString("EMAIL_FROM"),
		EmailFromName:   v.GetString("EMAIL_FROM_NAME"),
		SendgridAPIKey:  v.GetString("SENDGRID_API_KEY"),
		TelegramToken:   v.GetString("TELEGRAM_TOKEN"),
		InstructorEmail: strings.ToLower(strings.TrimSpace(v.GetString("INSTRUCTOR_EMAIL"))),
		OutboxWorkers:   v.GetInt("OUTBOX_WORKERS"),
		OutboxBuffer:    v.GetInt("OUTBOX_BUFFER"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}

	switch c.EmailProvider {
	case EmailProviderSendgrid:
		if c.SendgridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required for the sendgrid provider")
		}
	case EmailProviderConsole, EmailProviderNoop:
	default:
		return fmt.Errorf("unknown EMAIL_PROVIDER %q", c.EmailProvider)
	}

	if c.IsProduction() && (c.JWTSecret == "" || c.SessionSecret == "") {
		return fmt.Errorf("JWT_SECRET and SESSION_SECRET are required in production")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "dev-jwt-secret"
	}
	if c.SessionSecret == "" {
		c.SessionSecret = "dev-session-secret"
	}
	if c.OutboxWorkers < 1 {
		c.OutboxWorkers = 1
	}
	if c.OutboxBuffer < 1 {
		c.OutboxBuffer = 1
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
