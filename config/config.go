package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DBDriver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL       string        `env:"DATABASE_URL,required"`
	DBConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`
	JWTSecretKey      string        `env:"JWT_SECRET_KEY,required"`
	OrganizerPassword string        `env:"ORGANIZER_PASSWORD,required"`
	ServerPort        int           `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins       []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Правила подсчёта очков.
	LegacyTieScoring bool `env:"LEGACY_TIE_SCORING" envDefault:"false"`
	MaxScore         int  `env:"MAX_SCORE" envDefault:"13"`

	Export ExportConfig
}

// ExportConfig describes the S3-compatible bucket standings are exported to.
// Export is disabled when Bucket is empty.
type ExportConfig struct {
	AccountID       string `env:"EXPORT_S3_ACCOUNT_ID"`
	AccessKeyID     string `env:"EXPORT_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"EXPORT_S3_SECRET_ACCESS_KEY"`
	Bucket          string `env:"EXPORT_S3_BUCKET"`
	PublicBaseURL   string `env:"EXPORT_PUBLIC_BASE_URL"`
}

func (e ExportConfig) Enabled() bool {
	return e.Bucket != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Ошибку не считаем фатальной: .env нужен только локально.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFrom parses an explicit environment, used by tests.
func loadFrom(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.MaxScore <= 0 {
		return fmt.Errorf("MAX_SCORE must be positive, got %d", c.MaxScore)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Export.Enabled() && (c.Export.AccessKeyID == "" || c.Export.SecretAccessKey == "" || c.Export.PublicBaseURL == "") {
		return fmt.Errorf("EXPORT_S3_BUCKET is set but credentials or EXPORT_PUBLIC_BASE_URL are missing")
	}
	return nil
}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", s)
}
