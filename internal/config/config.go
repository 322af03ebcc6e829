package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/examgenie/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the configuration shared by the CLI, the bot and the dev backend
type Config struct {
	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// Backend Service the workflow talks to
	BackendConnectorCfg BackendConnectorConfig `envPrefix:"BACKEND_"`

	// Use the in-process mock backend instead of HTTP calls
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Local preference store used by the CLI
	PreferencesCfg PreferencesConfig `envPrefix:"PREFERENCES_"`

	// Where downloads and exports land
	DownloadDir string `env:"DOWNLOAD_DIR" envDefault:"."`

	// Database configuration (telegram bot preference store)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Development backend configuration
	MockBackendCfg MockBackendConfig `envPrefix:"MOCK_BACKEND_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int           `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	MaxFileSize        int64         `env:"MAX_FILE_SIZE" envDefault:"16777216"` // Telegram + backend cap, 16 MiB
}

type BackendConnectorConfig struct {
	HTTPClientConfig
	UploadEndpoint   string               `env:"UPLOAD_ENDPOINT" envDefault:"/upload"`
	PredictEndpoint  string               `env:"PREDICT_ENDPOINT" envDefault:"/predict"`
	DownloadEndpoint string               `env:"DOWNLOAD_ENDPOINT" envDefault:"/download/{artifact}"`
	LoginEndpoint    string               `env:"LOGIN_ENDPOINT" envDefault:"/login"`
	RegisterEndpoint string               `env:"REGISTER_ENDPOINT" envDefault:"/register"`
	ValidateSchema   bool                 `env:"VALIDATE_SCHEMA" envDefault:"true"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"2m"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"2m"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:5000"`
}

type PreferencesConfig struct {
	// Path of the YAML preference file; empty means the user config dir
	File string `env:"FILE"`
}

// MockBackendConfig configures cmd/mock-backend
type MockBackendConfig struct {
	ServerAddr    string `env:"ADDR" envDefault:":5000"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`
	OutputDir     string `env:"OUTPUT_DIR" envDefault:"outputs"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"16777216"` // 16 MiB
}

// LoadConfig reads .env.<environment> when present and parses the environment.
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Missing env files are fine, variables may be set externally.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment
	cfg.BackendConnectorCfg.Url = strings.TrimRight(cfg.BackendConnectorCfg.Url, "/")

	if cfg.PreferencesCfg.File == "" {
		cfg.PreferencesCfg.File = defaultPreferencesFile()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.BackendConnectorCfg.Url == "" {
		errors = append(errors, "BACKEND_SERVICE_URL must not be empty")
	}

	if !strings.Contains(cfg.BackendConnectorCfg.DownloadEndpoint, "{artifact}") {
		errors = append(errors, fmt.Sprintf("BACKEND_DOWNLOAD_ENDPOINT must contain {artifact}, got %q", cfg.BackendConnectorCfg.DownloadEndpoint))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateTelegram checks the settings only the bot needs.
func (c *Config) ValidateTelegram() error {
	if c.TelegramCfg.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN must not be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	return nil
}

func defaultPreferencesFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".examgenie.yaml"
	}
	return filepath.Join(dir, "examgenie", "preferences.yaml")
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development", "":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
