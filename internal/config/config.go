package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnectTimeout  string `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
		TxTimeout       string `yaml:"tx_timeout" env:"DB_TX_TIMEOUT"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
		Issuer    string `yaml:"issuer" env:"JWT_ISSUER"`
		Audience  string `yaml:"audience" env:"JWT_AUDIENCE"`
	} `yaml:"auth"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Storage struct {
		Driver        string `yaml:"driver" env:"STORAGE_DRIVER"`
		LocalPath     string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
		PublicBaseURL string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
		S3            struct {
			Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
			Region    string `yaml:"region" env:"S3_REGION"`
			Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
			AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
			UseSSL    bool   `yaml:"use_ssl" env:"S3_USE_SSL"`
		} `yaml:"s3"`
	} `yaml:"storage"`

	Risk struct {
		BaseURL    string `yaml:"base_url" env:"NETCASH_RISK_API_URL"`
		ServiceKey string `yaml:"service_key" env:"NETCASH_RISK_SERVICE_KEY"`
		Timeout    string `yaml:"timeout" env:"NETCASH_RISK_TIMEOUT"`
	} `yaml:"risk"`

	Payment struct {
		BaseURL       string `yaml:"base_url" env:"NETCASH_PAYNOW_URL"`
		ServiceKey    string `yaml:"service_key" env:"NETCASH_PAYNOW_SERVICE_KEY"`
		ReturnURL     string `yaml:"return_url" env:"NETCASH_RETURN_URL"`
		NotifyURL     string `yaml:"notify_url" env:"NETCASH_NOTIFY_URL"`
		WebhookSecret string `yaml:"webhook_secret" env:"NETCASH_WEBHOOK_SECRET"`
		Currency      string `yaml:"currency" env:"PAYMENT_CURRENCY"`
		Timeout       string `yaml:"timeout" env:"NETCASH_PAYNOW_TIMEOUT"`
	} `yaml:"payment"`

	Redis struct {
		Addr      string `yaml:"addr" env:"REDIS_ADDR"`
		Password  string `yaml:"password" env:"REDIS_PASSWORD"`
		DB        int    `yaml:"db" env:"REDIS_DB"`
		ReplayTTL string `yaml:"replay_ttl" env:"REDIS_REPLAY_TTL"`
	} `yaml:"redis"`

	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICS_ENABLED"`
	} `yaml:"metrics"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.AllowedOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:3001",
	}

	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "enrollment"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.ConnectTimeout = "10s"
	config.Database.TxTimeout = "30s"
	config.Database.MigrationsDir = "migrations"

	config.Auth.Audience = "authenticated"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Driver = "local"
	config.Storage.LocalPath = "uploads"
	config.Storage.PublicBaseURL = "http://localhost:8080/uploads"
	config.Storage.S3.Region = "af-south-1"

	config.Risk.Timeout = "30s"

	config.Payment.Currency = "ZAR"
	config.Payment.Timeout = "10s"

	config.Redis.ReplayTTL = "24h"

	config.Metrics.Enabled = true
}

func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Auth.JWTSecret == "" {
		return apperrors.NewConfigurationError("SUPABASE_JWT_SECRET is required")
	}

	switch config.Database.Driver {
	case "postgres":
		if config.Database.Host == "" {
			return apperrors.NewConfigurationError("database host is required")
		}
		for _, d := range []struct{ name, value string }{
			{"conn_max_lifetime", config.Database.ConnMaxLifetime},
			{"connect_timeout", config.Database.ConnectTimeout},
			{"tx_timeout", config.Database.TxTimeout},
		} {
			if _, err := time.ParseDuration(d.value); err != nil {
				return apperrors.NewConfigurationError(fmt.Sprintf("invalid database %s: %v", d.name, err))
			}
		}
	case "memory":
	default:
		return apperrors.NewConfigurationError(fmt.Sprintf("unsupported database driver %q", config.Database.Driver))
	}

	switch config.Storage.Driver {
	case "local":
		if config.Storage.LocalPath == "" {
			return apperrors.NewConfigurationError("storage local_path is required")
		}
	case "s3":
		if config.Storage.S3.Bucket == "" {
			return apperrors.NewConfigurationError("storage s3 bucket is required")
		}
	default:
		return apperrors.NewConfigurationError(fmt.Sprintf("unsupported storage driver %q", config.Storage.Driver))
	}

	durations := []struct{ name, value string }{
		{"risk timeout", config.Risk.Timeout},
		{"payment timeout", config.Payment.Timeout},
		{"redis replay_ttl", config.Redis.ReplayTTL},
	}
	for _, d := range durations {
		if _, err := time.ParseDuration(d.value); err != nil {
			return apperrors.NewConfigurationError(fmt.Sprintf("invalid %s: %v", d.name, err))
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// RiskConfigured reports whether the risk-report provider can be called.
func (c *Config) RiskConfigured() bool {
	return c.Risk.BaseURL != "" && c.Risk.ServiceKey != ""
}

// PaymentConfigured reports whether the payment gateway can be called.
func (c *Config) PaymentConfigured() bool {
	return c.Payment.BaseURL != "" && c.Payment.ServiceKey != ""
}
