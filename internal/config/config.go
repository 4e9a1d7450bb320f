package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxIdleTime  string `yaml:"max_idle_time"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"-"`
	Password string `yaml:"-"`
	Sender   string `yaml:"sender"`
}

type LimiterConfig struct {
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
	Enabled bool    `yaml:"enabled"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Limiter  LimiterConfig  `yaml:"limiter"`

	Uploads struct {
		Dir         string `yaml:"dir"`
		MaxFileSize int64  `yaml:"max_file_size"`
	} `yaml:"uploads"`

	Reminders struct {
		Enabled    bool `yaml:"enabled"`
		LeadDays   int  `yaml:"lead_days"`
		HourOfDay  int  `yaml:"hour_of_day"`
	} `yaml:"reminders"`

	CORS struct {
		TrustedOrigins []string `yaml:"trusted_origins"`
	} `yaml:"cors"`
}

// Load reads the optional YAML config file, then lets environment variables
// (optionally from a .env file) override the sensitive and deploy-specific
// values.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	cfg.App.Port = getEnvAsInt("PORT", cfg.App.Port)
	cfg.App.Environment = getEnv("ENVIRONMENT", cfg.App.Environment)
	cfg.Database.DSN = getEnv("DB_DSN", cfg.Database.DSN)
	cfg.SMTP.Host = getEnv("SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnvAsInt("SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.Uploads.Dir = getEnv("UPLOADS_DIR", cfg.Uploads.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.App.Name = "clubcoordinator"
	cfg.App.Environment = "development"
	cfg.App.Port = 8008
	cfg.App.ShutdownTimeout = 30 * time.Second
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 25
	cfg.Database.MaxIdleTime = "15m"
	cfg.SMTP.Sender = "Club Coordinator <no-reply@clubcoordinator.com>"
	cfg.Limiter.RPS = 2
	cfg.Limiter.Burst = 4
	cfg.Limiter.Enabled = true
	cfg.Uploads.Dir = "uploads"
	cfg.Uploads.MaxFileSize = 10 << 20
	cfg.Reminders.Enabled = true
	cfg.Reminders.LeadDays = 14
	cfg.Reminders.HourOfDay = 7
	return cfg
}

func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app port must be between 1 and 65535")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if _, err := time.ParseDuration(c.Database.MaxIdleTime); err != nil {
		return fmt.Errorf("database max idle time: %w", err)
	}
	if c.Reminders.LeadDays < 0 {
		return fmt.Errorf("reminder lead days must not be negative")
	}
	if c.Reminders.HourOfDay < 0 || c.Reminders.HourOfDay > 23 {
		return fmt.Errorf("reminder hour of day must be between 0 and 23")
	}
	return nil
}

// SMTPConfigured reports whether enough SMTP settings are present to send
// mail. The reminder job stays disabled without them.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.Port != 0 && c.SMTP.Username != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
