package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bks/clubcoordinator/internal/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/club_test")

	cfg, err := Load("")
	assert.NilError(t, err)

	assert.Equal(t, cfg.App.Port, 8008)
	assert.Equal(t, cfg.App.Environment, "development")
	assert.Equal(t, cfg.Database.DSN, "postgres://localhost/club_test")
	assert.Equal(t, cfg.Limiter.Enabled, true)
	assert.Equal(t, cfg.Reminders.LeadDays, 14)
	assert.Equal(t, cfg.Uploads.MaxFileSize, int64(10<<20))
}

func TestLoadYAMLOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/club_test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
app:
  port: 9000
  environment: production
limiter:
  rps: 10
  burst: 20
  enabled: false
reminders:
  enabled: false
  lead_days: 7
`)
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	assert.NilError(t, err)

	assert.Equal(t, cfg.App.Port, 9000)
	assert.Equal(t, cfg.App.Environment, "production")
	assert.Equal(t, cfg.Limiter.RPS, 10)
	assert.Equal(t, cfg.Limiter.Enabled, false)
	assert.Equal(t, cfg.Reminders.LeadDays, 7)
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/club_test")
	t.Setenv("PORT", "8100")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  port: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.App.Port, 8100)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) { c.Database.DSN = "postgres://x" },
			wantErr: false,
		},
		{
			name:    "missing dsn",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "bad idle time",
			mutate: func(c *Config) {
				c.Database.DSN = "postgres://x"
				c.Database.MaxIdleTime = "soon"
			},
			wantErr: true,
		},
		{
			name: "bad reminder hour",
			mutate: func(c *Config) {
				c.Database.DSN = "postgres://x"
				c.Reminders.HourOfDay = 24
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NilError(t, err)
			}
		})
	}
}

func TestSMTPConfigured(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, cfg.SMTPConfigured(), false)

	cfg.SMTP.Host = "smtp.example.com"
	cfg.SMTP.Port = 587
	cfg.SMTP.Username = "club"
	assert.Equal(t, cfg.SMTPConfigured(), true)
}
