package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected default port 8080, got %q", cfg.Port)
		}
		if cfg.DBDriver != "postgres" {
			t.Errorf("expected postgres driver, got %q", cfg.DBDriver)
		}
		if !cfg.CronEnabled {
			t.Error("expected cron enabled by default")
		}
		if cfg.DBConnMaxLifetime != time.Hour {
			t.Errorf("expected 1h conn lifetime, got %v", cfg.DBConnMaxLifetime)
		}
	})

	t.Run("environment_overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DB_DRIVER", "SQLite")
		t.Setenv("CRON_ENABLED", "false")
		t.Setenv("PIPELINE_API_KEY", "k")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "9090" {
			t.Errorf("expected port 9090, got %q", cfg.Port)
		}
		if cfg.DBDriver != "sqlite" {
			t.Errorf("expected lowercased driver, got %q", cfg.DBDriver)
		}
		if cfg.CronEnabled {
			t.Error("expected cron disabled")
		}
		if cfg.PipelineAPIKey != "k" {
			t.Errorf("expected pipeline key, got %q", cfg.PipelineAPIKey)
		}
		if Get() != cfg {
			t.Error("expected Get to return the last loaded config")
		}
	})

	t.Run("yaml_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("TIMEZONE: Europe/Madrid\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("CONFIG_FILE", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Timezone != "Europe/Madrid" {
			t.Errorf("expected timezone from file, got %q", cfg.Timezone)
		}
	})

	t.Run("missing_yaml_file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := Load(); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	if cfg.Location() != time.UTC {
		t.Error("expected UTC fallback")
	}
}
