package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "NEON_DATABASE_URL", "DB_PATH", "AWS_LAMBDA_FUNCTION_NAME"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearDatabaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.APIPrefix != "/api/neon" {
		t.Errorf("APIPrefix = %q, want /api/neon", cfg.APIPrefix)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Driver = %q, want %q", cfg.Database.Driver, DriverSQLite)
	}
	if cfg.Database.Path != "./data/crm.db" {
		t.Errorf("Path = %q", cfg.Database.Path)
	}
	if cfg.Database.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("ConnMaxLifetime = %v", cfg.Database.ConnMaxLifetime)
	}
}

func TestLoad_DatabaseURLSelectsPostgres(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("NEON_DATABASE_URL", "postgres://u:p@ep-cool-1.neon.tech/crm")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Driver = %q, want %q", cfg.Database.Driver, DriverPostgres)
	}
	if cfg.Database.URL != "postgres://u:p@ep-cool-1.neon.tech/crm" {
		t.Errorf("URL = %q", cfg.Database.URL)
	}

	t.Setenv("DATABASE_URL", "postgres://other/db")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != "postgres://other/db" {
		t.Errorf("DATABASE_URL should win, got %q", cfg.Database.URL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without url", env: map[string]string{"DB_DRIVER": "postgres"}},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "bad lifetime", env: map[string]string{"DB_CONN_MAX_LIFETIME": "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearDatabaseEnv(t)
			t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAdaptConfigForServerless(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 5},
			Logging:  LoggingConfig{Level: "info", Format: "text"},
		}
	}

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	cfg := AdaptConfigForServerless(base())
	if cfg.Database.MaxOpenConns != 10 || cfg.Logging.Format != "text" {
		t.Errorf("config changed outside Lambda: %+v", cfg)
	}
	if GetDeploymentMode() != "server" {
		t.Errorf("GetDeploymentMode() = %q", GetDeploymentMode())
	}

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "prospectos")
	cfg = AdaptConfigForServerless(base())
	if cfg.Database.MaxOpenConns != 2 || cfg.Database.MaxIdleConns != 1 {
		t.Errorf("pool = %d/%d, want 2/1", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Logging.Format)
	}
	if GetServerlessConfig().FunctionName != "prospectos" {
		t.Errorf("FunctionName = %q", GetServerlessConfig().FunctionName)
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "debug", Format: "json"})
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want JSON", logger.Formatter)
	}

	logger = NewLogger(LoggingConfig{Level: "nonsense"})
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("fallback level = %v", logger.GetLevel())
	}
}
