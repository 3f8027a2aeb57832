package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"prospect-crm-api/internal/config"
	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Port:        "8080",
		APIPrefix:   "/api/neon",
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			Path:            filepath.Join(t.TempDir(), "crm.db"),
			MaxOpenConns:    2,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
			AutoMigrate:     true,
		},
		Logging: config.LoggingConfig{Level: "warn", Format: "text"},
	}
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	ctx := context.Background()

	container, err := NewContainer(ctx, testConfig(t))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if container.ProspectService == nil {
		t.Error("ProspectService is nil")
	}
	if container.UserService == nil {
		t.Error("UserService is nil")
	}
	if container.WorkspaceService == nil {
		t.Error("WorkspaceService is nil")
	}
	if container.Dialect() != database.SQLite {
		t.Errorf("Dialect() = %v", container.Dialect())
	}
	if err := container.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	// The schema was applied, so a round trip through a service works
	p, err := container.ProspectService.CreateProspect(ctx, &services.CreateProspectRequest{Name: "Ana", ChatID: "c1"})
	if err != nil {
		t.Fatalf("CreateProspect() error = %v", err)
	}
	if _, err := container.ProspectService.GetProspect(ctx, p.ID); err != nil {
		t.Errorf("GetProspect() error = %v", err)
	}

	if err := container.Close(); err != nil {
		t.Errorf("Failed to close container: %v", err)
	}
	if err := container.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() after Close() should fail")
	}
}

func TestNewContainer_Errors(t *testing.T) {
	if _, err := NewContainer(context.Background(), nil); err == nil {
		t.Error("expected error for nil config")
	}

	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"
	if _, err := NewContainer(context.Background(), cfg); err == nil {
		t.Error("expected error for unsupported driver")
	}

	if _, err := NewContainerWithDB(cfg, nil, nil, nil); err == nil {
		t.Error("expected error without a database")
	}
}
