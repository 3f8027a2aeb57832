package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"prospect-crm-api/internal/config"

	"github.com/sirupsen/logrus"
)

// ConnectionManager owns the process-wide connection pool
type ConnectionManager struct {
	mu      sync.RWMutex
	config  config.DatabaseConfig
	logger  *logrus.Logger
	factory *ConnectionFactory
	db      *sql.DB
	dialect Dialect
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(cfg config.DatabaseConfig, logger *logrus.Logger) *ConnectionManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionManager{
		config:  cfg,
		logger:  logger,
		factory: NewConnectionFactory(logger),
	}
}

// Connect establishes the connection pool and, when configured, applies the bundled schema
func (cm *ConnectionManager) Connect(ctx context.Context) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.db != nil {
		return fmt.Errorf("database connection already established")
	}

	db, dialect, err := cm.factory.CreateConnection(ctx, cm.config)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	if cm.config.AutoMigrate {
		if err := ApplySchema(ctx, db, dialect); err != nil {
			db.Close()
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		cm.logger.Info("Database schema ensured")
	}

	cm.db = db
	cm.dialect = dialect
	return nil
}

// GetDB returns the database connection
func (cm *ConnectionManager) GetDB() *sql.DB {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.db
}

// Dialect returns the dialect of the established connection
func (cm *ConnectionManager) Dialect() Dialect {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.dialect
}

// Close closes the database connection
func (cm *ConnectionManager) Close() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.db == nil {
		return nil
	}

	err := cm.db.Close()
	cm.db = nil

	if err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	cm.logger.Info("Database connection closed")
	return nil
}

// Ping tests the database connection
func (cm *ConnectionManager) Ping(ctx context.Context) error {
	db := cm.GetDB()
	if db == nil {
		return fmt.Errorf("database connection not established")
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// HealthCheck pings the database and runs a trivial query
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := cm.GetDB().QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("test query returned unexpected result: %d", result)
	}

	return nil
}
