package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"prospect-crm-api/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// ConnectionFactory creates database connections for the configured driver
type ConnectionFactory struct {
	logger *logrus.Logger
}

// NewConnectionFactory creates a new connection factory
func NewConnectionFactory(logger *logrus.Logger) *ConnectionFactory {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionFactory{
		logger: logger,
	}
}

// CreateConnection opens and pings a connection pool for the configured driver
func (f *ConnectionFactory) CreateConnection(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	var db *sql.DB
	switch dialect {
	case Postgres:
		db, err = f.openPostgres(cfg)
	default:
		db, err = f.openSQLite(cfg)
	}
	if err != nil {
		return nil, nil, err
	}

	f.configureConnectionPool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping %s database: %w", dialect.Name(), err)
	}

	f.logger.WithField("driver", dialect.Name()).Info("Database connection established")
	return db, dialect, nil
}

// openPostgres opens a pgx-backed database/sql pool.
// Neon pooled endpoints run PgBouncer in transaction mode, which cannot keep
// prepared statements, so those connections describe statements without preparing them.
func (f *ConnectionFactory) openPostgres(cfg config.DatabaseConfig) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	if isPooledEndpoint(connConfig) && connConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		connConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		f.logger.WithField("host", connConfig.Host).Debug("Auto-configured cache_describe mode for pooled endpoint")
	}

	f.logger.WithFields(logrus.Fields{
		"driver":   "postgres",
		"host":     connConfig.Host,
		"database": connConfig.Database,
	}).Info("Creating PostgreSQL connection")

	return stdlib.OpenDB(*connConfig), nil
}

func isPooledEndpoint(connConfig *pgx.ConnConfig) bool {
	return strings.Contains(connConfig.Host, "-pooler") || connConfig.Port == 6543
}

// openSQLite opens a file-backed SQLite database with foreign keys enforced
func (f *ConnectionFactory) openSQLite(cfg config.DatabaseConfig) (*sql.DB, error) {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := buildSQLiteDSN(absPath)

	f.logger.WithFields(logrus.Fields{
		"driver": "sqlite",
		"path":   absPath,
	}).Info("Creating SQLite connection")

	db, err := sql.Open(SQLite.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return db, nil
}

func buildSQLiteDSN(path string) string {
	options := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}
	return fmt.Sprintf("%s?%s", path, strings.Join(options, "&"))
}

// configureConnectionPool configures the database connection pool
func (f *ConnectionFactory) configureConnectionPool(db *sql.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	f.logger.WithFields(logrus.Fields{
		"max_open_conns":    cfg.MaxOpenConns,
		"max_idle_conns":    cfg.MaxIdleConns,
		"conn_max_lifetime": cfg.ConnMaxLifetime,
	}).Debug("Configured connection pool")
}
