// Package dbtest opens throwaway SQLite databases with the bundled schema applied.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"prospect-crm-api/internal/database"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// NewSQLite opens a file-backed SQLite database in t.TempDir with foreign keys enabled.
// The database is closed when the test finishes.
func NewSQLite(t *testing.T) *sql.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := sql.Open(database.SQLite.DriverName(), dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.ApplySchema(context.Background(), db, database.SQLite); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return db
}

// Logger returns a logger that only reports warnings, to keep test output quiet
func Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}
