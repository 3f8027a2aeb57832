package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Schema returns the bundled DDL for a dialect
func Schema(dialect Dialect) (string, error) {
	content, err := schemaFiles.ReadFile("schema/" + dialect.Name() + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema bundled for %s: %w", dialect.Name(), err)
	}
	return string(content), nil
}

// ApplySchema creates the prospectos, users and workspaces tables if they are missing.
// Statements run one at a time so they also work through the extended protocol.
func ApplySchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	ddl, err := Schema(dialect)
	if err != nil {
		return err
	}

	for _, stmt := range splitStatements(ddl) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	for _, part := range strings.Split(ddl, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
