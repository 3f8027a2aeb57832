package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Violation classifies a constraint or input error raised by the database
type Violation int

const (
	NoViolation Violation = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	InvalidInput
)

func (v Violation) String() string {
	switch v {
	case UniqueViolation:
		return "unique_violation"
	case ForeignKeyViolation:
		return "foreign_key_violation"
	case NotNullViolation:
		return "not_null_violation"
	case InvalidInput:
		return "invalid_input"
	default:
		return "none"
	}
}

// Dialect captures the differences between the supported SQL backends
type Dialect interface {
	// Name returns the configured driver name ("postgres" or "sqlite")
	Name() string
	// DriverName returns the database/sql driver the connection is opened with
	DriverName() string
	// Placeholder renders the n-th (1-based) bind parameter
	Placeholder(n int) string
	// Classify maps a driver error onto a Violation
	Classify(err error) Violation
}

var (
	// Postgres is the dialect for Neon and any other PostgreSQL server
	Postgres Dialect = postgresDialect{}
	// SQLite is the dialect for local development and tests
	SQLite Dialect = sqliteDialect{}
)

// DialectFor returns the dialect for a configured driver name
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "pgx" }

func (postgresDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (postgresDialect) Classify(err error) Violation {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return NoViolation
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return UniqueViolation
	case "23503": // foreign_key_violation
		return ForeignKeyViolation
	case "23502": // not_null_violation
		return NotNullViolation
	case "22P02", "22007", "22008", "22003": // invalid text, datetime format, datetime overflow, numeric range
		return InvalidInput
	default:
		return NoViolation
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return "sqlite" }
func (sqliteDialect) DriverName() string { return "sqlite3" }

func (sqliteDialect) Placeholder(int) string {
	return "?"
}

func (sqliteDialect) Classify(err error) Violation {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return NoViolation
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return UniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKeyViolation
	case sqlite3.ErrConstraintNotNull:
		return NotNullViolation
	default:
		return NoViolation
	}
}
