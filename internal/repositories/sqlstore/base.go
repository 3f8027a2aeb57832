// Package sqlstore implements the repositories on database/sql for PostgreSQL and SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// filter is one equality condition of a list query
type filter struct {
	column string
	value  any
}

// tableSpec describes how a model maps onto its table
type tableSpec[T any] struct {
	table      string
	entity     string
	columns    []string
	naturalKey string
	foreignKey string
	schema     repositories.UpdateSchema
	scan       func(scanner) (*T, error)
}

// BaseRepository provides the SQL plumbing shared by all repositories
type BaseRepository[T any] struct {
	db      *sql.DB
	dialect database.Dialect
	spec    tableSpec[T]
	query   repositories.QueryConfig
	logger  *logrus.Logger
	now     func() time.Time
}

// newBaseRepository creates a new base repository
func newBaseRepository[T any](db *sql.DB, dialect database.Dialect, spec tableSpec[T], opts Options) *BaseRepository[T] {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	now := opts.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BaseRepository[T]{
		db:      db,
		dialect: dialect,
		spec:    spec,
		query:   opts.Query,
		logger:  logger,
		now:     now,
	}
}

func (r *BaseRepository[T]) selectColumns() string {
	return strings.Join(r.spec.columns, ", ")
}

// placeholders renders n bind parameters starting at start
func (r *BaseRepository[T]) placeholders(start, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = r.dialect.Placeholder(start + i)
	}
	return strings.Join(ph, ", ")
}

// insert writes one row; args must follow spec.columns
func (r *BaseRepository[T]) insert(ctx context.Context, args []any, keyValue string) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.spec.table, r.selectColumns(), r.placeholders(1, len(args)))

	if _, err := r.executeExec(ctx, "create", query, args...); err != nil {
		return r.translateError("create", "", keyValue, err)
	}
	return nil
}

// getBy fetches a single row by an equality on column
func (r *BaseRepository[T]) getBy(ctx context.Context, column, value string) (*T, error) {
	if column == "id" && !isUUID(value) {
		return nil, repositories.NotFoundError(r.spec.entity, value)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		r.selectColumns(), r.spec.table, column, r.dialect.Placeholder(1))

	row := r.executeQueryRow(ctx, "get", query, value)
	entity, err := r.spec.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.notFound(column, value)
		}
		return nil, r.translateError("get", value, "", err)
	}
	return entity, nil
}

// list fetches rows matching all filters in the given order
func (r *BaseRepository[T]) list(ctx context.Context, filters []filter, orderBy string, limit *int) ([]*T, error) {
	where, args := r.buildWhereClause(filters, 1)

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", r.selectColumns(), r.spec.table, where, orderBy)
	if n, ok := r.query.ClampLimit(limit); ok {
		query += " LIMIT " + r.dialect.Placeholder(len(args)+1)
		args = append(args, n)
	}

	rows, err := r.executeQuery(ctx, "list", query, args...)
	if err != nil {
		return nil, r.translateError("list", "", "", err)
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := r.spec.scan(rows)
		if err != nil {
			return nil, repositories.NewRepositoryError("list", r.spec.entity, "", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", r.spec.entity, "", err)
	}

	return items, nil
}

// updateBy applies the projected changes to the row addressed by column and returns it
func (r *BaseRepository[T]) updateBy(ctx context.Context, column, value string, changes map[string]any) (*T, error) {
	if column == "id" && !isUUID(value) {
		return nil, repositories.NotFoundError(r.spec.entity, value)
	}

	projection, err := r.spec.schema.Project(changes, r.now())
	if err != nil {
		if repositories.IsValidation(err) {
			return nil, repositories.ValidationError(r.spec.entity, value, err)
		}
		return nil, err
	}

	args := append(projection.Values, value)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		r.spec.table, projection.SetClause(r.dialect.Placeholder), column, r.dialect.Placeholder(len(args)))

	result, err := r.executeExec(ctx, "update", query, args...)
	if err != nil {
		keyValue := ""
		if v, ok := changes[r.spec.naturalKey]; ok && v != nil {
			keyValue = fmt.Sprint(v)
		}
		return nil, r.translateError("update", value, keyValue, err)
	}

	if err := r.checkRowsAffected(result, "update", column, value); err != nil {
		return nil, err
	}

	return r.getBy(ctx, column, value)
}

// deleteBy removes the row addressed by column
func (r *BaseRepository[T]) deleteBy(ctx context.Context, column, value string) error {
	if column == "id" && !isUUID(value) {
		return repositories.NotFoundError(r.spec.entity, value)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", r.spec.table, column, r.dialect.Placeholder(1))

	result, err := r.executeExec(ctx, "delete", query, value)
	if err != nil {
		return r.translateError("delete", value, "", err)
	}

	return r.checkRowsAffected(result, "delete", column, value)
}

// buildWhereClause builds a WHERE clause from filters, skipping empty values
func (r *BaseRepository[T]) buildWhereClause(filters []filter, start int) (string, []any) {
	var conditions []string
	var args []any

	for _, f := range filters {
		if s, ok := f.value.(string); ok && s == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s = %s", f.column, r.dialect.Placeholder(start+len(args))))
		args = append(args, f.value)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// translateError maps driver errors onto the repository error taxonomy
func (r *BaseRepository[T]) translateError(op, id, keyValue string, err error) error {
	switch r.dialect.Classify(err) {
	case database.UniqueViolation:
		dup := repositories.DuplicateError(r.spec.entity, r.spec.naturalKey, keyValue)
		dup.Op = op
		return dup
	case database.ForeignKeyViolation:
		// Only a write can name a missing parent. A delete that trips a
		// foreign key still has rows referencing it and surfaces as internal.
		if (op == "create" || op == "update") && r.spec.foreignKey != "" {
			return repositories.ForeignKeyError(r.spec.entity, r.spec.foreignKey)
		}
		return repositories.NewRepositoryError(op, r.spec.entity, id, unwrapDriverError(err))
	case database.NotNullViolation, database.InvalidInput:
		return repositories.ValidationError(r.spec.entity, id, unwrapDriverError(err))
	}

	var repoErr *repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr
	}
	return repositories.NewRepositoryError(op, r.spec.entity, id, err)
}

// unwrapDriverError strips the RepositoryError added by the execute helpers
func unwrapDriverError(err error) error {
	var repoErr *repositories.RepositoryError
	if errors.As(err, &repoErr) && repoErr.Err != nil {
		return repoErr.Err
	}
	return err
}

func (r *BaseRepository[T]) notFound(column, value string) error {
	if column == "id" {
		return repositories.NotFoundError(r.spec.entity, value)
	}
	return repositories.NotFoundByError(r.spec.entity, column, value)
}

// logQuery logs a query with its execution time
func (r *BaseRepository[T]) logQuery(operation string, query string, args []any, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.spec.table,
		"query":     query,
		"args":      len(args),
		"duration":  duration,
	}

	switch {
	case err != nil:
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	case r.query.SlowQueryThreshold > 0 && duration > r.query.SlowQueryThreshold:
		r.logger.WithFields(fields).Warn("Slow query")
	default:
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository[T]) executeQuery(ctx context.Context, operation, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.spec.entity, "", err)
	}

	return rows, nil
}

// executeQueryRow executes a single-row query and logs the result
func (r *BaseRepository[T]) executeQueryRow(ctx context.Context, operation, query string, args ...any) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, row.Err())

	return row
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository[T]) executeExec(ctx context.Context, operation, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.spec.entity, "", err)
	}

	return result, nil
}

// checkRowsAffected reports a not-found error when the statement touched no row
func (r *BaseRepository[T]) checkRowsAffected(result sql.Result, operation, column, value string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError(operation, r.spec.entity, value, err)
	}

	if rowsAffected == 0 {
		return r.notFound(column, value)
	}

	return nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
