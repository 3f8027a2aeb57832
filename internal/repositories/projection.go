package repositories

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"prospect-crm-api/internal/models"
)

// FieldKind is the storage type of an updatable field
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldBool
	FieldInt
	FieldTimestamp
	FieldJSONText
)

func (k FieldKind) String() string {
	switch k {
	case FieldBool:
		return "boolean"
	case FieldInt:
		return "integer"
	case FieldTimestamp:
		return "timestamp"
	case FieldJSONText:
		return "json"
	default:
		return "text"
	}
}

// Field is one column a partial update may write
type Field struct {
	Column string
	Kind   FieldKind
}

// UpdateSchema is the ordered list of fields a resource accepts in a partial update.
// Fields outside the schema are ignored.
type UpdateSchema []Field

// UpdatedAtColumn is stamped on every successful projection
const UpdatedAtColumn = "updated_at"

// ProspectUpdateSchema lists the prospect columns a PATCH may modify
var ProspectUpdateSchema = UpdateSchema{
	{"nombre", FieldText},
	{"chat_id", FieldText},
	{"fecha_extraccion", FieldTimestamp},
	{"user_email", FieldText},
	{"workspace_id", FieldText},
	{"user_id", FieldText},
	{"telefono", FieldText},
	{"canal", FieldText},
	{"fecha_ultimo_mensaje", FieldTimestamp},
	{"estado", FieldText},
	{"imagenes_urls", FieldJSONText},
	{"documentos_urls", FieldJSONText},
	{"agente_id", FieldText},
	{"notas", FieldText},
	{"comentarios", FieldText},
	{"campos_solicitados", FieldJSONText},
}

// UserUpdateSchema lists the user columns a PATCH may modify.
// password_hash and last_login have dedicated sub-actions.
var UserUpdateSchema = UpdateSchema{
	{"email", FieldText},
	{"first_name", FieldText},
	{"last_name", FieldText},
	{"empresa", FieldText},
	{"phone", FieldText},
	{"profile_image", FieldText},
	{"role", FieldText},
	{"status", FieldText},
	{"has_paid", FieldBool},
	{"token_api", FieldText},
	{"stripe_customer_id", FieldText},
	{"is_team_member", FieldBool},
	{"team_owner_email", FieldText},
	{"member_role", FieldText},
}

// WorkspaceUpdateSchema lists the workspace columns a PATCH may modify
var WorkspaceUpdateSchema = UpdateSchema{
	{"name", FieldText},
	{"user_id", FieldText},
	{"credits", FieldInt},
	{"status", FieldText},
}

// FieldError reports a candidate value that does not fit its column
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// Unwrap makes FieldError a validation error
func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// Projection is the SET part of an UPDATE built from a partial update body
type Projection struct {
	Columns []string
	Values  []any
}

// Project keeps the candidates named in the schema, converts them to their column
// type and appends updated_at. The result follows schema order, so identical input
// always yields identical SQL. Returns ErrNoUpdatableFields when nothing survives.
func (s UpdateSchema) Project(candidates map[string]any, now time.Time) (*Projection, error) {
	p := &Projection{}

	for _, field := range s {
		raw, ok := candidates[field.Column]
		if !ok {
			continue
		}

		value, err := convertField(field, raw)
		if err != nil {
			return nil, err
		}

		p.Columns = append(p.Columns, field.Column)
		p.Values = append(p.Values, value)
	}

	if len(p.Columns) == 0 {
		return nil, ErrNoUpdatableFields
	}

	p.Columns = append(p.Columns, UpdatedAtColumn)
	p.Values = append(p.Values, now)

	return p, nil
}

// SetClause renders "col = $1, col = $2" using the dialect placeholder function.
// Placeholders start at 1; the next free index is len(p.Values)+1.
func (p *Projection) SetClause(placeholder func(int) string) string {
	assignments := make([]string, len(p.Columns))
	for i, column := range p.Columns {
		assignments[i] = column + " = " + placeholder(i+1)
	}
	return strings.Join(assignments, ", ")
}

func convertField(field Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch field.Kind {
	case FieldText:
		switch v := raw.(type) {
		case string:
			return v, nil
		case json.Number:
			return v.String(), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int, int64:
			return fmt.Sprint(v), nil
		}
	case FieldBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if b, ok := parseBool(v); ok {
				return b, nil
			}
		}
	case FieldInt:
		switch v := raw.(type) {
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, nil
			}
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return n, nil
			}
		case float64:
			if v == math.Trunc(v) && !math.IsInf(v, 0) {
				return int64(v), nil
			}
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		}
	case FieldTimestamp:
		switch v := raw.(type) {
		case string:
			t, err := models.ParseTimestamp(v)
			if err != nil {
				return nil, &FieldError{Field: field.Column, Reason: err.Error()}
			}
			return t, nil
		case time.Time:
			return v.UTC(), nil
		}
	case FieldJSONText:
		text, err := models.NewJSONText(raw)
		if err != nil {
			return nil, &FieldError{Field: field.Column, Reason: err.Error()}
		}
		return text, nil
	}

	return nil, &FieldError{Field: field.Column, Reason: fmt.Sprintf("expected %s, got %T", field.Kind, raw)}
}

// parseBool accepts the text forms PostgreSQL casts to boolean
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "y", "yes", "on", "1":
		return true, true
	case "f", "false", "n", "no", "off", "0":
		return false, true
	}
	return false, false
}
