package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONText is a JSON document persisted in a text column.
// A nil JSONText is stored as NULL.
type JSONText []byte

// NewJSONText serializes v unless it is already a string, which is kept verbatim
func NewJSONText(v any) (JSONText, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return JSONText(val), nil
	case JSONText:
		return val, nil
	case json.RawMessage:
		return JSONText(val), nil
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("cannot encode value as JSON: %w", err)
		}
		return JSONText(encoded), nil
	}
}

// Scan implements sql.Scanner
func (j *JSONText) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case string:
		*j = JSONText(v)
	case []byte:
		*j = append(JSONText(nil), v...)
	default:
		return fmt.Errorf("cannot scan %T into JSONText", src)
	}
	return nil
}

// Value implements driver.Valuer
func (j JSONText) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return string(j), nil
}

// MarshalJSON embeds stored JSON documents as-is and emits anything else as a string
func (j JSONText) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	if json.Valid(j) {
		return []byte(j), nil
	}
	return json.Marshal(string(j))
}

// UnmarshalJSON keeps JSON strings verbatim and stores any other value in its encoded form
func (j *JSONText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*j = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*j = JSONText(s)
		return nil
	}
	*j = append(JSONText(nil), trimmed...)
	return nil
}

// String returns the stored text
func (j JSONText) String() string {
	return string(j)
}
