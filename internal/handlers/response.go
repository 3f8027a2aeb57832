package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"prospect-crm-api/internal/repositories"
	"prospect-crm-api/pkg/lambda"
)

// MessageResponse is returned by deletes and sub-actions
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ok renders a 200 JSON response
func ok(v any) (*lambda.Response, error) {
	return lambda.JSON(http.StatusOK, v)
}

// message renders a {success, message} response
func message(text string) (*lambda.Response, error) {
	return ok(MessageResponse{Success: true, Message: text})
}

// created renders a 201 response holding the row merged with success:true
func created(row any) (*lambda.Response, error) {
	body, err := withSuccess(row)
	if err != nil {
		return nil, err
	}
	return lambda.JSON(http.StatusCreated, body)
}

func withSuccess(row any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	fields["success"] = json.RawMessage("true")
	return fields, nil
}

// badRequest builds a validation error for malformed input
func badRequest(entity, format string, args ...any) error {
	return repositories.ValidationError(entity, "", fmt.Errorf(format, args...))
}

// decodeBody decodes a JSON object body into v
func decodeBody(entity string, req *lambda.Request, v any) error {
	if len(bytes.TrimSpace(req.Body)) == 0 {
		return badRequest(entity, "request body is required")
	}
	if err := json.Unmarshal(req.Body, v); err != nil {
		return badRequest(entity, "invalid request body: %v", err)
	}
	return nil
}

// decodeChanges decodes a PATCH body, keeping numbers exact.
// An empty body yields no changes.
func decodeChanges(entity string, req *lambda.Request) (map[string]any, error) {
	changes := make(map[string]any)
	if len(bytes.TrimSpace(req.Body)) == 0 {
		return changes, nil
	}

	dec := json.NewDecoder(bytes.NewReader(req.Body))
	dec.UseNumber()
	if err := dec.Decode(&changes); err != nil {
		return nil, badRequest(entity, "invalid request body: %v", err)
	}
	return changes, nil
}

// parseLimit reads the first non-empty query parameter among names as a limit.
// It returns nil when none is set; an explicit 0 is kept and lists nothing.
func parseLimit(entity string, req *lambda.Request, names ...string) (*int, error) {
	for _, name := range names {
		raw := strings.TrimSpace(req.Query(name))
		if raw == "" {
			continue
		}
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, badRequest(entity, "%s must be a non-negative integer", name)
		}
		return &limit, nil
	}
	return nil, nil
}
