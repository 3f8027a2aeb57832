package handlers

import (
	"net/http"

	"prospect-crm-api/internal/repositories"
	"prospect-crm-api/internal/router"
	"prospect-crm-api/pkg/lambda"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	ID      string `json:"id,omitempty"`
}

// StatusFor maps an error onto the HTTP status it is reported with
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case repositories.IsNoUpdatableFields(err),
		repositories.IsValidation(err),
		repositories.IsForeignKey(err):
		return http.StatusBadRequest
	case repositories.IsNotFound(err):
		return http.StatusNotFound
	case repositories.IsDuplicate(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RenderError is the error handler shared by every resource function.
// Conflicts carry the id of the row already holding the natural key.
func RenderError(err error) *lambda.Response {
	status := StatusFor(err)
	resp, jsonErr := lambda.JSON(status, ErrorResponse{
		Error: err.Error(),
		ID:    repositories.ExistingID(err),
	})
	if jsonErr != nil {
		return router.Failure(http.StatusInternalServerError, err.Error())
	}
	return resp
}
