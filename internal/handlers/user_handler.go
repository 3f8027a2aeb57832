package handlers

import (
	"context"
	"net/http"
	"strings"

	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
	"prospect-crm-api/internal/router"
	"prospect-crm-api/internal/services"
	"prospect-crm-api/pkg/lambda"
)

// UserHandler handles user-related requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UserListResponse is the body of a user listing
type UserListResponse struct {
	Success bool           `json:"success"`
	Users   []*models.User `json:"users"`
	Total   int            `json:"total"`
}

// Routes returns the user route table entries
func (h *UserHandler) Routes() []router.Route {
	return []router.Route{
		{Method: http.MethodGet, Pattern: "email/:email?", Intent: router.BySecondaryKey, Name: "get_by_email", Handler: h.HandleGetByEmail},
		{Method: http.MethodGet, Pattern: "*/email/*", Intent: router.BySecondaryKey, Name: "get_by_email_in_path", Handler: h.HandleGetByEmail},
		{Method: http.MethodPatch, Pattern: ":id/password", Intent: router.SubAction, Name: "update_password", Handler: h.HandleUpdatePassword},
		{Method: http.MethodPatch, Pattern: ":id/last-login", Intent: router.SubAction, Name: "record_login", Handler: h.HandleRecordLogin},
		{Method: http.MethodGet, Pattern: ":id", Intent: router.ByID, Name: "get", Handler: h.HandleGet},
		{Method: http.MethodPatch, Pattern: ":id", Intent: router.ByID, Name: "update", Handler: h.HandleUpdate},
		{Method: http.MethodDelete, Pattern: ":id", Intent: router.ByID, Name: "delete", Handler: h.HandleDelete},
		{Method: http.MethodGet, Pattern: "", Intent: router.Collection, Name: "list", Handler: h.HandleList},
		{Method: http.MethodPost, Pattern: "", Intent: router.Collection, Name: "create", Handler: h.HandleCreate},
	}
}

// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by status"
// @Param limit query int false "Maximum number of results"
// @Success 200 {object} UserListResponse
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) HandleList(ctx context.Context, req *lambda.Request, _ router.Params) (*lambda.Response, error) {
	limit, err := parseLimit("user", req, "limit")
	if err != nil {
		return nil, err
	}

	users, err := h.userService.ListUsers(ctx, repositories.UserFilters{
		Role:   req.Query("role"),
		Status: req.Query("status"),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}

	return ok(UserListResponse{Success: true, Users: users, Total: len(users)})
}

// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.CreateUserRequest true "User data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) HandleCreate(ctx context.Context, req *lambda.Request, _ router.Params) (*lambda.Response, error) {
	var body services.CreateUserRequest
	if err := decodeBody("user", req, &body); err != nil {
		return nil, err
	}

	user, err := h.userService.CreateUser(ctx, &body)
	if err != nil {
		return nil, err
	}

	return created(user)
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) HandleGet(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	user, err := h.userService.GetUser(ctx, params.Get("id"))
	if err != nil {
		return nil, err
	}
	return ok(user)
}

// @Summary Get a user by email
// @Description The email may come from the segment after "email", the email query parameter or any path segment that looks like an address
// @Tags users
// @Produce json
// @Param email path string true "Email address"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/email/{email} [get]
func (h *UserHandler) HandleGetByEmail(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	email := params.Get("email")
	if email == "" {
		email = req.Query("email")
	}
	if email == "" {
		email = emailInPath(router.Split("", req.Path))
	}

	user, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return ok(user)
}

// emailInPath returns the segment following "email", else the first segment
// that looks like an address
func emailInPath(segments []string) string {
	for i, segment := range segments {
		if segment == "email" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	for _, segment := range segments {
		if strings.Contains(segment, "@") && strings.Contains(segment, ".") {
			return segment
		}
	}
	return ""
}

// @Summary Update a user
// @Description Apply a partial update; fields outside the allowlist are ignored
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param changes body object true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) HandleUpdate(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	changes, err := decodeChanges("user", req)
	if err != nil {
		return nil, err
	}

	user, err := h.userService.UpdateUser(ctx, params.Get("id"), changes)
	if err != nil {
		return nil, err
	}
	return ok(user)
}

// @Summary Replace a user's password hash
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param password body services.UpdatePasswordRequest true "New password hash"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/password [patch]
func (h *UserHandler) HandleUpdatePassword(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	var body services.UpdatePasswordRequest
	if err := decodeBody("user", req, &body); err != nil {
		return nil, err
	}

	if _, err := h.userService.UpdatePassword(ctx, params.Get("id"), &body); err != nil {
		return nil, err
	}
	return message("Password updated successfully")
}

// @Summary Record a login
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/last-login [patch]
func (h *UserHandler) HandleRecordLogin(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	if _, err := h.userService.RecordLogin(ctx, params.Get("id")); err != nil {
		return nil, err
	}
	return message("Last login updated")
}

// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) HandleDelete(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	if err := h.userService.DeleteUser(ctx, params.Get("id")); err != nil {
		return nil, err
	}
	return message("User deleted successfully")
}
