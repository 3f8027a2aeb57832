package handlers

import (
	"context"
	"net/http"

	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
	"prospect-crm-api/internal/router"
	"prospect-crm-api/internal/services"
	"prospect-crm-api/pkg/lambda"
)

// WorkspaceHandler handles workspace-related requests
type WorkspaceHandler struct {
	workspaceService services.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
	}
}

// WorkspaceListResponse is the body of a workspace listing
type WorkspaceListResponse struct {
	Success    bool                `json:"success"`
	Workspaces []*models.Workspace `json:"workspaces"`
	Total      int                 `json:"total"`
}

// Routes returns the workspace route table entries
func (h *WorkspaceHandler) Routes() []router.Route {
	return []router.Route{
		{Method: http.MethodGet, Pattern: "user/:userId?", Intent: router.BySecondaryKey, Name: "list_by_user", Handler: h.HandleListByUser},
		{Method: http.MethodGet, Pattern: "workspace/:workspaceId?", Intent: router.BySecondaryKey, Name: "get_by_workspace_id", Handler: h.HandleGetByWorkspaceID},
		{Method: http.MethodPatch, Pattern: "workspace/:workspaceId?", Intent: router.BySecondaryKey, Name: "update_by_workspace_id", Handler: h.HandleUpdateByWorkspaceID},
		{Method: http.MethodDelete, Pattern: "workspace/:workspaceId?", Intent: router.BySecondaryKey, Name: "delete_by_workspace_id", Handler: h.HandleDeleteByWorkspaceID},
		{Method: http.MethodGet, Pattern: ":id", Intent: router.ByID, Name: "get", Handler: h.HandleGet},
		{Method: http.MethodPatch, Pattern: ":id", Intent: router.ByID, Name: "update", Handler: h.HandleUpdate},
		{Method: http.MethodDelete, Pattern: ":id", Intent: router.ByID, Name: "delete", Handler: h.HandleDelete},
		{Method: http.MethodGet, Pattern: "", Intent: router.Collection, Name: "list", Handler: h.HandleList},
		{Method: http.MethodPost, Pattern: "", Intent: router.Collection, Name: "create", Handler: h.HandleCreate},
	}
}

func workspaceList(workspaces []*models.Workspace) (*lambda.Response, error) {
	if workspaces == nil {
		workspaces = []*models.Workspace{}
	}
	return ok(WorkspaceListResponse{Success: true, Workspaces: workspaces, Total: len(workspaces)})
}

// @Summary List workspaces
// @Tags workspaces
// @Produce json
// @Param user_id query string false "Filter by owner"
// @Param workspace_id query string false "Filter by workspace id"
// @Param status query string false "Filter by status"
// @Param limit query int false "Maximum number of results"
// @Success 200 {object} WorkspaceListResponse
// @Failure 500 {object} ErrorResponse
// @Router /workspaces [get]
func (h *WorkspaceHandler) HandleList(ctx context.Context, req *lambda.Request, _ router.Params) (*lambda.Response, error) {
	limit, err := parseLimit("workspace", req, "limit")
	if err != nil {
		return nil, err
	}

	workspaces, err := h.workspaceService.ListWorkspaces(ctx, repositories.WorkspaceFilters{
		UserID:      req.Query("user_id"),
		WorkspaceID: req.Query("workspace_id"),
		Status:      req.Query("status"),
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	return workspaceList(workspaces)
}

// @Summary List the workspaces of a user
// @Tags workspaces
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} WorkspaceListResponse
// @Failure 400 {object} ErrorResponse
// @Router /workspaces/user/{userId} [get]
func (h *WorkspaceHandler) HandleListByUser(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	userID := params.Get("userId")
	if userID == "" {
		userID = req.Query("user_id")
	}

	workspaces, err := h.workspaceService.ListUserWorkspaces(ctx, userID)
	if err != nil {
		return nil, err
	}
	return workspaceList(workspaces)
}

// @Summary Create a workspace
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace body services.CreateWorkspaceRequest true "Workspace data"
// @Success 201 {object} models.Workspace
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /workspaces [post]
func (h *WorkspaceHandler) HandleCreate(ctx context.Context, req *lambda.Request, _ router.Params) (*lambda.Response, error) {
	var body services.CreateWorkspaceRequest
	if err := decodeBody("workspace", req, &body); err != nil {
		return nil, err
	}

	workspace, err := h.workspaceService.CreateWorkspace(ctx, &body)
	if err != nil {
		return nil, err
	}

	return created(workspace)
}

// @Summary Get a workspace
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace row ID"
// @Success 200 {object} models.Workspace
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/{id} [get]
func (h *WorkspaceHandler) HandleGet(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	workspace, err := h.workspaceService.GetWorkspace(ctx, params.Get("id"))
	if err != nil {
		return nil, err
	}
	return ok(workspace)
}

// @Summary Get a workspace by workspace id
// @Tags workspaces
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Success 200 {object} models.Workspace
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/workspace/{workspaceId} [get]
func (h *WorkspaceHandler) HandleGetByWorkspaceID(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	workspace, err := h.workspaceService.GetWorkspaceByWorkspaceID(ctx, params.Get("workspaceId"))
	if err != nil {
		return nil, err
	}
	return ok(workspace)
}

// @Summary Update a workspace
// @Tags workspaces
// @Accept json
// @Produce json
// @Param id path string true "Workspace row ID"
// @Param changes body object true "Fields to change"
// @Success 200 {object} models.Workspace
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/{id} [patch]
func (h *WorkspaceHandler) HandleUpdate(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	changes, err := decodeChanges("workspace", req)
	if err != nil {
		return nil, err
	}

	workspace, err := h.workspaceService.UpdateWorkspace(ctx, params.Get("id"), changes)
	if err != nil {
		return nil, err
	}
	return ok(workspace)
}

// @Summary Update a workspace by workspace id
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param changes body object true "Fields to change"
// @Success 200 {object} models.Workspace
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/workspace/{workspaceId} [patch]
func (h *WorkspaceHandler) HandleUpdateByWorkspaceID(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	changes, err := decodeChanges("workspace", req)
	if err != nil {
		return nil, err
	}

	workspace, err := h.workspaceService.UpdateWorkspaceByWorkspaceID(ctx, params.Get("workspaceId"), changes)
	if err != nil {
		return nil, err
	}
	return ok(workspace)
}

// @Summary Delete a workspace
// @Tags workspaces
// @Produce json
// @Param id path string true "Workspace row ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/{id} [delete]
func (h *WorkspaceHandler) HandleDelete(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	if err := h.workspaceService.DeleteWorkspace(ctx, params.Get("id")); err != nil {
		return nil, err
	}
	return message("Workspace deleted successfully")
}

// @Summary Delete a workspace by workspace id
// @Tags workspaces
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/workspace/{workspaceId} [delete]
func (h *WorkspaceHandler) HandleDeleteByWorkspaceID(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	if err := h.workspaceService.DeleteWorkspaceByWorkspaceID(ctx, params.Get("workspaceId")); err != nil {
		return nil, err
	}
	return message("Workspace deleted successfully")
}
