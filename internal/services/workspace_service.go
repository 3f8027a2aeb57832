package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
)

// workspaceService implements the WorkspaceService interface
type workspaceService struct {
	workspaceRepo repositories.WorkspaceRepository
	validator     *validator.Validate
}

// NewWorkspaceService creates a new workspace service instance
func NewWorkspaceService(workspaceRepo repositories.WorkspaceRepository) WorkspaceService {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		validator:     newValidator(),
	}
}

// CreateWorkspace stores a new workspace. An unknown user_id is a foreign key error.
func (s *workspaceService) CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*models.Workspace, error) {
	if req == nil {
		return nil, repositories.ValidationError("workspace", "", fmt.Errorf("request body is required"))
	}

	req.WorkspaceID = strings.TrimSpace(req.WorkspaceID)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("workspace", err)
	}

	workspace := models.NewWorkspace(req.WorkspaceID, req.Name)
	workspace.UserID = models.NullIfEmpty(req.UserID)
	workspace.Status = models.StringOr(req.Status, models.DefaultWorkspaceStatus)
	if req.Credits != nil {
		workspace.Credits = *req.Credits
	}

	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		if repositories.IsDuplicate(err) {
			if existing, getErr := s.workspaceRepo.GetByWorkspaceID(ctx, workspace.WorkspaceID); getErr == nil {
				return nil, repositories.ConflictError("workspace", "workspace_id", workspace.WorkspaceID, existing.ID)
			}
		}
		return nil, err
	}

	return workspace, nil
}

// GetWorkspace retrieves a workspace by ID
func (s *workspaceService) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	if err := requireKey("workspace", "id", id); err != nil {
		return nil, err
	}
	return s.workspaceRepo.GetByID(ctx, id)
}

// GetWorkspaceByWorkspaceID retrieves a workspace by its natural key
func (s *workspaceService) GetWorkspaceByWorkspaceID(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	if err := requireKey("workspace", "workspaceId", workspaceID); err != nil {
		return nil, err
	}
	return s.workspaceRepo.GetByWorkspaceID(ctx, workspaceID)
}

// ListWorkspaces lists workspaces matching the filters
func (s *workspaceService) ListWorkspaces(ctx context.Context, filters repositories.WorkspaceFilters) ([]*models.Workspace, error) {
	return s.workspaceRepo.List(ctx, filters)
}

// ListUserWorkspaces lists the workspaces owned by a user
func (s *workspaceService) ListUserWorkspaces(ctx context.Context, userID string) ([]*models.Workspace, error) {
	if err := requireKey("workspace", "userId", userID); err != nil {
		return nil, err
	}
	return s.workspaceRepo.List(ctx, repositories.WorkspaceFilters{UserID: userID})
}

// UpdateWorkspace applies a partial update by ID
func (s *workspaceService) UpdateWorkspace(ctx context.Context, id string, changes map[string]any) (*models.Workspace, error) {
	if err := requireKey("workspace", "id", id); err != nil {
		return nil, err
	}
	return s.workspaceRepo.Update(ctx, id, changes)
}

// UpdateWorkspaceByWorkspaceID applies a partial update by natural key
func (s *workspaceService) UpdateWorkspaceByWorkspaceID(ctx context.Context, workspaceID string, changes map[string]any) (*models.Workspace, error) {
	if err := requireKey("workspace", "workspaceId", workspaceID); err != nil {
		return nil, err
	}
	return s.workspaceRepo.UpdateByWorkspaceID(ctx, workspaceID, changes)
}

// DeleteWorkspace deletes a workspace by ID
func (s *workspaceService) DeleteWorkspace(ctx context.Context, id string) error {
	if err := requireKey("workspace", "id", id); err != nil {
		return err
	}
	return s.workspaceRepo.Delete(ctx, id)
}

// DeleteWorkspaceByWorkspaceID deletes a workspace by natural key
func (s *workspaceService) DeleteWorkspaceByWorkspaceID(ctx context.Context, workspaceID string) error {
	if err := requireKey("workspace", "workspaceId", workspaceID); err != nil {
		return err
	}
	return s.workspaceRepo.DeleteByWorkspaceID(ctx, workspaceID)
}
