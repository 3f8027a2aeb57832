package services

import (
	"context"
	"encoding/json"

	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
)

// ProspectService defines prospect business operations
type ProspectService interface {
	CreateProspect(ctx context.Context, req *CreateProspectRequest) (*models.Prospect, error)
	BatchCreateProspects(ctx context.Context, records []json.RawMessage) (*BatchResult, error)
	GetProspect(ctx context.Context, id string) (*models.Prospect, error)
	GetProspectByChatID(ctx context.Context, chatID string) (*models.Prospect, error)
	ListProspects(ctx context.Context, filters repositories.ProspectFilters) ([]*models.Prospect, error)
	UpdateProspect(ctx context.Context, id string, changes map[string]any) (*models.Prospect, error)
	DeleteProspect(ctx context.Context, id string) error
}

// UserService defines user business operations
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error)
	UpdateUser(ctx context.Context, id string, changes map[string]any) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, req *UpdatePasswordRequest) (*models.User, error)
	RecordLogin(ctx context.Context, id string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// WorkspaceService defines workspace business operations
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*models.Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*models.Workspace, error)
	GetWorkspaceByWorkspaceID(ctx context.Context, workspaceID string) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context, filters repositories.WorkspaceFilters) ([]*models.Workspace, error)
	ListUserWorkspaces(ctx context.Context, userID string) ([]*models.Workspace, error)
	UpdateWorkspace(ctx context.Context, id string, changes map[string]any) (*models.Workspace, error)
	UpdateWorkspaceByWorkspaceID(ctx context.Context, workspaceID string, changes map[string]any) (*models.Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error
	DeleteWorkspaceByWorkspaceID(ctx context.Context, workspaceID string) error
}

// CreateProspectRequest is the body of a prospect create or one batch record
type CreateProspectRequest struct {
	Name            string          `json:"nombre" validate:"required"`
	ChatID          string          `json:"chat_id" validate:"required"`
	ExtractedAt     *string         `json:"fecha_extraccion"`
	UserEmail       *string         `json:"user_email"`
	WorkspaceID     *string         `json:"workspace_id"`
	UserID          *string         `json:"user_id"`
	Phone           *string         `json:"telefono"`
	Channel         *string         `json:"canal"`
	LastMessageAt   *string         `json:"fecha_ultimo_mensaje"`
	Status          *string         `json:"estado"`
	ImageURLs       models.JSONText `json:"imagenes_urls"`
	DocumentURLs    models.JSONText `json:"documentos_urls"`
	AgentID         *string         `json:"agente_id"`
	Notes           *string         `json:"notas"`
	Comments        *string         `json:"comentarios"`
	RequestedFields models.JSONText `json:"campos_solicitados"`
}

// BatchItem is one prospect reported as created by a batch. AlreadyExists marks
// records whose chat_id was taken; the existing row is returned instead.
type BatchItem struct {
	*models.Prospect
	AlreadyExists bool `json:"alreadyExists,omitempty"`
}

// BatchError reports a record the batch could not store
type BatchError struct {
	Record json.RawMessage `json:"record"`
	Error  string          `json:"error"`
}

// BatchResult is the per-record outcome of a batch create
type BatchResult struct {
	Created []BatchItem
	Errors  []BatchError
	Total   int
}

// CreateUserRequest is the body of a user create
type CreateUserRequest struct {
	Email            string  `json:"email" validate:"required"`
	PasswordHash     string  `json:"password_hash" validate:"required"`
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Role             *string `json:"role"`
	Status           *string `json:"status"`
	Company          *string `json:"empresa"`
	Phone            *string `json:"phone"`
	ProfileImage     *string `json:"profile_image"`
	HasPaid          *bool   `json:"has_paid"`
	APIToken         *string `json:"token_api"`
	StripeCustomerID *string `json:"stripe_customer_id"`
	IsTeamMember     *bool   `json:"is_team_member"`
	TeamOwnerEmail   *string `json:"team_owner_email"`
	MemberRole       *string `json:"member_role"`
}

// UpdatePasswordRequest is the body of the password sub-action
type UpdatePasswordRequest struct {
	PasswordHash string `json:"password_hash" validate:"required"`
}

// CreateWorkspaceRequest is the body of a workspace create
type CreateWorkspaceRequest struct {
	WorkspaceID string  `json:"workspace_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	UserID      *string `json:"user_id"`
	Credits     *int64  `json:"credits" validate:"omitempty,gte=0"`
	Status      *string `json:"status"`
}
