package repositories

import (
	"context"

	"prospect-crm-api/internal/models"
)

// BaseRepository defines the CRUD operations shared by all repositories
type BaseRepository[T any] interface {
	// Create inserts a new entity
	Create(ctx context.Context, entity *T) error

	// GetByID retrieves an entity by its ID
	GetByID(ctx context.Context, id string) (*T, error)

	// Update applies the allowed subset of changes to the entity with the given ID
	// and returns the updated row
	Update(ctx context.Context, id string, changes map[string]any) (*T, error)

	// Delete deletes an entity by its ID
	Delete(ctx context.Context, id string) error
}

// ProspectFilters narrows a prospect listing. Empty fields are ignored and a
// nil Limit lists every row.
type ProspectFilters struct {
	UserEmail   string
	WorkspaceID string
	UserID      string
	Limit       *int
}

// ProspectRepository defines prospect persistence
type ProspectRepository interface {
	BaseRepository[models.Prospect]

	// GetByChatID retrieves a prospect by its unique chat_id
	GetByChatID(ctx context.Context, chatID string) (*models.Prospect, error)

	// List retrieves prospects ordered by fecha_extraccion then created_at, newest first
	List(ctx context.Context, filters ProspectFilters) ([]*models.Prospect, error)
}

// UserFilters narrows a user listing. Empty fields are ignored.
type UserFilters struct {
	Role   string
	Status string
	Limit  *int
}

// UserRepository defines user persistence
type UserRepository interface {
	BaseRepository[models.User]

	// GetByEmail retrieves a user by its unique email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves users ordered by created_at, newest first
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)

	// UpdatePassword replaces the password hash of the user with the given ID
	UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error)

	// RecordLogin stamps last_login on the user with the given ID
	RecordLogin(ctx context.Context, id string) (*models.User, error)
}

// WorkspaceFilters narrows a workspace listing. Empty fields are ignored.
type WorkspaceFilters struct {
	UserID      string
	WorkspaceID string
	Status      string
	Limit       *int
}

// WorkspaceRepository defines workspace persistence
type WorkspaceRepository interface {
	BaseRepository[models.Workspace]

	// GetByWorkspaceID retrieves a workspace by its natural key
	GetByWorkspaceID(ctx context.Context, workspaceID string) (*models.Workspace, error)

	// UpdateByWorkspaceID is Update addressed by the natural key
	UpdateByWorkspaceID(ctx context.Context, workspaceID string, changes map[string]any) (*models.Workspace, error)

	// DeleteByWorkspaceID is Delete addressed by the natural key
	DeleteByWorkspaceID(ctx context.Context, workspaceID string) error

	// List retrieves workspaces ordered by created_at, newest first
	List(ctx context.Context, filters WorkspaceFilters) ([]*models.Workspace, error)
}

// Repositories bundles the repositories the services depend on
type Repositories struct {
	Prospects  ProspectRepository
	Users      UserRepository
	Workspaces WorkspaceRepository
}
