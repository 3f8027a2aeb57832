package sqlstore

import (
	"context"
	"database/sql"

	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
)

var workspaceColumns = []string{
	"id", "workspace_id", "name", "user_id", "credits", "status", "created_at", "updated_at",
}

// WorkspaceRepository implements repositories.WorkspaceRepository
type WorkspaceRepository struct {
	*BaseRepository[models.Workspace]
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *sql.DB, dialect database.Dialect, opts Options) *WorkspaceRepository {
	return &WorkspaceRepository{
		BaseRepository: newBaseRepository(db, dialect, tableSpec[models.Workspace]{
			table:      "workspaces",
			entity:     "workspace",
			columns:    workspaceColumns,
			naturalKey: "workspace_id",
			foreignKey: "user_id",
			schema:     repositories.WorkspaceUpdateSchema,
			scan:       scanWorkspace,
		}, opts),
	}
}

// Create inserts a new workspace. A taken workspace_id yields a duplicate error,
// an unknown user_id a foreign key error.
func (r *WorkspaceRepository) Create(ctx context.Context, w *models.Workspace) error {
	return r.insert(ctx, []any{
		w.ID, w.WorkspaceID, w.Name, w.UserID, w.Credits, w.Status, w.CreatedAt, w.UpdatedAt,
	}, w.WorkspaceID)
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	return r.getBy(ctx, "id", id)
}

// GetByWorkspaceID retrieves a workspace by its natural key
func (r *WorkspaceRepository) GetByWorkspaceID(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	return r.getBy(ctx, "workspace_id", workspaceID)
}

// List retrieves workspaces, newest first
func (r *WorkspaceRepository) List(ctx context.Context, filters repositories.WorkspaceFilters) ([]*models.Workspace, error) {
	return r.list(ctx, []filter{
		{"user_id", filters.UserID},
		{"workspace_id", filters.WorkspaceID},
		{"status", filters.Status},
	}, "created_at DESC", filters.Limit)
}

// Update applies a partial update to a workspace
func (r *WorkspaceRepository) Update(ctx context.Context, id string, changes map[string]any) (*models.Workspace, error) {
	return r.updateBy(ctx, "id", id, changes)
}

// UpdateByWorkspaceID applies a partial update addressed by the natural key
func (r *WorkspaceRepository) UpdateByWorkspaceID(ctx context.Context, workspaceID string, changes map[string]any) (*models.Workspace, error) {
	return r.updateBy(ctx, "workspace_id", workspaceID, changes)
}

// Delete deletes a workspace by ID
func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	return r.deleteBy(ctx, "id", id)
}

// DeleteByWorkspaceID deletes a workspace by its natural key
func (r *WorkspaceRepository) DeleteByWorkspaceID(ctx context.Context, workspaceID string) error {
	return r.deleteBy(ctx, "workspace_id", workspaceID)
}

func scanWorkspace(row scanner) (*models.Workspace, error) {
	w := &models.Workspace{}
	err := row.Scan(&w.ID, &w.WorkspaceID, &w.Name, &w.UserID, &w.Credits, &w.Status, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}
