package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultWorkspaceStatus is the status given to new workspaces
const DefaultWorkspaceStatus = "active"

// Workspace groups prospects under an owner. workspace_id is a unique natural key
// chosen by the client, distinct from the generated id.
type Workspace struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Name        string    `json:"name" db:"name"`
	UserID      *string   `json:"user_id" db:"user_id"`
	Credits     int64     `json:"credits" db:"credits"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewWorkspace creates a workspace with a generated ID and no credits
func NewWorkspace(workspaceID, name string) *Workspace {
	now := time.Now().UTC()
	return &Workspace{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Name:        name,
		Status:      DefaultWorkspaceStatus,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
