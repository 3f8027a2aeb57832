package sqlstore

import (
	"context"
	"database/sql"

	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
)

var prospectColumns = []string{
	"id", "nombre", "chat_id", "fecha_extraccion", "user_email", "workspace_id", "user_id",
	"telefono", "canal", "fecha_ultimo_mensaje", "estado", "imagenes_urls", "documentos_urls",
	"agente_id", "notas", "comentarios", "campos_solicitados", "created_at", "updated_at",
}

// ProspectRepository implements repositories.ProspectRepository
type ProspectRepository struct {
	*BaseRepository[models.Prospect]
}

// NewProspectRepository creates a new prospect repository
func NewProspectRepository(db *sql.DB, dialect database.Dialect, opts Options) *ProspectRepository {
	return &ProspectRepository{
		BaseRepository: newBaseRepository(db, dialect, tableSpec[models.Prospect]{
			table:      "prospectos",
			entity:     "prospect",
			columns:    prospectColumns,
			naturalKey: "chat_id",
			schema:     repositories.ProspectUpdateSchema,
			scan:       scanProspect,
		}, opts),
	}
}

// Create inserts a new prospect. A taken chat_id yields a duplicate error.
func (r *ProspectRepository) Create(ctx context.Context, p *models.Prospect) error {
	return r.insert(ctx, []any{
		p.ID, p.Name, p.ChatID, p.ExtractedAt, p.UserEmail, p.WorkspaceID, p.UserID,
		p.Phone, p.Channel, p.LastMessageAt, p.Status, p.ImageURLs, p.DocumentURLs,
		p.AgentID, p.Notes, p.Comments, p.RequestedFields, p.CreatedAt, p.UpdatedAt,
	}, p.ChatID)
}

// GetByID retrieves a prospect by ID
func (r *ProspectRepository) GetByID(ctx context.Context, id string) (*models.Prospect, error) {
	return r.getBy(ctx, "id", id)
}

// GetByChatID retrieves a prospect by chat_id
func (r *ProspectRepository) GetByChatID(ctx context.Context, chatID string) (*models.Prospect, error) {
	return r.getBy(ctx, "chat_id", chatID)
}

// List retrieves prospects, newest extraction first
func (r *ProspectRepository) List(ctx context.Context, filters repositories.ProspectFilters) ([]*models.Prospect, error) {
	return r.list(ctx, []filter{
		{"user_email", filters.UserEmail},
		{"workspace_id", filters.WorkspaceID},
		{"user_id", filters.UserID},
	}, "fecha_extraccion DESC, created_at DESC", filters.Limit)
}

// Update applies a partial update to a prospect
func (r *ProspectRepository) Update(ctx context.Context, id string, changes map[string]any) (*models.Prospect, error) {
	return r.updateBy(ctx, "id", id, changes)
}

// Delete deletes a prospect by ID
func (r *ProspectRepository) Delete(ctx context.Context, id string) error {
	return r.deleteBy(ctx, "id", id)
}

func scanProspect(row scanner) (*models.Prospect, error) {
	p := &models.Prospect{}
	err := row.Scan(
		&p.ID, &p.Name, &p.ChatID, &p.ExtractedAt, &p.UserEmail, &p.WorkspaceID, &p.UserID,
		&p.Phone, &p.Channel, &p.LastMessageAt, &p.Status, &p.ImageURLs, &p.DocumentURLs,
		&p.AgentID, &p.Notes, &p.Comments, &p.RequestedFields, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
