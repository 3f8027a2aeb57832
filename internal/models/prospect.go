package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultProspectStatus is the estado given to prospects created without one
const DefaultProspectStatus = "Nuevo"

// Prospect is a lead extracted from a chat conversation.
// chat_id is unique across all prospects.
type Prospect struct {
	ID              string     `json:"id" db:"id"`
	Name            string     `json:"nombre" db:"nombre"`
	ChatID          string     `json:"chat_id" db:"chat_id"`
	ExtractedAt     *time.Time `json:"fecha_extraccion" db:"fecha_extraccion"`
	UserEmail       *string    `json:"user_email" db:"user_email"`
	WorkspaceID     *string    `json:"workspace_id" db:"workspace_id"`
	UserID          *string    `json:"user_id" db:"user_id"`
	Phone           *string    `json:"telefono" db:"telefono"`
	Channel         *string    `json:"canal" db:"canal"`
	LastMessageAt   *time.Time `json:"fecha_ultimo_mensaje" db:"fecha_ultimo_mensaje"`
	Status          *string    `json:"estado" db:"estado"`
	ImageURLs       JSONText   `json:"imagenes_urls" db:"imagenes_urls"`
	DocumentURLs    JSONText   `json:"documentos_urls" db:"documentos_urls"`
	AgentID         *string    `json:"agente_id" db:"agente_id"`
	Notes           *string    `json:"notas" db:"notas"`
	Comments        *string    `json:"comentarios" db:"comentarios"`
	RequestedFields JSONText   `json:"campos_solicitados" db:"campos_solicitados"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// NewProspect creates a prospect with a generated ID, default estado and timestamps
func NewProspect(name, chatID string) *Prospect {
	now := time.Now().UTC()
	status := DefaultProspectStatus
	return &Prospect{
		ID:          uuid.New().String(),
		Name:        name,
		ChatID:      chatID,
		ExtractedAt: &now,
		Status:      &status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
