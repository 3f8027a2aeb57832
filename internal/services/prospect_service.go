package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
)

// prospectService implements the ProspectService interface
type prospectService struct {
	prospectRepo repositories.ProspectRepository
	validator    *validator.Validate
}

// NewProspectService creates a new prospect service instance
func NewProspectService(prospectRepo repositories.ProspectRepository) ProspectService {
	return &prospectService{
		prospectRepo: prospectRepo,
		validator:    newValidator(),
	}
}

// CreateProspect stores a new prospect. When the chat_id is already taken the
// returned conflict error carries the ID of the existing prospect.
func (s *prospectService) CreateProspect(ctx context.Context, req *CreateProspectRequest) (*models.Prospect, error) {
	if req == nil {
		return nil, repositories.ValidationError("prospect", "", fmt.Errorf("request body is required"))
	}

	prospect, err := s.buildProspect(req)
	if err != nil {
		return nil, err
	}

	if err := s.prospectRepo.Create(ctx, prospect); err != nil {
		if repositories.IsDuplicate(err) {
			return nil, s.conflict(ctx, prospect.ChatID, err)
		}
		return nil, err
	}

	return prospect, nil
}

// BatchCreateProspects stores each record independently and in order.
// Invalid records and storage failures are reported per record; records whose
// chat_id already exists are reported as created with AlreadyExists set.
func (s *prospectService) BatchCreateProspects(ctx context.Context, records []json.RawMessage) (*BatchResult, error) {
	if len(records) == 0 {
		return nil, repositories.ValidationError("prospect", "", fmt.Errorf("records must be a non-empty array"))
	}

	result := &BatchResult{
		Created: make([]BatchItem, 0, len(records)),
		Errors:  make([]BatchError, 0),
		Total:   len(records),
	}

	for _, record := range records {
		item, err := s.createRecord(ctx, record)
		if err != nil {
			result.Errors = append(result.Errors, BatchError{Record: record, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, *item)
	}

	return result, nil
}

func (s *prospectService) createRecord(ctx context.Context, record json.RawMessage) (*BatchItem, error) {
	var req CreateProspectRequest
	if err := json.Unmarshal(record, &req); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}

	prospect, err := s.buildProspect(&req)
	if err != nil {
		return nil, err
	}

	if err := s.prospectRepo.Create(ctx, prospect); err != nil {
		if !repositories.IsDuplicate(err) {
			return nil, err
		}
		existing, getErr := s.prospectRepo.GetByChatID(ctx, prospect.ChatID)
		if getErr != nil {
			return nil, err
		}
		return &BatchItem{Prospect: existing, AlreadyExists: true}, nil
	}

	return &BatchItem{Prospect: prospect}, nil
}

// buildProspect validates a request and applies the create defaults
func (s *prospectService) buildProspect(req *CreateProspectRequest) (*models.Prospect, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.ChatID = strings.TrimSpace(req.ChatID)

	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("prospect", err)
	}

	prospect := models.NewProspect(req.Name, req.ChatID)

	extractedAt, err := models.ParseOptionalTimestamp(req.ExtractedAt)
	if err != nil {
		return nil, repositories.ValidationError("prospect", "", fmt.Errorf("fecha_extraccion: %w", err))
	}
	if extractedAt != nil {
		prospect.ExtractedAt = extractedAt
	}

	lastMessageAt, err := models.ParseOptionalTimestamp(req.LastMessageAt)
	if err != nil {
		return nil, repositories.ValidationError("prospect", "", fmt.Errorf("fecha_ultimo_mensaje: %w", err))
	}
	prospect.LastMessageAt = lastMessageAt

	if status := models.NullIfEmpty(req.Status); status != nil {
		prospect.Status = status
	}

	prospect.UserEmail = models.NullIfEmpty(req.UserEmail)
	prospect.WorkspaceID = models.NullIfEmpty(req.WorkspaceID)
	prospect.UserID = models.NullIfEmpty(req.UserID)
	prospect.Phone = models.NullIfEmpty(req.Phone)
	prospect.Channel = models.NullIfEmpty(req.Channel)
	prospect.AgentID = models.NullIfEmpty(req.AgentID)
	prospect.Notes = models.NullIfEmpty(req.Notes)
	prospect.Comments = models.NullIfEmpty(req.Comments)
	prospect.ImageURLs = req.ImageURLs
	prospect.DocumentURLs = req.DocumentURLs
	prospect.RequestedFields = req.RequestedFields

	return prospect, nil
}

// conflict re-fetches the prospect holding chatID so the caller learns its ID
func (s *prospectService) conflict(ctx context.Context, chatID string, dupErr error) error {
	existing, err := s.prospectRepo.GetByChatID(ctx, chatID)
	if err != nil {
		return dupErr
	}
	return repositories.ConflictError("prospect", "chat_id", chatID, existing.ID)
}

// GetProspect retrieves a prospect by ID
func (s *prospectService) GetProspect(ctx context.Context, id string) (*models.Prospect, error) {
	if err := requireKey("prospect", "id", id); err != nil {
		return nil, err
	}
	return s.prospectRepo.GetByID(ctx, id)
}

// GetProspectByChatID retrieves a prospect by chat_id
func (s *prospectService) GetProspectByChatID(ctx context.Context, chatID string) (*models.Prospect, error) {
	if err := requireKey("prospect", "chatId", chatID); err != nil {
		return nil, err
	}
	return s.prospectRepo.GetByChatID(ctx, chatID)
}

// ListProspects lists prospects matching the filters
func (s *prospectService) ListProspects(ctx context.Context, filters repositories.ProspectFilters) ([]*models.Prospect, error) {
	return s.prospectRepo.List(ctx, filters)
}

// UpdateProspect applies a partial update
func (s *prospectService) UpdateProspect(ctx context.Context, id string, changes map[string]any) (*models.Prospect, error) {
	if err := requireKey("prospect", "id", id); err != nil {
		return nil, err
	}
	return s.prospectRepo.Update(ctx, id, changes)
}

// DeleteProspect deletes a prospect by ID
func (s *prospectService) DeleteProspect(ctx context.Context, id string) error {
	if err := requireKey("prospect", "id", id); err != nil {
		return err
	}
	return s.prospectRepo.Delete(ctx, id)
}
