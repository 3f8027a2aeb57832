package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
	"prospect-crm-api/internal/router"
	"prospect-crm-api/internal/services"
	"prospect-crm-api/pkg/lambda"
)

// ProspectHandler handles prospect-related requests
type ProspectHandler struct {
	prospectService services.ProspectService
}

// NewProspectHandler creates a new prospect handler
func NewProspectHandler(prospectService services.ProspectService) *ProspectHandler {
	return &ProspectHandler{
		prospectService: prospectService,
	}
}

// ProspectListResponse is the body of a prospect listing
type ProspectListResponse struct {
	Success    bool               `json:"success"`
	Prospectos []*models.Prospect `json:"prospectos"`
	Total      int                `json:"total"`
}

// BatchResponse is the body of a batch create
type BatchResponse struct {
	Success      bool                  `json:"success"`
	Created      []services.BatchItem  `json:"created"`
	Prospects    []services.BatchItem  `json:"prospects"`
	Errors       []services.BatchError `json:"errors"`
	CreatedCount int                   `json:"createdCount"`
	ErrorCount   int                   `json:"errorCount"`
	Total        int                   `json:"total"`
}

// Routes returns the prospect route table entries
func (h *ProspectHandler) Routes() []router.Route {
	return []router.Route{
		{Method: http.MethodPost, Pattern: "batch", Intent: router.Batch, Name: "batch_create", Handler: h.HandleBatch},
		{Method: http.MethodGet, Pattern: "chat/:chatId?", Intent: router.BySecondaryKey, Name: "get_by_chat_id", Handler: h.HandleGetByChatID},
		{Method: http.MethodGet, Pattern: ":id", Intent: router.ByID, Name: "get", Handler: h.HandleGet},
		{Method: http.MethodPatch, Pattern: ":id", Intent: router.ByID, Name: "update", Handler: h.HandleUpdate},
		{Method: http.MethodDelete, Pattern: ":id", Intent: router.ByID, Name: "delete", Handler: h.HandleDelete},
		{Method: http.MethodGet, Pattern: "", Intent: router.Collection, Name: "list", Handler: h.HandleList},
		{Method: http.MethodPost, Pattern: "", Intent: router.Collection, Name: "create", Handler: h.HandleCreate},
	}
}

// @Summary List prospects
// @Description List prospects, newest extraction first
// @Tags prospectos
// @Produce json
// @Param user_email query string false "Filter by owner email"
// @Param workspace_id query string false "Filter by workspace"
// @Param user_id query string false "Filter by user"
// @Param limit query int false "Maximum number of results"
// @Param page_size query int false "Alias of limit"
// @Success 200 {object} ProspectListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /prospectos [get]
func (h *ProspectHandler) HandleList(ctx context.Context, req *lambda.Request, _ router.Params) (*lambda.Response, error) {
	limit, err := parseLimit("prospect", req, "limit", "page_size")
	if err != nil {
		return nil, err
	}

	prospects, err := h.prospectService.ListProspects(ctx, repositories.ProspectFilters{
		UserEmail:   req.Query("user_email"),
		WorkspaceID: req.Query("workspace_id"),
		UserID:      req.Query("user_id"),
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	if prospects == nil {
		prospects = []*models.Prospect{}
	}

	return ok(ProspectListResponse{Success: true, Prospectos: prospects, Total: len(prospects)})
}

// @Summary Create a prospect
// @Description Create a prospect; a taken chat_id answers 409 with the existing id
// @Tags prospectos
// @Accept json
// @Produce json
// @Param prospect body services.CreateProspectRequest true "Prospect data"
// @Success 201 {object} models.Prospect
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /prospectos [post]
func (h *ProspectHandler) HandleCreate(ctx context.Context, req *lambda.Request, _ router.Params) (*lambda.Response, error) {
	var body services.CreateProspectRequest
	if err := decodeBody("prospect", req, &body); err != nil {
		return nil, err
	}

	prospect, err := h.prospectService.CreateProspect(ctx, &body)
	if err != nil {
		return nil, err
	}

	return created(prospect)
}

// @Summary Get a prospect
// @Tags prospectos
// @Produce json
// @Param id path string true "Prospect ID"
// @Success 200 {object} models.Prospect
// @Failure 404 {object} ErrorResponse
// @Router /prospectos/{id} [get]
func (h *ProspectHandler) HandleGet(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	prospect, err := h.prospectService.GetProspect(ctx, params.Get("id"))
	if err != nil {
		return nil, err
	}
	return ok(prospect)
}

// @Summary Get a prospect by chat id
// @Tags prospectos
// @Produce json
// @Param chatId path string true "Chat ID"
// @Success 200 {object} models.Prospect
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /prospectos/chat/{chatId} [get]
func (h *ProspectHandler) HandleGetByChatID(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	prospect, err := h.prospectService.GetProspectByChatID(ctx, params.Get("chatId"))
	if err != nil {
		return nil, err
	}
	return ok(prospect)
}

// @Summary Update a prospect
// @Description Apply a partial update; fields outside the allowlist are ignored
// @Tags prospectos
// @Accept json
// @Produce json
// @Param id path string true "Prospect ID"
// @Param changes body object true "Fields to change"
// @Success 200 {object} models.Prospect
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /prospectos/{id} [patch]
func (h *ProspectHandler) HandleUpdate(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	changes, err := decodeChanges("prospect", req)
	if err != nil {
		return nil, err
	}

	prospect, err := h.prospectService.UpdateProspect(ctx, params.Get("id"), changes)
	if err != nil {
		return nil, err
	}
	return ok(prospect)
}

// @Summary Delete a prospect
// @Tags prospectos
// @Produce json
// @Param id path string true "Prospect ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /prospectos/{id} [delete]
func (h *ProspectHandler) HandleDelete(ctx context.Context, req *lambda.Request, params router.Params) (*lambda.Response, error) {
	if err := h.prospectService.DeleteProspect(ctx, params.Get("id")); err != nil {
		return nil, err
	}
	return message("Prospect deleted successfully")
}

// @Summary Create prospects in batch
// @Description Each record is stored independently; failures are reported per record
// @Tags prospectos
// @Accept json
// @Produce json
// @Param batch body object true "Object with a records array"
// @Success 200 {object} BatchResponse
// @Failure 400 {object} ErrorResponse
// @Router /prospectos/batch [post]
func (h *ProspectHandler) HandleBatch(ctx context.Context, req *lambda.Request, _ router.Params) (*lambda.Response, error) {
	var body struct {
		Records json.RawMessage `json:"records"`
	}
	if err := decodeBody("prospect", req, &body); err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body.Records, &records); err != nil || len(records) == 0 {
		return nil, badRequest("prospect", "records must be a non-empty array")
	}

	result, err := h.prospectService.BatchCreateProspects(ctx, records)
	if err != nil {
		return nil, err
	}

	return ok(BatchResponse{
		Success:      true,
		Created:      result.Created,
		Prospects:    result.Created,
		Errors:       result.Errors,
		CreatedCount: len(result.Created),
		ErrorCount:   len(result.Errors),
		Total:        result.Total,
	})
}
