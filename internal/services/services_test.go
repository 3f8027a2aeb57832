package services

import (
	"context"
	"encoding/json"
	"testing"

	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/database/dbtest"
	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
	"prospect-crm-api/internal/repositories/sqlstore"
)

func setupServices(t *testing.T) *ServiceContainer {
	t.Helper()
	db := dbtest.NewSQLite(t)
	repos := sqlstore.NewRepositories(db, database.SQLite, sqlstore.Options{Logger: dbtest.Logger()})
	container, err := NewServiceContainer(repos)
	if err != nil {
		t.Fatalf("NewServiceContainer() error = %v", err)
	}
	return container
}

func strPtr(s string) *string {
	return &s
}

func TestNewServiceContainer_NilRepositories(t *testing.T) {
	if _, err := NewServiceContainer(nil); err == nil {
		t.Error("expected error for nil repositories")
	}
}

func TestCreateProspect_Validation(t *testing.T) {
	svc := setupServices(t).ProspectService
	ctx := context.Background()

	tests := []struct {
		name string
		req  *CreateProspectRequest
	}{
		{name: "missing nombre", req: &CreateProspectRequest{ChatID: "c1"}},
		{name: "blank chat_id", req: &CreateProspectRequest{Name: "Ana", ChatID: "   "}},
		{name: "bad timestamp", req: &CreateProspectRequest{Name: "Ana", ChatID: "c9", ExtractedAt: strPtr("later")}},
		{name: "nil request", req: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateProspect(ctx, tt.req); !repositories.IsValidation(err) {
				t.Errorf("CreateProspect() error = %v, want validation error", err)
			}
		})
	}

	_, err := svc.CreateProspect(ctx, &CreateProspectRequest{})
	if err == nil || err.Error() != "validation failed for prospect: nombre is required, chat_id is required" {
		t.Errorf("message = %v", err)
	}
}

func TestCreateProspect_DefaultsAndConflict(t *testing.T) {
	svc := setupServices(t).ProspectService
	ctx := context.Background()

	created, err := svc.CreateProspect(ctx, &CreateProspectRequest{
		Name:      " Ana ",
		ChatID:    "c1",
		Status:    strPtr(""),
		Phone:     strPtr(""),
		ImageURLs: models.JSONText(`["a.png"]`),
	})
	if err != nil {
		t.Fatalf("CreateProspect() error = %v", err)
	}
	if created.Name != "Ana" {
		t.Errorf("Name = %q, want trimmed", created.Name)
	}
	if created.Status == nil || *created.Status != "Nuevo" {
		t.Errorf("Status = %v", created.Status)
	}
	if created.Phone != nil {
		t.Errorf("Phone = %q, want NULL", *created.Phone)
	}
	if created.ExtractedAt == nil {
		t.Error("fecha_extraccion should default to now")
	}

	_, err = svc.CreateProspect(ctx, &CreateProspectRequest{Name: "Ana 2", ChatID: "c1"})
	if !repositories.IsDuplicate(err) {
		t.Fatalf("second CreateProspect() error = %v, want duplicate", err)
	}
	if got := repositories.ExistingID(err); got != created.ID {
		t.Errorf("ExistingID() = %q, want %q", got, created.ID)
	}
}

func TestBatchCreateProspects(t *testing.T) {
	svc := setupServices(t).ProspectService
	ctx := context.Background()

	existing, err := svc.CreateProspect(ctx, &CreateProspectRequest{Name: "Ana", ChatID: "c1"})
	if err != nil {
		t.Fatalf("CreateProspect() error = %v", err)
	}

	records := []json.RawMessage{
		json.RawMessage(`{"nombre":" Luis ","chat_id":" c2 "}`),
		json.RawMessage(`{"nombre":"Ana again","chat_id":"c1"}`),
		json.RawMessage(`{"nombre":"","chat_id":"c3"}`),
		json.RawMessage(`"not an object"`),
		json.RawMessage(`{"nombre":"Eva","chat_id":"c4","imagenes_urls":["x.png"]}`),
	}

	result, err := svc.BatchCreateProspects(ctx, records)
	if err != nil {
		t.Fatalf("BatchCreateProspects() error = %v", err)
	}

	if result.Total != 5 || len(result.Created) != 3 || len(result.Errors) != 2 {
		t.Fatalf("total/created/errors = %d/%d/%d", result.Total, len(result.Created), len(result.Errors))
	}
	if len(result.Created)+len(result.Errors) != result.Total {
		t.Error("every record must be accounted for exactly once")
	}

	if got := result.Created[0]; got.ChatID != "c2" || got.Name != "Luis" || got.AlreadyExists {
		t.Errorf("created[0] = %+v", got)
	}
	if got := result.Created[1]; !got.AlreadyExists || got.ID != existing.ID {
		t.Errorf("created[1] = %+v, want existing %s", got, existing.ID)
	}
	if string(result.Errors[0].Record) != `{"nombre":"","chat_id":"c3"}` {
		t.Errorf("errors[0].record = %s", result.Errors[0].Record)
	}

	encoded, err := json.Marshal(result.Created[1])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var item map[string]any
	if err := json.Unmarshal(encoded, &item); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if item["alreadyExists"] != true || item["chat_id"] != "c1" {
		t.Errorf("encoded item = %s", encoded)
	}
}

func TestBatchCreateProspects_Empty(t *testing.T) {
	svc := setupServices(t).ProspectService
	if _, err := svc.BatchCreateProspects(context.Background(), nil); !repositories.IsValidation(err) {
		t.Errorf("BatchCreateProspects(nil) error = %v", err)
	}
}

func TestUserService(t *testing.T) {
	svc := setupServices(t).UserService
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, &CreateUserRequest{Email: "ana@example.com"}); !repositories.IsValidation(err) {
		t.Errorf("CreateUser() without password error = %v", err)
	}

	user, err := svc.CreateUser(ctx, &CreateUserRequest{Email: "ana@example.com", PasswordHash: "h1", FirstName: strPtr("Ana")})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.Role != "user" || user.Status != "active" || user.LastName != "" {
		t.Errorf("defaults = %q/%q/%q", user.Role, user.Status, user.LastName)
	}

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "ana@example.com", PasswordHash: "h2"})
	if !repositories.IsDuplicate(err) || repositories.ExistingID(err) != user.ID {
		t.Errorf("duplicate CreateUser() error = %v", err)
	}

	if _, err := svc.UpdatePassword(ctx, user.ID, &UpdatePasswordRequest{}); !repositories.IsValidation(err) {
		t.Errorf("UpdatePassword() without hash error = %v", err)
	}
	updated, err := svc.UpdatePassword(ctx, user.ID, &UpdatePasswordRequest{PasswordHash: "h3"})
	if err != nil || updated.PasswordHash != "h3" {
		t.Errorf("UpdatePassword() = %v, %v", updated, err)
	}

	updated, err = svc.RecordLogin(ctx, user.ID)
	if err != nil || updated.LastLogin == nil {
		t.Errorf("RecordLogin() = %v, %v", updated, err)
	}

	if _, err := svc.GetUserByEmail(ctx, ""); !repositories.IsValidation(err) {
		t.Errorf("GetUserByEmail(\"\") error = %v", err)
	}
	if _, err := svc.GetUserByEmail(ctx, "nobody@example.com"); !repositories.IsNotFound(err) {
		t.Errorf("GetUserByEmail(unknown) error = %v", err)
	}
}

func TestWorkspaceService(t *testing.T) {
	container := setupServices(t)
	ctx := context.Background()

	owner, err := container.UserService.CreateUser(ctx, &CreateUserRequest{Email: "ana@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	svc := container.WorkspaceService

	negative := int64(-5)
	if _, err := svc.CreateWorkspace(ctx, &CreateWorkspaceRequest{WorkspaceID: "ws-1", Name: "Main", Credits: &negative}); !repositories.IsValidation(err) {
		t.Errorf("CreateWorkspace() negative credits error = %v", err)
	}

	ws, err := svc.CreateWorkspace(ctx, &CreateWorkspaceRequest{WorkspaceID: "ws-1", Name: "Main", UserID: &owner.ID})
	if err != nil {
		t.Fatalf("CreateWorkspace() error = %v", err)
	}
	if ws.Credits != 0 || ws.Status != "active" {
		t.Errorf("defaults = %d/%q", ws.Credits, ws.Status)
	}

	_, err = svc.CreateWorkspace(ctx, &CreateWorkspaceRequest{WorkspaceID: "ws-1", Name: "Again"})
	if !repositories.IsDuplicate(err) || repositories.ExistingID(err) != ws.ID {
		t.Errorf("duplicate CreateWorkspace() error = %v", err)
	}

	_, err = svc.CreateWorkspace(ctx, &CreateWorkspaceRequest{WorkspaceID: "ws-2", Name: "Orphan", UserID: strPtr("4f1c9a1e-0000-4000-8000-000000000000")})
	if !repositories.IsForeignKey(err) {
		t.Errorf("CreateWorkspace() unknown user error = %v", err)
	}

	owned, err := svc.ListUserWorkspaces(ctx, owner.ID)
	if err != nil || len(owned) != 1 {
		t.Errorf("ListUserWorkspaces() = %d, %v", len(owned), err)
	}
	if _, err := svc.ListUserWorkspaces(ctx, ""); !repositories.IsValidation(err) {
		t.Errorf("ListUserWorkspaces(\"\") error = %v", err)
	}

	if err := svc.DeleteWorkspace(ctx, ws.ID); err != nil {
		t.Fatalf("DeleteWorkspace() error = %v", err)
	}
	if err := svc.DeleteWorkspaceByWorkspaceID(ctx, "ws-1"); !repositories.IsNotFound(err) {
		t.Errorf("DeleteWorkspaceByWorkspaceID() after delete error = %v", err)
	}
}
