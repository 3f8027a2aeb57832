package sqlstore

import (
	"context"
	"testing"
	"time"

	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/database/dbtest"
	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
)

func setupRepositories(t *testing.T) *repositories.Repositories {
	t.Helper()
	db := dbtest.NewSQLite(t)
	return NewRepositories(db, database.SQLite, Options{
		Logger: dbtest.Logger(),
		Query:  repositories.DefaultQueryConfig(),
	})
}

func stringPtr(s string) *string {
	return &s
}

func TestProspectRepository_CreateAndGet(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	p := models.NewProspect("Ana", "c1")
	p.UserEmail = stringPtr("ana@example.com")
	p.ImageURLs = models.JSONText(`["a.png"]`)

	if err := repos.Prospects.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repos.Prospects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Ana" || got.ChatID != "c1" {
		t.Errorf("got %s/%s", got.Name, got.ChatID)
	}
	if got.Status == nil || *got.Status != models.DefaultProspectStatus {
		t.Errorf("Status = %v", got.Status)
	}
	if string(got.ImageURLs) != `["a.png"]` {
		t.Errorf("ImageURLs = %s", got.ImageURLs)
	}
	if got.DocumentURLs != nil {
		t.Errorf("DocumentURLs = %s, want NULL", got.DocumentURLs)
	}
	if got.ExtractedAt == nil || !got.ExtractedAt.Equal(*p.ExtractedAt) {
		t.Errorf("ExtractedAt = %v, want %v", got.ExtractedAt, p.ExtractedAt)
	}

	byChat, err := repos.Prospects.GetByChatID(ctx, "c1")
	if err != nil || byChat.ID != p.ID {
		t.Errorf("GetByChatID() = %v, %v", byChat, err)
	}
}

func TestProspectRepository_DuplicateChatID(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	if err := repos.Prospects.Create(ctx, models.NewProspect("Ana", "c1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repos.Prospects.Create(ctx, models.NewProspect("Otra", "c1"))
	if !repositories.IsDuplicate(err) {
		t.Fatalf("Create() error = %v, want duplicate", err)
	}
	if err.Error() != "prospect with chat_id 'c1' already exists" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestProspectRepository_NotFound(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
	}{
		{name: "unknown uuid", id: "4f1c9a1e-0000-4000-8000-000000000000"},
		{name: "not a uuid", id: "does-not-exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repos.Prospects.GetByID(ctx, tt.id); !repositories.IsNotFound(err) {
				t.Errorf("GetByID() error = %v", err)
			}
			if _, err := repos.Prospects.Update(ctx, tt.id, map[string]any{"notas": "x"}); !repositories.IsNotFound(err) {
				t.Errorf("Update() error = %v", err)
			}
			if err := repos.Prospects.Delete(ctx, tt.id); !repositories.IsNotFound(err) {
				t.Errorf("Delete() error = %v", err)
			}
		})
	}

	if _, err := repos.Prospects.GetByChatID(ctx, "nope"); !repositories.IsNotFound(err) {
		t.Errorf("GetByChatID() error = %v", err)
	}
}

func TestProspectRepository_Update(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	p := models.NewProspect("Ana", "c1")
	if err := repos.Prospects.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := repos.Prospects.Update(ctx, p.ID, map[string]any{
		"estado":             "Contactado",
		"campos_solicitados": map[string]any{"email": true},
		"id":                 "ignored",
		"created_at":         "2000-01-01",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.ID != p.ID {
		t.Errorf("id changed to %s", updated.ID)
	}
	if updated.Status == nil || *updated.Status != "Contactado" {
		t.Errorf("Status = %v", updated.Status)
	}
	if string(updated.RequestedFields) != `{"email":true}` {
		t.Errorf("RequestedFields = %s", updated.RequestedFields)
	}
	if !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", p.CreatedAt, updated.CreatedAt)
	}
	if updated.UpdatedAt.Before(p.UpdatedAt) {
		t.Errorf("updated_at went backwards")
	}
}

func TestProspectRepository_UpdateRejectsEmptyChanges(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	p := models.NewProspect("Ana", "c1")
	if err := repos.Prospects.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := repos.Prospects.Update(ctx, p.ID, map[string]any{"id": "x", "created_at": "2000-01-01"})
	if !repositories.IsNoUpdatableFields(err) {
		t.Fatalf("Update() error = %v, want ErrNoUpdatableFields", err)
	}

	got, err := repos.Prospects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Errorf("row was touched: updated_at %v -> %v", p.UpdatedAt, got.UpdatedAt)
	}
}

func TestProspectRepository_UpdateNullsRequiredColumn(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	p := models.NewProspect("Ana", "c1")
	if err := repos.Prospects.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := repos.Prospects.Update(ctx, p.ID, map[string]any{"nombre": nil})
	if !repositories.IsValidation(err) {
		t.Errorf("Update() error = %v, want validation error", err)
	}
}

func TestProspectRepository_ListFiltersAndOrder(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, chat := range []string{"c1", "c2", "c3"} {
		p := models.NewProspect("P"+chat, chat)
		extracted := base.Add(time.Duration(i) * time.Hour)
		p.ExtractedAt = &extracted
		if chat != "c3" {
			p.UserEmail = stringPtr("ana@example.com")
		}
		if err := repos.Prospects.Create(ctx, p); err != nil {
			t.Fatalf("Create(%s) error = %v", chat, err)
		}
	}

	all, err := repos.Prospects.List(ctx, repositories.ProspectFilters{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 || all[0].ChatID != "c3" || all[2].ChatID != "c1" {
		t.Errorf("List() order = %v", chatIDs(all))
	}

	mine, err := repos.Prospects.List(ctx, repositories.ProspectFilters{UserEmail: "ana@example.com"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(mine) != 2 || mine[0].ChatID != "c2" {
		t.Errorf("filtered List() = %v", chatIDs(mine))
	}

	one, zero := 1, 0
	limited, err := repos.Prospects.List(ctx, repositories.ProspectFilters{Limit: &one})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(limited) != 1 || limited[0].ChatID != "c3" {
		t.Errorf("limited List() = %v", chatIDs(limited))
	}

	empty, err := repos.Prospects.List(ctx, repositories.ProspectFilters{Limit: &zero})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("List() with limit 0 = %v, want none", chatIDs(empty))
	}

	none, err := repos.Prospects.List(ctx, repositories.ProspectFilters{WorkspaceID: "nope"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}

func chatIDs(prospects []*models.Prospect) []string {
	ids := make([]string, len(prospects))
	for i, p := range prospects {
		ids[i] = p.ChatID
	}
	return ids
}

func TestProspectRepository_Delete(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	p := models.NewProspect("Ana", "c1")
	if err := repos.Prospects.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repos.Prospects.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repos.Prospects.Delete(ctx, p.ID); !repositories.IsNotFound(err) {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestUserRepository(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	u := models.NewUser("ana@example.com", "hash1")
	u.FirstName = "Ana"
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repos.Users.Create(ctx, models.NewUser("ana@example.com", "hash2")); !repositories.IsDuplicate(err) {
		t.Errorf("duplicate Create() error = %v", err)
	}

	got, err := repos.Users.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.Role != "user" || got.Status != "active" || got.HasPaid || got.LastLogin != nil {
		t.Errorf("unexpected defaults: %+v", got)
	}

	updated, err := repos.Users.Update(ctx, u.ID, map[string]any{"has_paid": true, "password_hash": "sneaky"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.HasPaid || updated.PasswordHash != "hash1" {
		t.Errorf("Update() = has_paid %v, password_hash %q", updated.HasPaid, updated.PasswordHash)
	}

	updated, err = repos.Users.UpdatePassword(ctx, u.ID, "hash3")
	if err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}
	if updated.PasswordHash != "hash3" {
		t.Errorf("PasswordHash = %q", updated.PasswordHash)
	}

	updated, err = repos.Users.RecordLogin(ctx, u.ID)
	if err != nil {
		t.Fatalf("RecordLogin() error = %v", err)
	}
	if updated.LastLogin == nil {
		t.Error("LastLogin not stamped")
	}

	admin := models.NewUser("root@example.com", "x")
	admin.Role = "admin"
	if err := repos.Users.Create(ctx, admin); err != nil {
		t.Fatalf("Create(admin) error = %v", err)
	}
	admins, err := repos.Users.List(ctx, repositories.UserFilters{Role: "admin"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(admins) != 1 || admins[0].Email != "root@example.com" {
		t.Errorf("List(role=admin) returned %d users", len(admins))
	}

	other := models.NewUser("otro@example.com", "x")
	if err := repos.Users.Create(ctx, other); err != nil {
		t.Fatalf("Create(other) error = %v", err)
	}
	if _, err := repos.Users.Update(ctx, other.ID, map[string]any{"email": "ana@example.com"}); !repositories.IsDuplicate(err) {
		t.Errorf("Update() to taken email error = %v", err)
	}
}

func TestWorkspaceRepository(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	owner := models.NewUser("ana@example.com", "x")
	if err := repos.Users.Create(ctx, owner); err != nil {
		t.Fatalf("Create(user) error = %v", err)
	}

	w := models.NewWorkspace("ws-1", "Main")
	w.UserID = &owner.ID
	if err := repos.Workspaces.Create(ctx, w); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	orphan := models.NewWorkspace("ws-2", "Orphan")
	missing := "4f1c9a1e-0000-4000-8000-000000000000"
	orphan.UserID = &missing
	err := repos.Workspaces.Create(ctx, orphan)
	if !repositories.IsForeignKey(err) {
		t.Fatalf("Create() with unknown user error = %v", err)
	}
	if err.Error() != "referenced user_id does not exist" {
		t.Errorf("message = %q", err.Error())
	}

	err = repos.Users.Delete(ctx, owner.ID)
	if err == nil || repositories.IsForeignKey(err) || repositories.IsNotFound(err) {
		t.Errorf("Delete() of an owning user error = %v", err)
	}

	if err := repos.Workspaces.Create(ctx, models.NewWorkspace("ws-1", "Dup")); !repositories.IsDuplicate(err) {
		t.Errorf("duplicate Create() error = %v", err)
	}

	updated, err := repos.Workspaces.UpdateByWorkspaceID(ctx, "ws-1", map[string]any{"credits": int64(500)})
	if err != nil {
		t.Fatalf("UpdateByWorkspaceID() error = %v", err)
	}
	if updated.Credits != 500 || updated.ID != w.ID {
		t.Errorf("UpdateByWorkspaceID() = %+v", updated)
	}

	owned, err := repos.Workspaces.List(ctx, repositories.WorkspaceFilters{UserID: owner.ID})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(owned) != 1 {
		t.Errorf("List(user_id) returned %d workspaces", len(owned))
	}

	if err := repos.Workspaces.DeleteByWorkspaceID(ctx, "ws-1"); err != nil {
		t.Fatalf("DeleteByWorkspaceID() error = %v", err)
	}
	if _, err := repos.Workspaces.GetByWorkspaceID(ctx, "ws-1"); !repositories.IsNotFound(err) {
		t.Errorf("GetByWorkspaceID() after delete error = %v", err)
	}
}
