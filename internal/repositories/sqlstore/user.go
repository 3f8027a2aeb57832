package sqlstore

import (
	"context"
	"database/sql"

	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
)

var userColumns = []string{
	"id", "email", "first_name", "last_name", "password_hash", "role", "status", "empresa",
	"phone", "profile_image", "has_paid", "token_api", "stripe_customer_id", "is_team_member",
	"team_owner_email", "member_role", "last_login", "created_at", "updated_at",
}

// userSubActionSchema covers the columns written by the password and last-login sub-actions
var userSubActionSchema = repositories.UpdateSchema{
	{Column: "password_hash", Kind: repositories.FieldText},
	{Column: "last_login", Kind: repositories.FieldTimestamp},
}

// UserRepository implements repositories.UserRepository
type UserRepository struct {
	*BaseRepository[models.User]
	subActions *BaseRepository[models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, dialect database.Dialect, opts Options) *UserRepository {
	spec := tableSpec[models.User]{
		table:      "users",
		entity:     "user",
		columns:    userColumns,
		naturalKey: "email",
		schema:     repositories.UserUpdateSchema,
		scan:       scanUser,
	}
	subSpec := spec
	subSpec.schema = userSubActionSchema

	return &UserRepository{
		BaseRepository: newBaseRepository(db, dialect, spec, opts),
		subActions:     newBaseRepository(db, dialect, subSpec, opts),
	}
}

// Create inserts a new user. A taken email yields a duplicate error.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.insert(ctx, []any{
		u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Role, u.Status, u.Company,
		u.Phone, u.ProfileImage, u.HasPaid, u.APIToken, u.StripeCustomerID, u.IsTeamMember,
		u.TeamOwnerEmail, u.MemberRole, u.LastLogin, u.CreatedAt, u.UpdatedAt,
	}, u.Email)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

// List retrieves users, newest first
func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	return r.list(ctx, []filter{
		{"role", filters.Role},
		{"status", filters.Status},
	}, "created_at DESC", filters.Limit)
}

// Update applies a partial update to a user
func (r *UserRepository) Update(ctx context.Context, id string, changes map[string]any) (*models.User, error) {
	return r.updateBy(ctx, "id", id, changes)
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*models.User, error) {
	return r.subActions.updateBy(ctx, "id", id, map[string]any{"password_hash": passwordHash})
}

// RecordLogin stamps last_login with the repository clock
func (r *UserRepository) RecordLogin(ctx context.Context, id string) (*models.User, error) {
	return r.subActions.updateBy(ctx, "id", id, map[string]any{"last_login": r.now()})
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.deleteBy(ctx, "id", id)
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Role, &u.Status, &u.Company,
		&u.Phone, &u.ProfileImage, &u.HasPaid, &u.APIToken, &u.StripeCustomerID, &u.IsTeamMember,
		&u.TeamOwnerEmail, &u.MemberRole, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}
