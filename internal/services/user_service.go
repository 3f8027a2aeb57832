package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"prospect-crm-api/internal/models"
	"prospect-crm-api/internal/repositories"
)

// userService implements the UserService interface
type userService struct {
	userRepo  repositories.UserRepository
	validator *validator.Validate
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{
		userRepo:  userRepo,
		validator: newValidator(),
	}
}

// CreateUser stores a new user with the default role and status
func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if req == nil {
		return nil, repositories.ValidationError("user", "", fmt.Errorf("request body is required"))
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("user", err)
	}

	user := models.NewUser(req.Email, req.PasswordHash)
	user.FirstName = models.StringOr(req.FirstName, "")
	user.LastName = models.StringOr(req.LastName, "")
	user.Role = models.StringOr(req.Role, models.DefaultUserRole)
	user.Status = models.StringOr(req.Status, models.DefaultUserStatus)
	user.Company = models.NullIfEmpty(req.Company)
	user.Phone = models.NullIfEmpty(req.Phone)
	user.ProfileImage = models.NullIfEmpty(req.ProfileImage)
	user.APIToken = models.NullIfEmpty(req.APIToken)
	user.StripeCustomerID = models.NullIfEmpty(req.StripeCustomerID)
	user.TeamOwnerEmail = models.NullIfEmpty(req.TeamOwnerEmail)
	user.MemberRole = models.NullIfEmpty(req.MemberRole)
	if req.HasPaid != nil {
		user.HasPaid = *req.HasPaid
	}
	if req.IsTeamMember != nil {
		user.IsTeamMember = *req.IsTeamMember
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsDuplicate(err) {
			if existing, getErr := s.userRepo.GetByEmail(ctx, user.Email); getErr == nil {
				return nil, repositories.ConflictError("user", "email", user.Email, existing.ID)
			}
		}
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := requireKey("user", "id", id); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByEmail retrieves a user by email
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := requireKey("user", "email", email); err != nil {
		return nil, err
	}
	return s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
}

// ListUsers lists users matching the filters
func (s *userService) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	return s.userRepo.List(ctx, filters)
}

// UpdateUser applies a partial update
func (s *userService) UpdateUser(ctx context.Context, id string, changes map[string]any) (*models.User, error) {
	if err := requireKey("user", "id", id); err != nil {
		return nil, err
	}
	return s.userRepo.Update(ctx, id, changes)
}

// UpdatePassword replaces the password hash of a user
func (s *userService) UpdatePassword(ctx context.Context, id string, req *UpdatePasswordRequest) (*models.User, error) {
	if err := requireKey("user", "id", id); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, repositories.ValidationError("user", id, fmt.Errorf("password_hash is required"))
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError("user", err)
	}
	return s.userRepo.UpdatePassword(ctx, id, req.PasswordHash)
}

// RecordLogin stamps the last login time of a user
func (s *userService) RecordLogin(ctx context.Context, id string) (*models.User, error) {
	if err := requireKey("user", "id", id); err != nil {
		return nil, err
	}
	return s.userRepo.RecordLogin(ctx, id)
}

// DeleteUser deletes a user by ID
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := requireKey("user", "id", id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
