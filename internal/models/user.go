package models

import (
	"time"

	"github.com/google/uuid"
)

// User defaults
const (
	DefaultUserRole   = "user"
	DefaultUserStatus = "active"
)

// User is an account of the CRM. Emails are unique.
// The password hash is returned to callers because the login flow compares it client-side.
type User struct {
	ID               string     `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	FirstName        string     `json:"first_name" db:"first_name"`
	LastName         string     `json:"last_name" db:"last_name"`
	PasswordHash     string     `json:"password_hash" db:"password_hash"`
	Role             string     `json:"role" db:"role"`
	Status           string     `json:"status" db:"status"`
	Company          *string    `json:"empresa" db:"empresa"`
	Phone            *string    `json:"phone" db:"phone"`
	ProfileImage     *string    `json:"profile_image" db:"profile_image"`
	HasPaid          bool       `json:"has_paid" db:"has_paid"`
	APIToken         *string    `json:"token_api" db:"token_api"`
	StripeCustomerID *string    `json:"stripe_customer_id" db:"stripe_customer_id"`
	IsTeamMember     bool       `json:"is_team_member" db:"is_team_member"`
	TeamOwnerEmail   *string    `json:"team_owner_email" db:"team_owner_email"`
	MemberRole       *string    `json:"member_role" db:"member_role"`
	LastLogin        *time.Time `json:"last_login" db:"last_login"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// NewUser creates a user with a generated ID, default role and status
func NewUser(email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         DefaultUserRole,
		Status:       DefaultUserStatus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// FullName returns the first and last name joined by a space
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
