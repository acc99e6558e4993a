// Package types provides type definitions for structured data used throughout the resume builder.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AccountTier is the billing tier of an account.
type AccountTier string

const (
	// TierFree is the metered tier: one resume, free templates only.
	TierFree AccountTier = "FREE"
	// TierPremium is the unmetered tier.
	TierPremium AccountTier = "PREMIUM"
)

// FreeResumeQuota is the number of resumes a FREE account may own.
const FreeResumeQuota = 1

// IsPremium reports whether the tier is unmetered.
func (t AccountTier) IsPremium() bool {
	return t == TierPremium
}

// ResumeQuota returns the maximum number of resumes for the tier, or -1 when unlimited.
func (t AccountTier) ResumeQuota() int {
	if t.IsPremium() {
		return -1
	}
	return FreeResumeQuota
}

// CreateUserRequest represents the request to create a new user with password authentication.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest represents a password update request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UpdateProfileRequest changes the display name and email of the caller.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

// User represents a user profile for API responses (avoids import cycle with db package).
type User struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	AccountTier AccountTier `json:"account_tier"`
	PasswordSet bool        `json:"password_set"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Session is what the wizard and the surrounding pages know about the caller.
type Session struct {
	UserID      uuid.UUID   `json:"user_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	AccountTier AccountTier `json:"account_tier"`
}

// SessionFor builds the session object for a user.
func SessionFor(u *User) Session {
	return Session{
		UserID:      u.ID,
		Name:        u.Name,
		Email:       u.Email,
		AccountTier: u.AccountTier,
	}
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdatePasswordRequest using the validator.
func (r *UpdatePasswordRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
