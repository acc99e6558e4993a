package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// User represents a user account
type User struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool              `json:"password_set" db:"password_set"`
	AccountTier  types.AccountTier `json:"account_tier" db:"account_tier"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Resume is a finished resume record.
type Resume struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	Title      string        `json:"title"`
	TemplateID string        `json:"template_id"`
	Content    ResumeContent `json:"content"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ResumeSummary is a lightweight view of a resume for listings
type ResumeSummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	TemplateID string    `json:"template_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ResumeInput holds the fields needed to insert a resume.
type ResumeInput struct {
	UserID     uuid.UUID
	Title      string
	TemplateID string
	Content    types.FormData
}

// ResumeContent stores form data as JSONB.
type ResumeContent types.FormData

// Scan implements the Scanner interface
func (c *ResumeContent) Scan(src interface{}) error {
	if src == nil {
		*c = ResumeContent(types.NewFormData())
		return nil
	}
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("type assertion .([]byte) failed")
	}
	fd := types.NewFormData()
	if err := json.Unmarshal(source, &fd); err != nil {
		return err
	}
	*c = ResumeContent(fd)
	return nil
}

// Value implements the Valuer interface
func (c ResumeContent) Value() (driver.Value, error) {
	return json.Marshal(types.FormData(c))
}

// FormData returns the content as form data.
func (c ResumeContent) FormData() types.FormData {
	return types.FormData(c)
}
