// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/wizard"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrDraftNotFound covers unknown, expired and foreign drafts alike.
type ErrDraftNotFound struct {
	DraftID string
}

func (e *ErrDraftNotFound) Error() string {
	return fmt.Sprintf("draft not found: %s", e.DraftID)
}

// ErrResumeNotFound covers unknown and foreign resumes alike.
type ErrResumeNotFound struct {
	ResumeID string
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ResumeID)
}

// ErrTemplateLocked indicates a premium template requested by a free account.
type ErrTemplateLocked struct {
	TemplateID string
}

func (e *ErrTemplateLocked) Error() string {
	return fmt.Sprintf("template %s requires a premium account", e.TemplateID)
}

// ErrQuotaExceeded indicates the account already owns its allowed resumes.
type ErrQuotaExceeded struct {
	Quota int
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("resume limit reached: free accounts may keep %d resume(s)", e.Quota)
}

// ErrExportInProgress indicates another export of the same draft is running.
type ErrExportInProgress struct {
	DraftID uuid.UUID
}

func (e *ErrExportInProgress) Error() string {
	return fmt.Sprintf("an export of draft %s is already in progress", e.DraftID)
}

// ErrNoTemplate indicates an operation that needs a template on a draft without one.
type ErrNoTemplate struct{}

func (e *ErrNoTemplate) Error() string {
	return "select a template first"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists *ErrEmailAlreadyExists
		invalidCred *ErrInvalidCredentials
		mismatch    *ErrPasswordMismatch
		userMissing *ErrUserNotFound
		validation  *ErrValidation
		fieldErrs   wizard.FieldErrors
		draftGone   *ErrDraftNotFound
		resumeGone  *ErrResumeNotFound
		locked      *ErrTemplateLocked
		quota       *ErrQuotaExceeded
		inFlight    *ErrExportInProgress
		noTemplate  *ErrNoTemplate
	)
	switch {
	case errors.As(err, &emailExists), errors.As(err, &inFlight), errors.As(err, &noTemplate):
		return http.StatusConflict
	case errors.As(err, &invalidCred), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userMissing), errors.As(err, &draftGone), errors.As(err, &resumeGone),
		errors.Is(err, session.ErrNotFound), errors.Is(err, rendering.ErrUnknownTemplate):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &locked), errors.As(err, &quota), errors.Is(err, db.ErrQuotaExceeded):
		return http.StatusForbidden
	case errors.Is(err, session.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine readable code sent alongside the message.
func errorCode(err error) string {
	var (
		locked     *ErrTemplateLocked
		quota      *ErrQuotaExceeded
		inFlight   *ErrExportInProgress
		noTemplate *ErrNoTemplate
		fieldErrs  wizard.FieldErrors
	)
	switch {
	case errors.As(err, &locked):
		return "template_locked"
	case errors.As(err, &quota), errors.Is(err, db.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.As(err, &inFlight):
		return "export_in_progress"
	case errors.As(err, &noTemplate):
		return "template_required"
	case errors.As(err, &fieldErrs):
		return "invalid_fields"
	}
	switch HTTPStatus(err) {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadRequest:
		return "invalid_request"
	default:
		return "internal_error"
	}
}
