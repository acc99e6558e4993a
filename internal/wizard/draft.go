package wizard

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// Draft is the in-progress, unpersisted resume of one creation session.
type Draft struct {
	ID         uuid.UUID           `json:"id"`
	OwnerID    uuid.UUID           `json:"owner_id"`
	TemplateID *string             `json:"template_id"`
	Step       StepID              `json:"step"`
	Furthest   StepID              `json:"furthest"`
	FormData   types.FormData      `json:"form_data"`
	Pending    types.FormDataPatch `json:"pending"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// NewDraft returns an empty draft at the first step, owned by ownerID.
func NewDraft(ownerID uuid.UUID) Draft {
	now := time.Now().UTC()
	return Draft{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Step:      FirstStep,
		Furthest:  FirstStep,
		FormData:  types.NewFormData(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasTemplate reports whether a template has been selected.
func (d Draft) HasTemplate() bool {
	return d.TemplateID != nil && *d.TemplateID != ""
}

// HasPending reports whether staged edits are waiting to be committed.
func (d Draft) HasPending() bool {
	return !d.Pending.IsEmpty()
}

// Effective returns the form data as it would look after committing pending edits.
func (d Draft) Effective() types.FormData {
	return d.FormData.Apply(d.Pending)
}
