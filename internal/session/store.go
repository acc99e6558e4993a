// Package session keeps in-progress wizard drafts between requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/wizard"
)

// ErrNotFound is returned for unknown, discarded or expired drafts.
var ErrNotFound = errors.New("draft not found")

// DefaultTTL is how long an idle draft is kept.
const DefaultTTL = 2 * time.Hour

// UpdateFunc mutates a draft through its store. Returning an error discards
// every change made by the function.
type UpdateFunc func(s *wizard.Store) error

// DraftStore holds drafts. Update serialises writers of the same draft.
type DraftStore interface {
	Create(ctx context.Context, d wizard.Draft) error
	Get(ctx context.Context, id uuid.UUID) (wizard.Draft, error)
	Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (wizard.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// apply runs fn against d and returns the resulting draft stamped with now.
func apply(d wizard.Draft, fn UpdateFunc, now time.Time) (wizard.Draft, error) {
	s := wizard.NewStore(d)
	if err := fn(s); err != nil {
		return d, err
	}
	out := s.Draft()
	out.UpdatedAt = now
	return out, nil
}
