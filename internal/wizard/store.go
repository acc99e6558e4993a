package wizard

import (
	"github.com/jonathan/resume-builder/internal/types"
)

// Action is a state transition of a Draft.
type Action interface {
	isAction()
}

// SelectTemplate sets the template of the draft.
type SelectTemplate struct {
	TemplateID string
}

// NextStep moves one step forward. It is a no-op at the last step.
type NextStep struct{}

// PrevStep moves one step back. It is a no-op at the first step.
type PrevStep struct{}

// SetStep jumps to Step, clamped to the valid range.
type SetStep struct {
	Step StepID
}

// UpdateFormData shallow-merges Patch into the committed form data.
type UpdateFormData struct {
	Patch types.FormDataPatch
}

// StagePatch records Patch as pending without touching the committed form data.
type StagePatch struct {
	Patch types.FormDataPatch
}

// CommitPending folds the pending edits into the committed form data.
type CommitPending struct{}

func (SelectTemplate) isAction() {}
func (NextStep) isAction()       {}
func (PrevStep) isAction()       {}
func (SetStep) isAction()        {}
func (UpdateFormData) isAction() {}
func (StagePatch) isAction()     {}
func (CommitPending) isAction()  {}

// Reduce returns the draft that results from applying a to d.
// It never validates; gating is the navigator's job.
func Reduce(d Draft, a Action) Draft {
	switch act := a.(type) {
	case SelectTemplate:
		id := act.TemplateID
		d.TemplateID = &id
	case NextStep:
		if d.Step < LastStep {
			d.Step++
		}
	case PrevStep:
		if d.Step > FirstStep {
			d.Step--
		}
	case SetStep:
		d.Step = clampStep(act.Step)
	case UpdateFormData:
		d.FormData = d.FormData.Apply(act.Patch)
	case StagePatch:
		d.Pending = d.Pending.Merge(act.Patch)
	case CommitPending:
		if d.HasPending() {
			d.FormData = d.FormData.Apply(d.Pending)
			d.Pending = types.FormDataPatch{}
		}
	}
	d.Step = clampStep(d.Step)
	if d.Step > d.Furthest {
		d.Furthest = d.Step
	}
	return d
}

// Store owns exactly one Draft and applies actions to it.
// A Store is not safe for concurrent use; callers serialise access per draft.
type Store struct {
	draft Draft
}

// NewStore wraps d.
func NewStore(d Draft) *Store {
	return &Store{draft: d}
}

// Draft returns the current state.
func (s *Store) Draft() Draft {
	return s.draft
}

// Dispatch applies a and returns the new state.
func (s *Store) Dispatch(a Action) Draft {
	s.draft = Reduce(s.draft, a)
	return s.draft
}

// SelectTemplate sets the template id.
func (s *Store) SelectTemplate(id string) { s.Dispatch(SelectTemplate{TemplateID: id}) }

// AdvanceStep moves forward by one step without validation.
func (s *Store) AdvanceStep() { s.Dispatch(NextStep{}) }

// RetreatStep moves back by one step, floored at the first step.
func (s *Store) RetreatStep() { s.Dispatch(PrevStep{}) }

// SetStep jumps to n.
func (s *Store) SetStep(n StepID) { s.Dispatch(SetStep{Step: n}) }

// MergeFormData commits patch directly.
func (s *Store) MergeFormData(patch types.FormDataPatch) { s.Dispatch(UpdateFormData{Patch: patch}) }

// Stage records patch as pending.
func (s *Store) Stage(patch types.FormDataPatch) {
	NormalizePatch(&patch)
	s.Dispatch(StagePatch{Patch: patch})
}

// Commit folds pending edits into the form data.
func (s *Store) Commit() { s.Dispatch(CommitPending{}) }
