package wizard

import "github.com/jonathan/resume-builder/internal/types"

// RedirectTemplate sends the user back to template selection.
const RedirectTemplate = "template"

// Outcome reports what a navigation request did.
type Outcome struct {
	// Moved is true when the step changed.
	Moved bool `json:"moved"`
	// Step is the current step after the request.
	Step StepID `json:"step"`
	// Notification is set when a gate blocked the request.
	Notification *Notification `json:"notification,omitempty"`
	// Redirect names the flow the caller should return to.
	Redirect string `json:"redirect,omitempty"`
	// Suppressed is true when the request was ignored as misuse.
	Suppressed bool `json:"suppressed,omitempty"`
	// Finished holds the completed form data after a successful Finish.
	Finished *types.FormData `json:"-"`
}

// Blocked reports whether a gate refused the request.
func (o Outcome) Blocked() bool {
	return o.Notification != nil
}

func stay(s *Store) Outcome {
	return Outcome{Step: s.Draft().Step}
}

// Next commits staged edits and advances one step if the current gate passes.
func Next(s *Store) Outcome {
	s.Commit()
	d := s.Draft()
	if !d.HasTemplate() {
		o := stay(s)
		o.Redirect = RedirectTemplate
		return o
	}
	if d.Step == LastStep {
		o := stay(s)
		o.Suppressed = true
		return o
	}
	if r := CheckStep(d.Step, d.FormData); !r.Passed {
		o := stay(s)
		o.Notification = r.Notification
		return o
	}
	s.AdvanceStep()
	return Outcome{Moved: true, Step: s.Draft().Step}
}

// Back commits staged edits and retreats one step. At the first step it
// redirects to template selection instead.
func Back(s *Store) Outcome {
	s.Commit()
	if s.Draft().Step == FirstStep {
		o := stay(s)
		o.Redirect = RedirectTemplate
		return o
	}
	s.RetreatStep()
	return Outcome{Moved: true, Step: s.Draft().Step}
}

// Jump commits staged edits and moves to a step that has already been reached.
// Jumps to unreached steps, or before a template is chosen, are suppressed.
// A forward jump is refused if a gate between the current step and the
// target fails.
func Jump(s *Store, n StepID) Outcome {
	s.Commit()
	d := s.Draft()
	if !d.HasTemplate() || !n.Valid() || n > d.Furthest {
		o := stay(s)
		o.Suppressed = true
		return o
	}
	if n == d.Step {
		return stay(s)
	}
	for step := d.Step; step < n; step++ {
		if r := CheckStep(step, d.FormData); !r.Passed {
			o := stay(s)
			o.Notification = r.Notification
			return o
		}
	}
	s.SetStep(n)
	return Outcome{Moved: true, Step: s.Draft().Step}
}

// Finish commits staged edits and, at the preview step with every gate
// passing, returns the completed form data.
func Finish(s *Store) Outcome {
	s.Commit()
	d := s.Draft()
	if !d.HasTemplate() {
		o := stay(s)
		o.Redirect = RedirectTemplate
		return o
	}
	if d.Step != LastStep {
		o := stay(s)
		o.Suppressed = true
		return o
	}
	if r, failed := FirstFailure(d.FormData); failed {
		o := stay(s)
		o.Notification = r.Notification
		return o
	}
	fd := d.FormData
	o := stay(s)
	o.Finished = &fd
	return o
}
