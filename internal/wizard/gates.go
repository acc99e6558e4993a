package wizard

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// VariantDestructive marks a notification that reports a blocked action.
const VariantDestructive = "destructive"

// Notification is a transient message shown to the user.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Variant string `json:"variant"`
}

// GateResult is the outcome of a step gate.
type GateResult struct {
	Passed       bool          `json:"passed"`
	Step         StepID        `json:"step"`
	Notification *Notification `json:"notification,omitempty"`
}

// Gate decides whether form data allows leaving a step.
type Gate func(fd types.FormData) GateResult

func pass() GateResult {
	return GateResult{Passed: true}
}

func fail(title, message string) GateResult {
	return GateResult{
		Notification: &Notification{Title: title, Message: message, Variant: VariantDestructive},
	}
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func alwaysPass(types.FormData) GateResult { return pass() }

func personalInfoGate(fd types.FormData) GateResult {
	if fd.PersonalInfo == nil || !present(fd.PersonalInfo.FullName) || !present(fd.PersonalInfo.Email) {
		return fail("Required Fields Missing", "Please provide your full name and email address to continue.")
	}
	return pass()
}

func summaryGate(fd types.FormData) GateResult {
	if fd.ProfessionalSummary == nil || !present(fd.ProfessionalSummary.Summary) {
		return fail("Professional Summary Required", "Please provide a professional summary to continue.")
	}
	return pass()
}

func workExperienceGate(fd types.FormData) GateResult {
	if len(fd.WorkExperiences) == 0 {
		return fail("Work Experience Required", "Please add at least one work experience entry to continue.")
	}
	return pass()
}

func educationGate(fd types.FormData) GateResult {
	if len(fd.Educations) == 0 {
		return fail("Education Required", "Please add at least one education entry to continue.")
	}
	return pass()
}

func skillsGate(fd types.FormData) GateResult {
	if len(fd.Skills) == 0 {
		return fail("Skills Required", "Please add at least one skill to continue.")
	}
	return pass()
}

// CheckStep runs the gate of step against fd. Unknown steps pass.
func CheckStep(step StepID, fd types.FormData) GateResult {
	def, ok := StepRegistry[step]
	if !ok || def.Gate == nil {
		r := pass()
		r.Step = step
		return r
	}
	r := def.Gate(fd)
	r.Step = step
	return r
}

// CheckAll runs every gate in step order and returns all results.
func CheckAll(fd types.FormData) []GateResult {
	out := make([]GateResult, 0, StepCount)
	for id := FirstStep; id <= LastStep; id++ {
		out = append(out, CheckStep(id, fd))
	}
	return out
}

// FirstFailure returns the earliest failing gate, if any.
func FirstFailure(fd types.FormData) (GateResult, bool) {
	for _, r := range CheckAll(fd) {
		if !r.Passed {
			return r, true
		}
	}
	return GateResult{}, false
}
