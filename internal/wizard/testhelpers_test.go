package wizard

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

func ptr[T any](v T) *T { return &v }

func completeFormData() types.FormData {
	fd := types.NewFormData()
	fd.Title = "Platform engineer"
	fd.PersonalInfo = &types.PersonalInfo{FullName: "John Doe", Email: "john@x.com"}
	fd.ProfessionalSummary = &types.ProfessionalSummary{
		Summary: "Backend engineer with ten years of experience building distributed systems.",
	}
	fd.WorkExperiences = []types.WorkExperience{{
		Company:     "Acme",
		Position:    "Engineer",
		StartDate:   types.NewDate(2018, time.March, 1),
		Description: "Built the billing pipeline end to end.",
	}}
	fd.Educations = []types.Education{{
		Institution:  "MIT",
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		StartDate:    types.NewDate(2010, time.September, 1),
		EndDate:      ptr(types.NewDate(2014, time.June, 1)),
	}}
	fd.Skills = []types.Skill{{Name: "Go", Level: types.SkillExpert}}
	return fd
}

func draftAt(step StepID, fd types.FormData) Draft {
	d := NewDraft(uuid.New())
	d.TemplateID = ptr("toronto")
	d.Step = step
	d.Furthest = step
	d.FormData = fd
	return d
}
