package wizard

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// FieldSpec describes one input of a step form.
type FieldSpec struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Type      string   `json:"type"`
	Required  bool     `json:"required"`
	MinLength int      `json:"min_length,omitempty"`
	Options   []string `json:"options,omitempty"`
}

var personalInfoFields = []FieldSpec{
	{Name: "full_name", Label: "Full Name", Type: "text", Required: true, MinLength: 2},
	{Name: "email", Label: "Email", Type: "email", Required: true},
	{Name: "phone", Label: "Phone", Type: "tel"},
	{Name: "address", Label: "Address", Type: "text"},
	{Name: "linkedin", Label: "LinkedIn", Type: "url"},
	{Name: "website", Label: "Website", Type: "url"},
}

var summaryFields = []FieldSpec{
	{Name: "summary", Label: "Professional Summary", Type: "textarea", Required: true, MinLength: 50},
}

var workExperienceFields = []FieldSpec{
	{Name: "company", Label: "Company", Type: "text", Required: true, MinLength: 2},
	{Name: "position", Label: "Position", Type: "text", Required: true, MinLength: 2},
	{Name: "start_date", Label: "Start Date", Type: "date", Required: true},
	{Name: "end_date", Label: "End Date", Type: "date"},
	{Name: "description", Label: "Description", Type: "textarea", Required: true, MinLength: 20},
}

var educationFields = []FieldSpec{
	{Name: "institution", Label: "Institution", Type: "text", Required: true, MinLength: 2},
	{Name: "degree", Label: "Degree", Type: "text", Required: true, MinLength: 2},
	{Name: "field_of_study", Label: "Field of Study", Type: "text", Required: true, MinLength: 2},
	{Name: "start_date", Label: "Start Date", Type: "date", Required: true},
	{Name: "end_date", Label: "End Date", Type: "date"},
}

var skillFields = []FieldSpec{
	{Name: "name", Label: "Skill", Type: "text", Required: true, MinLength: 2},
	{Name: "level", Label: "Level", Type: "select", Required: true, Options: skillLevelOptions()},
}

var languageFields = []FieldSpec{
	{Name: "name", Label: "Language", Type: "text", Required: true, MinLength: 2},
	{Name: "level", Label: "Proficiency", Type: "select", Required: true, Options: languageLevelOptions()},
}

var projectFields = []FieldSpec{
	{Name: "name", Label: "Project Name", Type: "text", Required: true, MinLength: 2},
	{Name: "description", Label: "Description", Type: "textarea", Required: true, MinLength: 20},
	{Name: "url", Label: "URL", Type: "url"},
}

var certificationFields = []FieldSpec{
	{Name: "name", Label: "Certification", Type: "text", Required: true, MinLength: 2},
	{Name: "issuer", Label: "Issuer", Type: "text", Required: true, MinLength: 2},
	{Name: "date", Label: "Date", Type: "date", Required: true},
}

func skillLevelOptions() []string {
	out := make([]string, len(types.SkillLevels))
	for i, l := range types.SkillLevels {
		out[i] = string(l)
	}
	return out
}

func languageLevelOptions() []string {
	out := make([]string, len(types.LanguageLevels))
	for i, l := range types.LanguageLevels {
		out[i] = string(l)
	}
	return out
}

// StepSummary is one entry of the step indicator.
type StepSummary struct {
	ID        StepID `json:"id"`
	Title     string `json:"title"`
	Optional  bool   `json:"optional"`
	Current   bool   `json:"current"`
	Reachable bool   `json:"reachable"`
}

// FinishAction carries the links available on the preview step.
type FinishAction struct {
	Finish  string `json:"finish"`
	Preview string `json:"preview"`
	Export  string `json:"export"`
	LaTeX   string `json:"latex"`
}

// View is the form to present for the current step of a draft.
type View struct {
	DraftID    string        `json:"draft_id"`
	TemplateID *string       `json:"template_id"`
	Step       StepID        `json:"step"`
	StepCount  int           `json:"step_count"`
	Title      string        `json:"title"`
	Category   Category      `json:"category"`
	Optional   bool          `json:"optional"`
	Repeated   bool          `json:"repeated"`
	Fields     []FieldSpec   `json:"fields,omitempty"`
	Values     interface{}   `json:"values,omitempty"`
	HasPending bool          `json:"has_pending"`
	Steps      []StepSummary `json:"steps"`
	Finish     *FinishAction `json:"finish,omitempty"`
}

// Render builds the view for the current step of d. Values reflect staged
// edits so an in-progress form is shown as the user left it.
func Render(d Draft) View {
	def := StepRegistry[clampStep(d.Step)]
	fd := d.Effective()

	v := View{
		DraftID:    d.ID.String(),
		TemplateID: d.TemplateID,
		Step:       def.ID,
		StepCount:  StepCount,
		Title:      def.Title,
		Category:   def.Category,
		Optional:   def.Optional,
		Fields:     def.Fields,
		HasPending: d.HasPending(),
		Steps:      summaries(d),
	}

	switch def.ID {
	case StepPersonalInfo:
		v.Values = fd.PersonalInfo
	case StepProfessionalSummary:
		v.Values = fd.ProfessionalSummary
	case StepWorkExperience:
		v.Repeated, v.Values = true, fd.WorkExperiences
	case StepEducation:
		v.Repeated, v.Values = true, fd.Educations
	case StepSkills:
		v.Repeated, v.Values = true, fd.Skills
	case StepLanguages:
		v.Repeated, v.Values = true, fd.Languages
	case StepProjects:
		v.Repeated, v.Values = true, fd.Projects
	case StepCertifications:
		v.Repeated, v.Values = true, fd.Certifications
	case StepPreview:
		base := fmt.Sprintf("/drafts/%s", d.ID)
		v.Finish = &FinishAction{
			Finish:  base + "/finish",
			Preview: base + "/preview",
			Export:  base + "/export.pdf",
			LaTeX:   base + "/export.tex",
		}
	}
	return v
}

func summaries(d Draft) []StepSummary {
	out := make([]StepSummary, 0, StepCount)
	for _, def := range OrderedSteps() {
		out = append(out, StepSummary{
			ID:        def.ID,
			Title:     def.Title,
			Optional:  def.Optional,
			Current:   def.ID == d.Step,
			Reachable: d.HasTemplate() && def.ID <= d.Furthest,
		})
	}
	return out
}
