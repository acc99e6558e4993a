// Package wizard implements the multi-step resume creation flow: the draft
// state store, the per-step gates, the navigator and the step renderer.
package wizard

import "fmt"

// StepID identifies one step of the creation flow.
type StepID int

const (
	StepPersonalInfo StepID = iota + 1
	StepProfessionalSummary
	StepWorkExperience
	StepEducation
	StepSkills
	StepLanguages
	StepProjects
	StepCertifications
	StepPreview
)

const (
	// FirstStep is where every draft starts.
	FirstStep = StepPersonalInfo
	// LastStep is the terminal preview step.
	LastStep = StepPreview
	// StepCount is the total number of steps.
	StepCount = int(LastStep)
)

// Valid reports whether s is within [FirstStep, LastStep].
func (s StepID) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s StepID) String() string {
	if def, ok := StepRegistry[s]; ok {
		return def.Name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func clampStep(s StepID) StepID {
	if s < FirstStep {
		return FirstStep
	}
	if s > LastStep {
		return LastStep
	}
	return s
}

// Category names a logical section of resume content.
type Category string

const (
	CategoryPersonalInfo        Category = "personal_info"
	CategoryProfessionalSummary Category = "professional_summary"
	CategoryWorkExperience      Category = "work_experiences"
	CategoryEducation           Category = "educations"
	CategorySkills              Category = "skills"
	CategoryLanguages           Category = "languages"
	CategoryProjects            Category = "projects"
	CategoryCertifications      Category = "certifications"
	CategoryPreview             Category = "preview"
)

// StepDefinition defines metadata for a wizard step
type StepDefinition struct {
	ID       StepID
	Name     string
	Title    string
	Category Category
	// Optional steps always let the user leave.
	Optional bool
	Gate     Gate
	Fields   []FieldSpec
}

// StepRegistry holds all step definitions
var StepRegistry = map[StepID]StepDefinition{
	StepPersonalInfo: {
		ID:       StepPersonalInfo,
		Name:     "personal_info",
		Title:    "Personal Info",
		Category: CategoryPersonalInfo,
		Gate:     personalInfoGate,
		Fields:   personalInfoFields,
	},
	StepProfessionalSummary: {
		ID:       StepProfessionalSummary,
		Name:     "professional_summary",
		Title:    "Professional Summary",
		Category: CategoryProfessionalSummary,
		Gate:     summaryGate,
		Fields:   summaryFields,
	},
	StepWorkExperience: {
		ID:       StepWorkExperience,
		Name:     "work_experience",
		Title:    "Work Experience",
		Category: CategoryWorkExperience,
		Gate:     workExperienceGate,
		Fields:   workExperienceFields,
	},
	StepEducation: {
		ID:       StepEducation,
		Name:     "education",
		Title:    "Education",
		Category: CategoryEducation,
		Gate:     educationGate,
		Fields:   educationFields,
	},
	StepSkills: {
		ID:       StepSkills,
		Name:     "skills",
		Title:    "Skills",
		Category: CategorySkills,
		Gate:     skillsGate,
		Fields:   skillFields,
	},
	StepLanguages: {
		ID:       StepLanguages,
		Name:     "languages",
		Title:    "Languages",
		Category: CategoryLanguages,
		Optional: true,
		Gate:     alwaysPass,
		Fields:   languageFields,
	},
	StepProjects: {
		ID:       StepProjects,
		Name:     "projects",
		Title:    "Projects",
		Category: CategoryProjects,
		Optional: true,
		Gate:     alwaysPass,
		Fields:   projectFields,
	},
	StepCertifications: {
		ID:       StepCertifications,
		Name:     "certifications",
		Title:    "Certifications",
		Category: CategoryCertifications,
		Optional: true,
		Gate:     alwaysPass,
		Fields:   certificationFields,
	},
	StepPreview: {
		ID:       StepPreview,
		Name:     "preview",
		Title:    "Preview",
		Category: CategoryPreview,
		Optional: true,
		Gate:     alwaysPass,
	},
}

// LookupStep returns the definition of a step.
func LookupStep(id StepID) (StepDefinition, bool) {
	def, ok := StepRegistry[id]
	return def, ok
}

// OrderedSteps returns every step definition from first to last.
func OrderedSteps() []StepDefinition {
	out := make([]StepDefinition, 0, StepCount)
	for id := FirstStep; id <= LastStep; id++ {
		out = append(out, StepRegistry[id])
	}
	return out
}

// MandatorySteps returns the steps whose gate can block progress.
func MandatorySteps() []StepID {
	var out []StepID
	for _, def := range OrderedSteps() {
		if !def.Optional {
			out = append(out, def.ID)
		}
	}
	return out
}
