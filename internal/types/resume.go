package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of every resume date.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// NewDate returns the date for the given year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals; it panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MonthYear formats the date the way resumes print it ("January 2020").
func (d Date) MonthYear() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("January 2006")
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SkillLevel is the proficiency of a skill, ordered from weakest to strongest.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillExpert       SkillLevel = "EXPERT"
)

// SkillLevels lists the skill levels in ascending order.
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}

// LanguageLevel is the proficiency of a spoken language, ordered from weakest to strongest.
type LanguageLevel string

const (
	LanguageBasic        LanguageLevel = "BASIC"
	LanguageIntermediate LanguageLevel = "INTERMEDIATE"
	LanguageAdvanced     LanguageLevel = "ADVANCED"
	LanguageFluent       LanguageLevel = "FLUENT"
	LanguageNative       LanguageLevel = "NATIVE"
)

// LanguageLevels lists the language levels in ascending order.
var LanguageLevels = []LanguageLevel{LanguageBasic, LanguageIntermediate, LanguageAdvanced, LanguageFluent, LanguageNative}

// Label is the lower-case form used on rendered resumes.
func (l SkillLevel) Label() string { return strings.ToLower(string(l)) }

// Label is the lower-case form used on rendered resumes.
func (l LanguageLevel) Label() string { return strings.ToLower(string(l)) }

// PersonalInfo holds the header/contact block of a resume.
type PersonalInfo struct {
	FullName string `json:"full_name" validate:"required,min=2,safe_text"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,safe_text"`
	Address  string `json:"address,omitempty" validate:"omitempty,safe_text"`
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
}

// ProfessionalSummary is the free-text narrative under the header.
type ProfessionalSummary struct {
	Summary string `json:"summary" validate:"required,min=50,safe_text"`
}

// WorkExperience is one employment entry. A nil EndDate means "Present".
type WorkExperience struct {
	Company     string `json:"company" validate:"required,min=2,safe_text"`
	Position    string `json:"position" validate:"required,min=2,safe_text"`
	StartDate   Date   `json:"start_date" validate:"required"`
	EndDate     *Date  `json:"end_date,omitempty"`
	Description string `json:"description" validate:"required,min=20,safe_text"`
}

// Education is one degree entry. A nil EndDate means "Present".
type Education struct {
	Institution  string `json:"institution" validate:"required,min=2,safe_text"`
	Degree       string `json:"degree" validate:"required,min=2,safe_text"`
	FieldOfStudy string `json:"field_of_study" validate:"required,min=2,safe_text"`
	StartDate    Date   `json:"start_date" validate:"required"`
	EndDate      *Date  `json:"end_date,omitempty"`
}

// Skill is a named skill with a proficiency level.
type Skill struct {
	Name  string     `json:"name" validate:"required,min=2,safe_text"`
	Level SkillLevel `json:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
}

// Language is a spoken language with a proficiency level.
type Language struct {
	Name  string        `json:"name" validate:"required,min=2,safe_text"`
	Level LanguageLevel `json:"level" validate:"required,oneof=BASIC INTERMEDIATE ADVANCED FLUENT NATIVE"`
}

// Project is a portfolio entry.
type Project struct {
	Name        string `json:"name" validate:"required,min=2,safe_text"`
	Description string `json:"description" validate:"required,min=20,safe_text"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
}

// Certification is a credential with its issuer and award date.
type Certification struct {
	Name   string `json:"name" validate:"required,min=2,safe_text"`
	Issuer string `json:"issuer" validate:"required,min=2,safe_text"`
	Date   Date   `json:"date" validate:"required"`
}

// FormData is the accumulated content of a resume draft.
// Sequences are never nil once a FormData has been created with NewFormData.
type FormData struct {
	Title               string               `json:"title"`
	PersonalInfo        *PersonalInfo        `json:"personal_info"`
	ProfessionalSummary *ProfessionalSummary `json:"professional_summary"`
	WorkExperiences     []WorkExperience     `json:"work_experiences"`
	Educations          []Education          `json:"educations"`
	Skills              []Skill              `json:"skills"`
	Languages           []Language           `json:"languages"`
	Projects            []Project            `json:"projects"`
	Certifications      []Certification      `json:"certifications"`
}

// NewFormData returns empty form data with every sequence initialised.
func NewFormData() FormData {
	return FormData{
		WorkExperiences: []WorkExperience{},
		Educations:      []Education{},
		Skills:          []Skill{},
		Languages:       []Language{},
		Projects:        []Project{},
		Certifications:  []Certification{},
	}
}

// FormDataPatch is a partial update of FormData. A nil field leaves the
// corresponding category untouched; a non-nil field replaces it.
type FormDataPatch struct {
	Title               *string              `json:"title,omitempty"`
	PersonalInfo        *PersonalInfo        `json:"personal_info,omitempty"`
	ProfessionalSummary *ProfessionalSummary `json:"professional_summary,omitempty"`
	WorkExperiences     *[]WorkExperience    `json:"work_experiences,omitempty"`
	Educations          *[]Education         `json:"educations,omitempty"`
	Skills              *[]Skill             `json:"skills,omitempty"`
	Languages           *[]Language          `json:"languages,omitempty"`
	Projects            *[]Project           `json:"projects,omitempty"`
	Certifications      *[]Certification     `json:"certifications,omitempty"`
}

// IsEmpty reports whether the patch touches no category.
func (p FormDataPatch) IsEmpty() bool {
	return p.Title == nil && p.PersonalInfo == nil && p.ProfessionalSummary == nil &&
		p.WorkExperiences == nil && p.Educations == nil && p.Skills == nil &&
		p.Languages == nil && p.Projects == nil && p.Certifications == nil
}

// Merge returns a patch holding the categories of p overridden by those of next.
func (p FormDataPatch) Merge(next FormDataPatch) FormDataPatch {
	out := p
	if next.Title != nil {
		out.Title = next.Title
	}
	if next.PersonalInfo != nil {
		out.PersonalInfo = next.PersonalInfo
	}
	if next.ProfessionalSummary != nil {
		out.ProfessionalSummary = next.ProfessionalSummary
	}
	if next.WorkExperiences != nil {
		out.WorkExperiences = next.WorkExperiences
	}
	if next.Educations != nil {
		out.Educations = next.Educations
	}
	if next.Skills != nil {
		out.Skills = next.Skills
	}
	if next.Languages != nil {
		out.Languages = next.Languages
	}
	if next.Projects != nil {
		out.Projects = next.Projects
	}
	if next.Certifications != nil {
		out.Certifications = next.Certifications
	}
	return out
}

// Apply returns a copy of f with every category present in p replaced.
// Categories absent from p are carried over unchanged.
func (f FormData) Apply(p FormDataPatch) FormData {
	out := f
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.PersonalInfo != nil {
		pi := *p.PersonalInfo
		out.PersonalInfo = &pi
	}
	if p.ProfessionalSummary != nil {
		ps := *p.ProfessionalSummary
		out.ProfessionalSummary = &ps
	}
	if p.WorkExperiences != nil {
		out.WorkExperiences = cloneSlice(*p.WorkExperiences)
	}
	if p.Educations != nil {
		out.Educations = cloneSlice(*p.Educations)
	}
	if p.Skills != nil {
		out.Skills = cloneSlice(*p.Skills)
	}
	if p.Languages != nil {
		out.Languages = cloneSlice(*p.Languages)
	}
	if p.Projects != nil {
		out.Projects = cloneSlice(*p.Projects)
	}
	if p.Certifications != nil {
		out.Certifications = cloneSlice(*p.Certifications)
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
