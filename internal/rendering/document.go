package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// SectionKind identifies a section of a rendered resume.
type SectionKind string

const (
	SectionHeader         SectionKind = "header"
	SectionSummary        SectionKind = "summary"
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
	SectionLanguages      SectionKind = "languages"
	SectionCertifications SectionKind = "certifications"
	SectionProjects       SectionKind = "projects"
)

// SectionOrder is the fixed order sections appear in every representation.
var SectionOrder = []SectionKind{
	SectionHeader,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionLanguages,
	SectionCertifications,
	SectionProjects,
}

// PresentLabel stands in for a missing end date.
const PresentLabel = "Present"

// Header is the name and contact block.
type Header struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	LinkedIn string
	Website  string
}

// Entry is one item of a list section.
type Entry struct {
	Heading    string
	Subheading string
	Dates      string
	Body       string
	URL        string
}

// Section is one populated part of a document.
type Section struct {
	Kind    SectionKind
	Title   string
	Header  *Header
	Text    string
	Entries []Entry
	// Inline sections render their entries as a compact list.
	Inline bool
}

// Document is the order-stable projection of form data that every
// representation renders from.
type Document struct {
	Title    string
	Sections []Section
}

// Kinds returns the section kinds in document order.
func (d Document) Kinds() []SectionKind {
	out := make([]SectionKind, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Kind
	}
	return out
}

// Has reports whether the document includes a section of kind k.
func (d Document) Has(k SectionKind) bool {
	for _, s := range d.Sections {
		if s.Kind == k {
			return true
		}
	}
	return false
}

// Project builds the document for fd. A section is included iff its
// category is populated; sections always follow SectionOrder.
func Project(fd types.FormData) Document {
	doc := Document{Title: fd.Title}
	for _, kind := range SectionOrder {
		if s, ok := project(kind, fd); ok {
			doc.Sections = append(doc.Sections, s)
		}
	}
	return doc
}

func project(kind SectionKind, fd types.FormData) (Section, bool) {
	switch kind {
	case SectionHeader:
		if fd.PersonalInfo == nil {
			return Section{}, false
		}
		pi := fd.PersonalInfo
		return Section{Kind: kind, Header: &Header{
			Name:     pi.FullName,
			Email:    pi.Email,
			Phone:    pi.Phone,
			Address:  pi.Address,
			LinkedIn: pi.LinkedIn,
			Website:  pi.Website,
		}}, true

	case SectionSummary:
		if fd.ProfessionalSummary == nil || strings.TrimSpace(fd.ProfessionalSummary.Summary) == "" {
			return Section{}, false
		}
		return Section{Kind: kind, Title: "Professional Summary", Text: fd.ProfessionalSummary.Summary}, true

	case SectionExperience:
		if len(fd.WorkExperiences) == 0 {
			return Section{}, false
		}
		entries := make([]Entry, len(fd.WorkExperiences))
		for i, we := range fd.WorkExperiences {
			entries[i] = Entry{
				Heading:    we.Position,
				Subheading: we.Company,
				Dates:      dateRange(we.StartDate, we.EndDate),
				Body:       we.Description,
			}
		}
		return Section{Kind: kind, Title: "Work Experience", Entries: entries}, true

	case SectionEducation:
		if len(fd.Educations) == 0 {
			return Section{}, false
		}
		entries := make([]Entry, len(fd.Educations))
		for i, ed := range fd.Educations {
			entries[i] = Entry{
				Heading:    fmt.Sprintf("%s in %s", ed.Degree, ed.FieldOfStudy),
				Subheading: ed.Institution,
				Dates:      dateRange(ed.StartDate, ed.EndDate),
			}
		}
		return Section{Kind: kind, Title: "Education", Entries: entries}, true

	case SectionSkills:
		if len(fd.Skills) == 0 {
			return Section{}, false
		}
		entries := make([]Entry, len(fd.Skills))
		for i, sk := range fd.Skills {
			entries[i] = Entry{Heading: fmt.Sprintf("%s (%s)", sk.Name, sk.Level.Label())}
		}
		return Section{Kind: kind, Title: "Skills", Entries: entries, Inline: true}, true

	case SectionLanguages:
		if len(fd.Languages) == 0 {
			return Section{}, false
		}
		entries := make([]Entry, len(fd.Languages))
		for i, l := range fd.Languages {
			entries[i] = Entry{Heading: fmt.Sprintf("%s - %s", l.Name, l.Level.Label())}
		}
		return Section{Kind: kind, Title: "Languages", Entries: entries, Inline: true}, true

	case SectionCertifications:
		if len(fd.Certifications) == 0 {
			return Section{}, false
		}
		entries := make([]Entry, len(fd.Certifications))
		for i, c := range fd.Certifications {
			entries[i] = Entry{Heading: c.Name, Subheading: c.Issuer, Dates: c.Date.MonthYear()}
		}
		return Section{Kind: kind, Title: "Certifications", Entries: entries}, true

	case SectionProjects:
		if len(fd.Projects) == 0 {
			return Section{}, false
		}
		entries := make([]Entry, len(fd.Projects))
		for i, p := range fd.Projects {
			entries[i] = Entry{Heading: p.Name, Body: p.Description, URL: p.URL}
		}
		return Section{Kind: kind, Title: "Projects", Entries: entries}, true
	}
	return Section{}, false
}

func dateRange(start types.Date, end *types.Date) string {
	to := PresentLabel
	if end != nil && !end.IsZero() {
		to = end.MonthYear()
	}
	return fmt.Sprintf("%s - %s", start.MonthYear(), to)
}
