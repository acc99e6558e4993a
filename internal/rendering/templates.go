package rendering

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// Colors is the palette of a template.
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Text       string `json:"text"`
	Background string `json:"background"`
	Accent     string `json:"accent"`
}

// FontSizes are CSS sizes for the text levels of a template.
type FontSizes struct {
	Name            string `json:"name"`
	SectionTitle    string `json:"section_title"`
	SubsectionTitle string `json:"subsection_title"`
	Normal          string `json:"normal"`
}

// Template is a named visual configuration.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FreeTier    bool      `json:"free_tier"`
	Colors      Colors    `json:"colors"`
	FontSizes   FontSizes `json:"font_sizes"`
}

// AvailableTo reports whether an account of the given tier may use t.
func (t Template) AvailableTo(tier types.AccountTier) bool {
	return t.FreeTier || tier.IsPremium()
}

// DefaultTemplateID is used when none is specified.
const DefaultTemplateID = "toronto"

var templateOrder = []string{"toronto", "montreal"}

var templateRegistry = map[string]Template{
	"toronto": {
		ID:          "toronto",
		Name:        "Toronto",
		Description: "A clean, professional template with a modern touch",
		FreeTier:    true,
		Colors: Colors{
			Primary:    "#3B82F6",
			Secondary:  "#1E40AF",
			Text:       "#4B5563",
			Background: "#FFFFFF",
			Accent:     "#F3F4F6",
		},
		FontSizes: FontSizes{
			Name:            "2.25rem",
			SectionTitle:    "1.5rem",
			SubsectionTitle: "1.25rem",
			Normal:          "1rem",
		},
	},
	"montreal": {
		ID:          "montreal",
		Name:        "Montreal",
		Description: "An elegant two-tone template for senior profiles",
		FreeTier:    false,
		Colors: Colors{
			Primary:    "#0F766E",
			Secondary:  "#134E4A",
			Text:       "#374151",
			Background: "#FFFFFF",
			Accent:     "#ECFDF5",
		},
		FontSizes: FontSizes{
			Name:            "2rem",
			SectionTitle:    "1.25rem",
			SubsectionTitle: "1.125rem",
			Normal:          "0.95rem",
		},
	},
}

// Templates returns every registered template in display order.
func Templates() []Template {
	out := make([]Template, 0, len(templateOrder))
	for _, id := range templateOrder {
		out = append(out, templateRegistry[id])
	}
	return out
}

// LookupTemplate returns the template registered under id.
func LookupTemplate(id string) (Template, error) {
	t, ok := templateRegistry[id]
	if !ok {
		return Template{}, &TemplateError{Message: fmt.Sprintf("template %q", id), Cause: ErrUnknownTemplate}
	}
	return t, nil
}
