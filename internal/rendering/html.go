package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.gohtml
var htmlFS embed.FS

// Variant selects the screen layout.
type Variant string

const (
	// VariantFull is the full-size screen layout.
	VariantFull Variant = "full"
	// VariantPreview scales the full layout down for thumbnails and side panels.
	VariantPreview Variant = "preview"
)

// PreviewScale is the scale factor of VariantPreview.
const PreviewScale = 0.75

// ParseVariant converts a query value into a Variant. Empty means full.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantFull:
		return VariantFull, nil
	case VariantPreview:
		return VariantPreview, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

type theme struct {
	Primary         template.CSS
	Secondary       template.CSS
	Text            template.CSS
	Background      template.CSS
	Accent          template.CSS
	Name            template.CSS
	SectionTitle    template.CSS
	SubsectionTitle template.CSS
	Normal          template.CSS
}

func themeFor(t Template) theme {
	return theme{
		Primary:         template.CSS(t.Colors.Primary),
		Secondary:       template.CSS(t.Colors.Secondary),
		Text:            template.CSS(t.Colors.Text),
		Background:      template.CSS(t.Colors.Background),
		Accent:          template.CSS(t.Colors.Accent),
		Name:            template.CSS(t.FontSizes.Name),
		SectionTitle:    template.CSS(t.FontSizes.SectionTitle),
		SubsectionTitle: template.CSS(t.FontSizes.SubsectionTitle),
		Normal:          template.CSS(t.FontSizes.Normal),
	}
}

type pageData struct {
	Doc      Document
	Template Template
	Theme    theme
	Variant  Variant
	Scale    template.CSS
}

var (
	htmlOnce      sync.Once
	htmlTemplates *template.Template
	htmlErr       error
)

func loadHTMLTemplates() (*template.Template, error) {
	htmlOnce.Do(func() {
		tmpl, err := template.New("resume").ParseFS(htmlFS, "templates/*.gohtml")
		if err != nil {
			htmlErr = &TemplateError{Message: "failed to parse HTML templates", Cause: err}
			return
		}
		htmlTemplates = tmpl
	})
	return htmlTemplates, htmlErr
}

func executeHTML(name string, data pageData) (string, error) {
	tmpl, err := loadHTMLTemplates()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", &TemplateError{Message: fmt.Sprintf("failed to execute %s template", name), Cause: err}
	}
	return buf.String(), nil
}

// RenderHTML renders the screen representation of doc.
func RenderHTML(doc Document, t Template, v Variant) (string, error) {
	data := pageData{Doc: doc, Template: t, Theme: themeFor(t), Variant: v}
	switch v {
	case VariantFull:
	case VariantPreview:
		data.Scale = template.CSS(fmt.Sprintf("transform: scale(%.2f); transform-origin: top center;", PreviewScale))
	default:
		return "", &RenderError{Message: fmt.Sprintf("unknown variant %q", v)}
	}
	return executeHTML("screen", data)
}

// RenderPrintHTML renders the export representation of doc laid out for a
// single A4 page width.
func RenderPrintHTML(doc Document, t Template) (string, error) {
	return executeHTML("print", pageData{Doc: doc, Template: t, Theme: themeFor(t), Variant: VariantFull})
}

// RenderExportHTML renders the print representation and refuses to return it
// if its sections diverge from the screen representation.
func RenderExportHTML(doc Document, t Template) (string, error) {
	screen, err := RenderHTML(doc, t, VariantFull)
	if err != nil {
		return "", err
	}
	printed, err := RenderPrintHTML(doc, t)
	if err != nil {
		return "", err
	}
	if err := VerifyParity(screen, printed); err != nil {
		return "", err
	}
	return printed, nil
}
