package rendering

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

//go:embed templates/resume.tex.tmpl
var defaultLaTeXTemplate string

// latexData is passed to LaTeX templates.
type latexData struct {
	Document
	Primary   string
	Secondary string
}

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: \ { } $ & % # ^ _ ~ < >
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{', '}', '$', '&', '%', '#', '_':
			result.WriteByte('\\')
			result.WriteRune(r)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '<':
			result.WriteString(`\textless{}`)
		case '>':
			result.WriteString(`\textgreater{}`)
		case '\n':
			result.WriteString(`\\ `)
		case '\r':
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// escapeURL escapes only what breaks \url{} arguments.
func escapeURL(u string) string {
	r := strings.NewReplacer(`\`, `/`, `{`, `\{`, `}`, `\}`, `%`, `\%`, `#`, `\#`)
	return r.Replace(u)
}

// RenderLaTeX renders doc as an A4 LaTeX source with the built-in layout.
func RenderLaTeX(doc Document, t Template) (string, error) {
	tmpl, err := parseLaTeX("resume.tex", defaultLaTeXTemplate)
	if err != nil {
		return "", err
	}
	return executeLaTeX(tmpl, doc, t)
}

// RenderLaTeXFile renders doc with a LaTeX template read from templatePath.
func RenderLaTeXFile(doc Document, t Template, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return executeLaTeX(tmpl, doc, t)
}

func executeLaTeX(tmpl *template.Template, doc Document, t Template) (string, error) {
	data := latexData{
		Document:  doc,
		Primary:   strings.TrimPrefix(t.Colors.Primary, "#"),
		Secondary: strings.TrimPrefix(t.Colors.Secondary, "#"),
	}
	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// parseTemplate reads and parses a LaTeX template file
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	return parseLaTeX("resume", string(content))
}

func parseLaTeX(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
		"texurl": escapeURL,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}
