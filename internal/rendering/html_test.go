package rendering

import (
	"errors"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toronto(t *testing.T) Template {
	t.Helper()
	tmpl, err := LookupTemplate("toronto")
	require.NoError(t, err)
	return tmpl
}

func TestRenderHTML_OmitsEmptySectionsInBothRepresentations(t *testing.T) {
	doc := Project(sampleFormData())

	screen, err := RenderHTML(doc, toronto(t), VariantFull)
	require.NoError(t, err)
	printed, err := RenderPrintHTML(doc, toronto(t))
	require.NoError(t, err)

	want := []string{"header", "summary", "experience", "education", "skills", "languages"}
	for _, html := range []string{screen, printed} {
		got, err := SectionSequence(html)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotContains(t, html, `data-section="projects"`)
		assert.NotContains(t, html, `data-section="certifications"`)
	}
}

func TestRenderHTML_EscapesUserContent(t *testing.T) {
	fd := sampleFormData()
	fd.PersonalInfo.FullName = `<script>alert("x")</script>`
	fd.PersonalInfo.Website = "javascript:alert(1)"

	screen, err := RenderHTML(Project(fd), toronto(t), VariantFull)
	require.NoError(t, err)
	assert.NotContains(t, screen, "<script>")
	assert.NotContains(t, screen, `href="javascript:`)
	assert.Contains(t, screen, "Acme &amp; Sons")
}

func TestRenderHTML_Variants(t *testing.T) {
	doc := Project(sampleFormData())

	full, err := RenderHTML(doc, toronto(t), VariantFull)
	require.NoError(t, err)
	assert.NotContains(t, full, "scale(")
	assert.Contains(t, full, "#3B82F6")
	assert.Contains(t, full, "2.25rem")

	preview, err := RenderHTML(doc, toronto(t), VariantPreview)
	require.NoError(t, err)
	assert.Contains(t, preview, "transform: scale(0.75)")
	assert.Contains(t, preview, "resume--preview")

	_, err = RenderHTML(doc, toronto(t), Variant("poster"))
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantFull, v)

	v, err = ParseVariant("preview")
	require.NoError(t, err)
	assert.Equal(t, VariantPreview, v)

	_, err = ParseVariant("tiny")
	assert.Error(t, err)
}

func TestRenderPrintHTML_PageGeometry(t *testing.T) {
	printed, err := RenderPrintHTML(Project(sampleFormData()), toronto(t))
	require.NoError(t, err)
	assert.Contains(t, printed, "size: A4")
	assert.Contains(t, printed, "width: 210mm")
	assert.Contains(t, printed, "padding: 30px")
	assert.Contains(t, printed, "Helvetica")
}

func TestRenderExportHTML(t *testing.T) {
	fd := sampleFormData()
	fd.Projects = []types.Project{{Name: "Site", Description: "Personal website built in Go."}}

	out, err := RenderExportHTML(Project(fd), toronto(t))
	require.NoError(t, err)
	assert.Contains(t, out, `data-section="projects"`)
}

func TestVerifyParity(t *testing.T) {
	screen := `<main><header data-section="header"></header><section data-section="skills"></section></main>`

	assert.NoError(t, VerifyParity(screen, `<div><div data-section="header"></div><div data-section="skills"></div></div>`))

	err := VerifyParity(screen, `<div><div data-section="skills"></div><div data-section="header"></div></div>`)
	var parityErr *ParityError
	require.True(t, errors.As(err, &parityErr))
	assert.Equal(t, []string{"header", "skills"}, parityErr.Screen)
	assert.Equal(t, []string{"skills", "header"}, parityErr.Print)

	assert.Error(t, VerifyParity(screen, `<div data-section="header"></div>`))
}
