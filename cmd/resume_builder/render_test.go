package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRenderFlags(t *testing.T, format, outDir string) {
	t.Helper()
	renderDraftFile = filepath.Join("testdata", "complete.json")
	renderTemplateID = ""
	renderFormat = format
	renderOutputDir = outDir
	renderLaTeXTemplate = ""
	renderChromePath = ""
}

func TestRender_HTML(t *testing.T) {
	cmd, out := testCommand(t)
	dir := t.TempDir()
	setRenderFlags(t, config.FormatHTML, dir)

	require.NoError(t, runRender(cmd, nil))

	data, err := os.ReadFile(filepath.Join(dir, "complete.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Jane Doe")
	assert.Contains(t, out.String(), "Wrote 1 file(s)")
}

func TestRender_PrintAndTeX(t *testing.T) {
	dir := t.TempDir()

	cmd, _ := testCommand(t)
	setRenderFlags(t, config.FormatPrint, dir)
	require.NoError(t, runRender(cmd, nil))
	assert.FileExists(t, filepath.Join(dir, "complete.print.html"))

	cmd, _ = testCommand(t)
	setRenderFlags(t, config.FormatTeX, dir)
	require.NoError(t, runRender(cmd, nil))
	tex, err := os.ReadFile(filepath.Join(dir, "complete.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(tex), `\documentclass`)
	assert.Contains(t, string(tex), "Jane Doe")
}

func TestRender_CustomLaTeXTemplate(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "mine.tex")
	require.NoError(t, os.WriteFile(tmpl, []byte(`\section*{ {{- .Title | escape -}} }`), 0o644))

	cmd, _ := testCommand(t)
	setRenderFlags(t, config.FormatTeX, dir)
	renderLaTeXTemplate = tmpl
	require.NoError(t, runRender(cmd, nil))

	tex, err := os.ReadFile(filepath.Join(dir, "complete.tex"))
	require.NoError(t, err)
	assert.Equal(t, `\section*{Backend Engineer}`, string(tex))
}

func TestRender_UnknownTemplate(t *testing.T) {
	cmd, _ := testCommand(t)
	setRenderFlags(t, config.FormatHTML, t.TempDir())
	renderTemplateID = "paris"

	assert.Error(t, runRender(cmd, nil))
}

func TestRender_UnknownFormat(t *testing.T) {
	cmd, _ := testCommand(t)
	setRenderFlags(t, "docx", t.TempDir())

	err := runRender(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestRender_ConfigFileDefaults(t *testing.T) {
	cmd, _ := testCommand(t)
	dir := t.TempDir()
	setRenderFlags(t, "", "")
	fileConfig = config.Config{Format: config.FormatTeX, OutputDir: dir}

	require.NoError(t, runRender(cmd, nil))
	assert.FileExists(t, filepath.Join(dir, "complete.tex"))
}
