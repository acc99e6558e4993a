package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeContent_RoundTrip(t *testing.T) {
	fd := types.NewFormData()
	fd.Title = "Backend"
	fd.PersonalInfo = &types.PersonalInfo{FullName: "John Doe", Email: "john@x.com"}
	fd.WorkExperiences = []types.WorkExperience{{
		Company:     "Acme",
		Position:    "Engineer",
		StartDate:   types.NewDate(2020, time.January, 1),
		Description: "Built the billing pipeline end to end.",
	}}

	value, err := ResumeContent(fd).Value()
	require.NoError(t, err)
	raw, ok := value.([]byte)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"start_date":"2020-01-01"`)

	var scanned ResumeContent
	require.NoError(t, scanned.Scan(raw))
	got := scanned.FormData()
	assert.Equal(t, "Backend", got.Title)
	assert.Equal(t, "John Doe", got.PersonalInfo.FullName)
	require.Len(t, got.WorkExperiences, 1)
	assert.True(t, got.WorkExperiences[0].StartDate.Equal(fd.WorkExperiences[0].StartDate.Time))

	require.NoError(t, scanned.Scan(string(raw)))
	assert.Equal(t, "Backend", scanned.FormData().Title)
}

func TestResumeContent_ScanNilAndBadInput(t *testing.T) {
	var c ResumeContent
	require.NoError(t, c.Scan(nil))
	assert.NotNil(t, c.FormData().Skills)

	assert.Error(t, c.Scan(42))
	assert.Error(t, c.Scan([]byte("{not json")))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		content, err := fs.ReadFile(migrationsFS, "migrations/"+e.Name())
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(content), "-- +goose Up"), e.Name())
		assert.True(t, strings.Contains(string(content), "-- +goose Down"), e.Name())
	}
}

func TestMigrate_RejectsUnknownCommand(t *testing.T) {
	err := (&DB{}).Migrate(context.Background(), "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migrate command")
}
