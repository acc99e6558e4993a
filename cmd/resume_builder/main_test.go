package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_VerboseFromConfigFile(t *testing.T) {
	t.Cleanup(func() {
		configFile = ""
		verbose = false
		fileConfig = config.Config{}
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "json")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"verbose": true, "port": 9001}`), 0644))
	configFile = path

	require.NoError(t, setup())
	assert.True(t, verbose)
	assert.Equal(t, 9001, fileConfig.Port)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetup_InvalidConfigFile(t *testing.T) {
	t.Cleanup(func() { configFile = "" })

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format": "docx"}`), 0644))
	configFile = path

	assert.Error(t, setup())
}
