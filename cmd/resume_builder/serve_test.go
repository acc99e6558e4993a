package main

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestServerConfig(t *testing.T) {
	t.Cleanup(func() {
		servePort = 0
		fileConfig = config.Config{}
	})

	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	cfg := serverConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)

	fileConfig = config.Config{Port: 9000, DatabaseURL: "postgres://file/db"}
	cfg = serverConfig()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)

	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "9100")
	cfg = serverConfig()
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)

	servePort = 9200
	assert.Equal(t, 9200, serverConfig().Port)
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	assert.Error(t, migrateCmd.Args(migrateCmd, []string{"sideways"}))
	assert.Error(t, migrateCmd.Args(migrateCmd, nil))
	assert.NoError(t, migrateCmd.Args(migrateCmd, []string{"status"}))
}
