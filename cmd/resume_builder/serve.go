package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the resume wizard, saved resumes and exports.

Requires DATABASE_URL and JWT_SECRET. Drafts are kept in memory unless REDIS_URL is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := serverConfig()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	srv, err := server.New(commandContext(cmd), cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// serverConfig resolves flags, then environment, then the config file.
func serverConfig() server.Config {
	cfg := config.Config{
		Port:        servePort,
		DatabaseURL: config.EnvString("DATABASE_URL", ""),
	}
	if cfg.Port == 0 {
		cfg.Port = config.EnvInt("PORT", 0)
	}
	cfg = cfg.MergeWithDefaults(fileConfig)
	cfg = cfg.MergeWithDefaults(config.Config{Port: 8080})
	return server.Config{Port: cfg.Port, DatabaseURL: cfg.DatabaseURL}
}

// commandContext returns the command context, or a background context in tests.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
