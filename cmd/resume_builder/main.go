// Package main provides the resume_builder CLI: the wizard HTTP API server,
// database migrations and offline validation and rendering of draft files.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool

	// fileConfig holds values from --config; flags left at their zero value fall back to it.
	fileConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Resume Builder wizard API and tools",
	Long:  "Resume Builder guides users through a step-by-step resume wizard and renders finished resumes as HTML, LaTeX and PDF.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setup()
	},
}

// setup loads --config before logging is configured so "verbose" in the
// file takes effect.
func setup() error {
	if configFile != "" {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		fileConfig = *cfg
		verbose = verbose || cfg.Verbose
	}

	logConfig, err := config.NewLogConfig()
	if err != nil {
		return err
	}
	if verbose {
		logConfig.Level = min(logConfig.Level, zerolog.DebugLevel)
	}
	observability.Setup(*logConfig)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
