// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Output formats understood by the render command.
const (
	FormatHTML  = "html"
	FormatPrint = "print"
	FormatTeX   = "tex"
	FormatPDF   = "pdf"
	FormatAll   = "all"
)

// Formats lists the accepted values of the format option.
var Formats = []string{FormatHTML, FormatPrint, FormatTeX, FormatPDF, FormatAll}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Rendering
	Template      string `json:"template,omitempty"`       // Resume template ID (e.g. "toronto")
	Format        string `json:"format,omitempty"`         // html, print, tex, pdf or all
	OutputDir     string `json:"output_dir,omitempty"`     // Directory for rendered files
	LaTeXTemplate string `json:"latex_template,omitempty"` // Path to a custom LaTeX template
	ChromePath    string `json:"chrome_path,omitempty"`    // Chrome binary used for PDF export

	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Optional draft session backend

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands after merging with flags.
func (c *Config) Validate() error {
	if c.Format != "" && !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("config error: 'format' must be one of %v, got %q", Formats, c.Format)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.LaTeXTemplate != "" {
		if _, err := os.Stat(c.LaTeXTemplate); os.IsNotExist(err) {
			return fmt.Errorf("config error: latex template not found: %s", c.LaTeXTemplate)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Config file values act as defaults for CLI flags this way.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.LaTeXTemplate == "" {
		result.LaTeXTemplate = defaults.LaTeXTemplate
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bools cannot distinguish unset from false; flags always win.

	return result
}
