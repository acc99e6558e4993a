// Package schemas validates draft files against the embedded JSON Schemas.
package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
	schemafiles "github.com/jonathan/resume-builder/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// DraftFile is the on-disk form of a draft read by the CLI.
type DraftFile struct {
	TemplateID string         `json:"template_id,omitempty"`
	FormData   types.FormData `json:"form_data"`
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	return validate(
		schemaAbsPath,
		gojsonschema.NewReferenceLoader("file://"+schemaAbsPath),
		gojsonschema.NewReferenceLoader("file://"+jsonAbsPath),
	)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate(
		"(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
}

// ValidateDraft validates raw draft file content against the embedded draft schema.
func ValidateDraft(data []byte) error {
	schema, err := schemafiles.FS.ReadFile(schemafiles.DraftSchema)
	if err != nil {
		return &SchemaLoadError{Path: schemafiles.DraftSchema, Message: "schema not embedded", Cause: err}
	}
	return validate(
		schemafiles.DraftSchema,
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
}

// LoadDraftFile reads a draft file, checks it against the draft schema and decodes it.
func LoadDraftFile(path string) (*DraftFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file %s: %w", path, err)
	}
	return ParseDraft(data)
}

// ParseDraft validates and decodes draft file content.
func ParseDraft(data []byte) (*DraftFile, error) {
	if err := ValidateDraft(data); err != nil {
		return nil, err
	}

	draft := DraftFile{FormData: types.NewFormData()}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	draft.FormData = withSequences(draft.FormData)
	return &draft, nil
}

// withSequences replaces sequences decoded from null with empty ones.
func withSequences(fd types.FormData) types.FormData {
	empty := types.NewFormData()
	if fd.WorkExperiences == nil {
		fd.WorkExperiences = empty.WorkExperiences
	}
	if fd.Educations == nil {
		fd.Educations = empty.Educations
	}
	if fd.Skills == nil {
		fd.Skills = empty.Skills
	}
	if fd.Languages == nil {
		fd.Languages = empty.Languages
	}
	if fd.Projects == nil {
		fd.Projects = empty.Projects
	}
	if fd.Certifications == nil {
		fd.Certifications = empty.Certifications
	}
	return fd
}

func validate(schemaName string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
