// Package rendering projects resume form data into documents and renders
// them as screen HTML, print HTML, LaTeX and PDF.
package rendering

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTemplate is the cause of a TemplateError for an unregistered template ID.
var ErrUnknownTemplate = errors.New("unknown template")

// TemplateError represents an error resolving, parsing or executing a template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ParityError reports that the screen and print renderings disagree on
// which sections they contain or in what order.
type ParityError struct {
	Screen []string
	Print  []string
}

func (e *ParityError) Error() string {
	return fmt.Sprintf("parity error: screen sections [%s] differ from print sections [%s]",
		strings.Join(e.Screen, ","), strings.Join(e.Print, ","))
}
