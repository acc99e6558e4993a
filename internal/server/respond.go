package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonathan/resume-builder/internal/wizard"
	"github.com/rs/zerolog/log"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error        string               `json:"error"`
	Message      string               `json:"message"`
	Fields       wizard.FieldErrors   `json:"fields,omitempty"`
	Notification *wizard.Notification `json:"notification,omitempty"`
	Redirect     string               `json:"redirect,omitempty"`
	Draft        any                  `json:"draft,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encoding JSON response")
	}
}

// writeError maps err to a status and writes it. Server faults are logged
// and their detail is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	body := errorBody{Error: errorCode(err), Message: err.Error()}
	var fe wizard.FieldErrors
	if errors.As(err, &fe) {
		body.Fields = fe
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		body.Message = "internal server error"
	}
	writeJSON(w, status, body)
}

// writeMessage writes an error response with an explicit status and code.
func writeMessage(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

const maxBodyBytes = 1 << 20

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty.
func decodeOptionalJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return decodeJSON(r, v)
}
