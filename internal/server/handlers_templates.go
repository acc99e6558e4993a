package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// TemplateInfo describes a template to the template picker.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FreeTier    bool   `json:"free_tier"`
	// Locked is true when the caller's tier cannot use the template.
	Locked bool `json:"locked"`
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	templates := rendering.Templates()
	infos := make([]TemplateInfo, 0, len(templates))
	for _, t := range templates {
		infos = append(infos, TemplateInfo{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			FreeTier:    t.FreeTier,
			Locked:      !t.AvailableTo(user.AccountTier),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": infos})
}
