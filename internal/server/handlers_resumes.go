package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/rs/zerolog/log"
)

// ResumeListResponse wraps the caller's saved resumes.
type ResumeListResponse struct {
	Resumes []db.ResumeSummary `json:"resumes"`
	Count   int                `json:"count"`
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	resumes, err := s.db.ListResumesByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to list resumes: %w", err))
		return
	}
	if resumes == nil {
		resumes = []db.ResumeSummary{}
	}
	writeJSON(w, http.StatusOK, ResumeListResponse{Resumes: resumes, Count: len(resumes)})
}

// loadResume fetches the caller's resume named by the {id} path value.
func (s *Server) loadResume(r *http.Request, userID uuid.UUID) (*db.Resume, error) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, &ErrResumeNotFound{ResumeID: idStr}
	}
	resume, err := s.db.GetResume(r.Context(), id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if resume == nil {
		return nil, &ErrResumeNotFound{ResumeID: idStr}
	}
	return resume, nil
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	resume, err := s.loadResume(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

// handleResumePreview renders a saved resume with the template it was saved with.
func (s *Server) handleResumePreview(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	resume, err := s.loadResume(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tmpl, err := rendering.LookupTemplate(resume.TemplateID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc := rendering.Project(resume.Content.FormData())
	if doc.Title == "" {
		doc.Title = resume.Title
	}
	html, err := rendering.RenderHTML(doc, tmpl, rendering.VariantFull)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeHTML(w, html)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, r, &ErrResumeNotFound{ResumeID: idStr})
		return
	}

	deleted, err := s.db.DeleteResume(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to delete resume: %w", err))
		return
	}
	if !deleted {
		writeError(w, r, &ErrResumeNotFound{ResumeID: idStr})
		return
	}
	log.Info().Str("resume_id", idStr).Str("user_id", userID.String()).Msg("resume deleted")
	w.WriteHeader(http.StatusNoContent)
}
