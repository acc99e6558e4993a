package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
)

// recentResumeCount is how many resumes the dashboard lists.
const recentResumeCount = 3

// DashboardResponse summarises the caller's account.
type DashboardResponse struct {
	User        *types.User `json:"user"`
	ResumeCount int         `json:"resume_count"`
	// Quota is -1 for unmetered accounts.
	Quota     int                `json:"quota"`
	CanCreate bool               `json:"can_create"`
	Recent    []db.ResumeSummary `json:"recent"`
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, r, &ErrInvalidCredentials{})
		return
	}

	var req types.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, extractValidationErrors(err))
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, r, &ErrInvalidCredentials{})
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	count, err := s.db.CountResumesByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to count resumes: %w", err))
		return
	}
	recent, err := s.db.ListRecentResumes(r.Context(), user.ID, recentResumeCount)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to list recent resumes: %w", err))
		return
	}
	if recent == nil {
		recent = []db.ResumeSummary{}
	}

	quota := user.AccountTier.ResumeQuota()
	writeJSON(w, http.StatusOK, DashboardResponse{
		User:        user,
		ResumeCount: count,
		Quota:       quota,
		CanCreate:   quota < 0 || count < quota,
		Recent:      recent,
	})
}
