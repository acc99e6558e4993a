package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/wizard"
	"github.com/rs/zerolog/log"
)

// draftResponse is returned by every draft endpoint that succeeds.
type draftResponse struct {
	Draft   wizard.Draft    `json:"draft"`
	View    wizard.View     `json:"view"`
	Outcome *wizard.Outcome `json:"outcome,omitempty"`
}

func newDraftResponse(d wizard.Draft) draftResponse {
	return draftResponse{Draft: d, View: wizard.Render(d)}
}

type selectTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

// caller resolves the authenticated user.
func (s *Server) caller(r *http.Request) (*types.User, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, &ErrInvalidCredentials{}
	}
	return s.userService.Get(r.Context(), userID)
}

func draftID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrDraftNotFound{DraftID: r.PathValue("id")}
	}
	return id, nil
}

// loadDraft returns the caller's draft. Foreign drafts look missing.
func (s *Server) loadDraft(r *http.Request, userID uuid.UUID) (wizard.Draft, error) {
	id, err := draftID(r)
	if err != nil {
		return wizard.Draft{}, err
	}
	d, err := s.drafts.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) || (err == nil && d.OwnerID != userID) {
		return wizard.Draft{}, &ErrDraftNotFound{DraftID: id.String()}
	}
	return d, err
}

// updateDraft runs fn against the caller's draft under the store's lock.
func (s *Server) updateDraft(r *http.Request, userID uuid.UUID, fn session.UpdateFunc) (wizard.Draft, error) {
	id, err := draftID(r)
	if err != nil {
		return wizard.Draft{}, err
	}
	d, err := s.drafts.Update(r.Context(), id, func(st *wizard.Store) error {
		if st.Draft().OwnerID != userID {
			return &ErrDraftNotFound{DraftID: id.String()}
		}
		return fn(st)
	})
	if errors.Is(err, session.ErrNotFound) {
		return wizard.Draft{}, &ErrDraftNotFound{DraftID: id.String()}
	}
	return d, err
}

// templateFor resolves a template the user's tier may use.
func templateFor(id string, tier types.AccountTier) (rendering.Template, error) {
	t, err := rendering.LookupTemplate(id)
	if err != nil {
		return rendering.Template{}, err
	}
	if !t.AvailableTo(tier) {
		return rendering.Template{}, &ErrTemplateLocked{TemplateID: id}
	}
	return t, nil
}

// draftTemplate resolves the template chosen for d.
func draftTemplate(d wizard.Draft, tier types.AccountTier) (rendering.Template, error) {
	if !d.HasTemplate() {
		return rendering.Template{}, &ErrNoTemplate{}
	}
	return templateFor(*d.TemplateID, tier)
}

// checkQuota refuses to start a resume the account could never save.
func (s *Server) checkQuota(ctx context.Context, user *types.User) error {
	quota := user.AccountTier.ResumeQuota()
	if quota < 0 {
		return nil
	}
	count, err := s.db.CountResumesByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to count resumes: %w", err)
	}
	if count >= quota {
		return &ErrQuotaExceeded{Quota: quota}
	}
	return nil
}

func (s *Server) handleStartDraft(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req selectTemplateRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.checkQuota(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}

	d := wizard.NewDraft(user.ID)
	if req.TemplateID != "" {
		if _, err := templateFor(req.TemplateID, user.AccountTier); err != nil {
			writeError(w, r, err)
			return
		}
		st := wizard.NewStore(d)
		st.SelectTemplate(req.TemplateID)
		d = st.Draft()
	}

	if err := s.drafts.Create(r.Context(), d); err != nil {
		writeError(w, r, fmt.Errorf("failed to create draft: %w", err))
		return
	}
	log.Info().Str("draft_id", d.ID.String()).Str("user_id", user.ID.String()).Msg("draft started")

	w.Header().Set("Location", "/drafts/"+d.ID.String())
	writeJSON(w, http.StatusCreated, newDraftResponse(d))
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	d, err := s.loadDraft(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(d))
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	d, err := s.loadDraft(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.drafts.Delete(r.Context(), d.ID); err != nil {
		writeError(w, r, fmt.Errorf("failed to discard draft: %w", err))
		return
	}
	log.Info().Str("draft_id", d.ID.String()).Msg("draft discarded")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req selectTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := templateFor(req.TemplateID, user.AccountTier); err != nil {
		writeError(w, r, err)
		return
	}

	d, err := s.updateDraft(r, user.ID, func(st *wizard.Store) error {
		st.SelectTemplate(req.TemplateID)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(d))
}

// handleStageFormData stages a partial update; ?commit=true commits it at once.
func (s *Server) handleStageFormData(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var patch types.FormDataPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	if patch.IsEmpty() {
		writeError(w, r, &ErrValidation{Field: "body", Message: "no form data categories given"})
		return
	}
	wizard.NormalizePatch(&patch)
	if err := wizard.ValidatePatch(patch); err != nil {
		writeError(w, r, err)
		return
	}

	commit, _ := strconv.ParseBool(r.URL.Query().Get("commit"))
	d, err := s.updateDraft(r, userID, func(st *wizard.Store) error {
		st.Stage(patch)
		if commit {
			st.Commit()
		}
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(d))
}

func (s *Server) handleCommitDraft(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	d, err := s.updateDraft(r, userID, func(st *wizard.Store) error {
		st.Commit()
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(d))
}

// navigate applies a navigator operation and answers with its outcome.
// Staged edits are committed even when the move is refused.
func (s *Server) navigate(w http.ResponseWriter, r *http.Request, op func(*wizard.Store) wizard.Outcome) {
	userID, _ := middleware.GetUserID(r)

	var outcome wizard.Outcome
	d, err := s.updateDraft(r, userID, func(st *wizard.Store) error {
		outcome = op(st)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOutcome(w, d, outcome, http.StatusOK)
}

// writeOutcome maps refused navigation to 422 (gate) or 409 (misuse).
func writeOutcome(w http.ResponseWriter, d wizard.Draft, o wizard.Outcome, okStatus int) {
	resp := newDraftResponse(d)
	switch {
	case o.Blocked():
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:        "step_incomplete",
			Message:      o.Notification.Message,
			Notification: o.Notification,
			Draft:        resp,
		})
	case o.Redirect != "":
		writeJSON(w, http.StatusConflict, errorBody{
			Error:    "redirect",
			Message:  "select a template first",
			Redirect: o.Redirect,
			Draft:    resp,
		})
	case o.Suppressed:
		writeJSON(w, http.StatusConflict, errorBody{
			Error:   "step_unavailable",
			Message: fmt.Sprintf("cannot move from step %d", int(d.Step)),
			Draft:   resp,
		})
	default:
		resp.Outcome = &o
		writeJSON(w, okStatus, resp)
	}
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, wizard.Next)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, wizard.Back)
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("step"))
	if err != nil {
		writeError(w, r, &ErrValidation{Field: "step", Message: "must be a number"})
		return
	}
	s.navigate(w, r, func(st *wizard.Store) wizard.Outcome {
		return wizard.Jump(st, wizard.StepID(n))
	})
}

func (s *Server) handleDraftView(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	d, err := s.loadDraft(r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wizard.Render(d))
}

// handleDraftPreview renders the live preview, staged edits included.
func (s *Server) handleDraftPreview(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.loadDraft(r, user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tmpl, err := draftTemplate(d, user.AccountTier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	variant, err := rendering.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		writeError(w, r, &ErrValidation{Field: "variant", Message: err.Error()})
		return
	}

	html, err := rendering.RenderHTML(rendering.Project(d.Effective()), tmpl, variant)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeHTML(w, html)
}

// exportSource loads the draft, its template and the document to export.
func (s *Server) exportSource(r *http.Request) (wizard.Draft, rendering.Template, rendering.Document, error) {
	user, err := s.caller(r)
	if err != nil {
		return wizard.Draft{}, rendering.Template{}, rendering.Document{}, err
	}
	d, err := s.loadDraft(r, user.ID)
	if err != nil {
		return wizard.Draft{}, rendering.Template{}, rendering.Document{}, err
	}
	tmpl, err := draftTemplate(d, user.AccountTier)
	if err != nil {
		return wizard.Draft{}, rendering.Template{}, rendering.Document{}, err
	}
	return d, tmpl, rendering.Project(d.Effective()), nil
}

// exportFailed answers a failed export with a notification. The draft is untouched.
func exportFailed(w http.ResponseWriter, d wizard.Draft, format string, err error) {
	log.Error().Err(err).Str("draft_id", d.ID.String()).Str("format", format).Msg("export failed")
	writeJSON(w, http.StatusBadGateway, errorBody{
		Error:   "export_failed",
		Message: "the resume could not be exported",
		Notification: &wizard.Notification{
			Title:   "Error",
			Message: exportFailureMessage(format),
			Variant: wizard.VariantDestructive,
		},
	})
}

func exportFailureMessage(format string) string {
	name := "PDF"
	if format == "tex" {
		name = "LaTeX"
	}
	return fmt.Sprintf("Failed to generate %s. Please try again.", name)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	d, tmpl, doc, err := s.exportSource(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	release, err := s.exports.acquire(d.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer release()

	html, err := rendering.RenderExportHTML(doc, tmpl)
	if err != nil {
		exportFailed(w, d, "pdf", err)
		return
	}
	pdf, err := s.pdf.Render(r.Context(), html)
	if err != nil {
		exportFailed(w, d, "pdf", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, exportFilename(doc.Title)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) handleExportLaTeX(w http.ResponseWriter, r *http.Request) {
	d, tmpl, doc, err := s.exportSource(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tex, err := rendering.RenderLaTeX(doc, tmpl)
	if err != nil {
		exportFailed(w, d, "tex", err)
		return
	}

	w.Header().Set("Content-Type", "application/x-tex; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.tex"`, exportFilename(doc.Title)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(tex))
}

// handleFinish saves the completed draft as a resume and discards the draft.
// A refused save leaves the draft in place.
func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var outcome wizard.Outcome
	d, err := s.updateDraft(r, user.ID, func(st *wizard.Store) error {
		outcome = wizard.Finish(st)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if outcome.Finished == nil {
		writeOutcome(w, d, outcome, http.StatusOK)
		return
	}

	if _, err := draftTemplate(d, user.AccountTier); err != nil {
		writeError(w, r, err)
		return
	}

	fd := *outcome.Finished
	resume, err := s.db.CreateResume(r.Context(), db.ResumeInput{
		UserID:     user.ID,
		Title:      resumeTitle(fd),
		TemplateID: *d.TemplateID,
		Content:    fd,
	}, user.AccountTier.ResumeQuota())
	if errors.Is(err, db.ErrQuotaExceeded) {
		writeError(w, r, &ErrQuotaExceeded{Quota: user.AccountTier.ResumeQuota()})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("draft_id", d.ID.String()).Msg("saving resume failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "save_failed",
			Message: "the resume could not be saved",
			Notification: &wizard.Notification{
				Title:   "Error",
				Message: "Failed to save resume. Please try again.",
				Variant: wizard.VariantDestructive,
			},
		})
		return
	}

	if err := s.drafts.Delete(r.Context(), d.ID); err != nil {
		log.Warn().Err(err).Str("draft_id", d.ID.String()).Msg("discarding finished draft")
	}
	log.Info().Str("resume_id", resume.ID.String()).Str("user_id", user.ID.String()).Msg("resume saved")

	w.Header().Set("Location", "/resumes/"+resume.ID.String())
	writeJSON(w, http.StatusCreated, resume)
}

// resumeTitle names a saved resume after its title or its owner.
func resumeTitle(fd types.FormData) string {
	if t := strings.TrimSpace(fd.Title); t != "" {
		return t
	}
	if fd.PersonalInfo != nil && strings.TrimSpace(fd.PersonalInfo.FullName) != "" {
		return strings.TrimSpace(fd.PersonalInfo.FullName) + " Resume"
	}
	return "Untitled Resume"
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// exportFilename turns a title into a download name without an extension.
func exportFilename(title string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if name == "" {
		return "resume"
	}
	return name
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
