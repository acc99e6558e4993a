package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-0123456789"

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: testSecret, ExpirationHours: 24, Issuer: config.DefaultJWTIssuer}
}

func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: 10}
}

// fakeDB is an in-memory DBClient.
type fakeDB struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*db.User
	resumes map[uuid.UUID]*db.Resume
	pingErr error
	saveErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:   make(map[uuid.UUID]*db.User),
		resumes: make(map[uuid.UUID]*db.Resume),
	}
}

var _ DBClient = (*fakeDB)(nil)

func (f *fakeDB) Ping(context.Context) error { return f.pingErr }

func (f *fakeDB) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	u := &db.User{ID: uuid.New(), Name: name, Email: strings.ToLower(email), AccountTier: types.TierFree, CreatedAt: now, UpdatedAt: now}
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeDB) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := f.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeDB) CheckEmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	u, err := f.GetUserByEmail(ctx, email)
	return u != nil && u.ID != excludeID, err
}

func (f *fakeDB) UpdateUserProfile(_ context.Context, id uuid.UUID, name, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.Name, u.Email = name, strings.ToLower(email)
	return nil
}

func (f *fakeDB) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash, u.PasswordSet = hash, true
	return nil
}

func (f *fakeDB) setTier(id uuid.UUID, tier types.AccountTier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].AccountTier = tier
}

func (f *fakeDB) CreateResume(_ context.Context, in db.ResumeInput, quota int) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if quota >= 0 && f.countLocked(in.UserID) >= quota {
		return nil, db.ErrQuotaExceeded
	}
	now := time.Now()
	r := &db.Resume{
		ID: uuid.New(), UserID: in.UserID, Title: in.Title, TemplateID: in.TemplateID,
		Content: db.ResumeContent(in.Content), CreatedAt: now, UpdatedAt: now,
	}
	f.resumes[r.ID] = r
	return r, nil
}

func (f *fakeDB) GetResume(_ context.Context, id, userID uuid.UUID) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.resumes[id]; ok && r.UserID == userID {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (f *fakeDB) ListResumesByUser(_ context.Context, userID uuid.UUID) ([]db.ResumeSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.ResumeSummary
	for _, r := range f.resumes {
		if r.UserID == userID {
			out = append(out, db.ResumeSummary{ID: r.ID, Title: r.Title, TemplateID: r.TemplateID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
		}
	}
	slices.SortFunc(out, func(a, b db.ResumeSummary) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return out, nil
}

func (f *fakeDB) ListRecentResumes(ctx context.Context, userID uuid.UUID, n int) ([]db.ResumeSummary, error) {
	all, err := f.ListResumesByUser(ctx, userID)
	if len(all) > n {
		all = all[:n]
	}
	return all, err
}

func (f *fakeDB) CountResumesByUser(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countLocked(userID), nil
}

func (f *fakeDB) countLocked(userID uuid.UUID) int {
	n := 0
	for _, r := range f.resumes {
		if r.UserID == userID {
			n++
		}
	}
	return n
}

func (f *fakeDB) DeleteResume(_ context.Context, id, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.resumes[id]; ok && r.UserID == userID {
		delete(f.resumes, id)
		return true, nil
	}
	return false, nil
}

// stubPDF returns a fixed document, optionally blocking until release is closed.
type stubPDF struct {
	mu      sync.Mutex
	calls   int
	err     error
	started chan struct{}
	release chan struct{}
}

func (p *stubPDF) Render(ctx context.Context, html string) ([]byte, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-1.4 " + html[:min(len(html), 16)]), nil
}

// testEnv is a server wired to fakes.
type testEnv struct {
	t      *testing.T
	db     *fakeDB
	drafts *session.MemoryStore
	pdf    *stubPDF
	srv    *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		t:      t,
		db:     newFakeDB(),
		drafts: session.NewMemoryStore(session.DefaultTTL, time.Hour),
		pdf:    &stubPDF{},
	}
	env.srv = NewWithDeps(Deps{
		DB:        env.db,
		Drafts:    env.drafts,
		PDF:       env.pdf,
		JWT:       testJWTConfig(),
		Passwords: testPasswordConfig(),
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	t.Cleanup(env.srv.Close)
	return env
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

// register creates an account and returns its id and token.
func (e *testEnv) register(email string) (uuid.UUID, string) {
	e.t.Helper()
	w := e.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Jane Doe", "email": email, "password": "correct-horse-battery",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	var resp types.LoginResponse
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// completeFormData satisfies every gate and every field rule.
func completeFormData() map[string]any {
	return map[string]any{
		"title": "Backend Engineer",
		"personal_info": map[string]any{
			"full_name": "Jane Doe",
			"email":     "jane@example.com",
			"phone":     "+1 555 0100",
		},
		"professional_summary": map[string]any{
			"summary": "Engineer with ten years of experience building reliable distributed systems.",
		},
		"work_experiences": []map[string]any{{
			"company":     "Acme Corp",
			"position":    "Senior Engineer",
			"start_date":  "2018-03-01",
			"description": "Led the payments platform team through two migrations.",
		}},
		"educations": []map[string]any{{
			"institution":    "State University",
			"degree":         "BSc",
			"field_of_study": "Computer Science",
			"start_date":     "2010-09-01",
			"end_date":       "2014-06-01",
		}},
		"skills": []map[string]any{{"name": "Go", "level": "EXPERT"}},
	}
}
