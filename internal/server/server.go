package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          DBClient
	drafts      session.DraftStore
	pdf         PDFExporter
	exports     *exportGuard
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	handler     http.Handler
	closers     []func()
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
}

// Deps are the collaborators of a Server. Tests build them by hand.
type Deps struct {
	DB        DBClient
	Drafts    session.DraftStore
	PDF       PDFExporter
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	RateLimit *ratelimit.Config
}

// New connects to the database and the draft store and creates a server
// configured from the environment.
func New(ctx context.Context, cfg Config) (*Server, error) {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	sessionConfig, err := config.NewSessionConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create session config: %w", err)
	}
	exportConfig, err := config.NewExportConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create export config: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	drafts, err := openDraftStore(ctx, sessionConfig)
	if err != nil {
		database.Close()
		return nil, err
	}

	if !rendering.ChromeAvailable(exportConfig.ChromePath) {
		log.Warn().Msg("no Chrome binary found; PDF export will fail until one is installed")
	}

	s := NewWithDeps(Deps{
		DB:        database,
		Drafts:    drafts,
		PDF:       rendering.NewPDFRenderer(exportConfig.PDFOptions()),
		JWT:       jwtConfig,
		Passwords: passwordConfig,
		RateLimit: ratelimit.LoadConfig(),
	})
	s.closers = append(s.closers, database.Close)

	s.httpServer = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: exportConfig.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func openDraftStore(ctx context.Context, cfg *config.SessionConfig) (session.DraftStore, error) {
	if !cfg.UseRedis() {
		log.Info().Dur("ttl", cfg.TTL).Msg("keeping drafts in memory")
		return session.NewMemoryStore(cfg.TTL, cfg.CleanupInterval), nil
	}
	client, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info().Dur("ttl", cfg.TTL).Msg("keeping drafts in redis")
	return session.NewRedisStore(client, cfg.TTL), nil
}

// NewWithDeps creates a server around existing collaborators and wires its routes.
func NewWithDeps(deps Deps) *Server {
	s := &Server{
		db:          deps.DB,
		drafts:      deps.Drafts,
		pdf:         deps.PDF,
		exports:     newExportGuard(),
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		jwtService:  NewJWTService(deps.JWT),
		userService: NewUserService(deps.DB, deps.Passwords),
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	// Public
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	// Account
	protect("GET /me", s.handleGetMe)
	protect("PUT /me", s.handleUpdateMe)
	protect("PUT /me/password", s.handleUpdatePassword)
	protect("PUT /auth/password", s.handleUpdatePassword)
	protect("GET /dashboard", s.handleDashboard)
	protect("GET /templates", s.handleListTemplates)

	// Wizard drafts
	protect("POST /drafts", s.handleStartDraft)
	protect("GET /drafts/{id}", s.handleGetDraft)
	protect("DELETE /drafts/{id}", s.handleDiscardDraft)
	protect("PUT /drafts/{id}/template", s.handleSelectTemplate)
	protect("PATCH /drafts/{id}/form-data", s.handleStageFormData)
	protect("POST /drafts/{id}/commit", s.handleCommitDraft)
	protect("POST /drafts/{id}/next", s.handleNext)
	protect("POST /drafts/{id}/back", s.handleBack)
	protect("POST /drafts/{id}/steps/{step}", s.handleJump)
	protect("GET /drafts/{id}/view", s.handleDraftView)
	protect("GET /drafts/{id}/preview", s.handleDraftPreview)
	protect("GET /drafts/{id}/export.pdf", s.handleExportPDF)
	protect("GET /drafts/{id}/export.tex", s.handleExportLaTeX)
	protect("POST /drafts/{id}/finish", s.handleFinish)

	// Saved resumes
	protect("GET /resumes", s.handleListResumes)
	protect("GET /resumes/{id}", s.handleGetResume)
	protect("GET /resumes/{id}/preview", s.handleResumePreview)
	protect("DELETE /resumes/{id}", s.handleDeleteResume)

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Info().Msg("server stopped")
	return nil
}

// Close releases the rate limiter, the draft store and the database.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.drafts != nil {
		if err := s.drafts.Close(); err != nil {
			log.Warn().Err(err).Msg("closing draft store")
		}
	}
	for _, c := range s.closers {
		c()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds structured request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		event := log.Info()
		if rec.status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Str("remote", clientID(r)).
			Msg("request")
	})
}

// handleHealth reports whether the database is reachable
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("health check: database unreachable")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientID uses the IP address from RemoteAddr.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	log.Warn().
		Str("client", clientID(r)).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Msg("rate limit exceeded")

	writeJSON(w, http.StatusTooManyRequests, response)
}
