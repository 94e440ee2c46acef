package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/carelight/triage/access"
	"github.com/carelight/triage/config"
	"github.com/carelight/triage/generate"
	"github.com/carelight/triage/guidance"
	"github.com/carelight/triage/internal/logger"
	"github.com/carelight/triage/sanitize"
	"github.com/carelight/triage/triage"
)

type Server struct {
	cfg          config.Config
	registry     *triage.Registry
	previews     access.PreviewStore
	orchestrator *generate.Orchestrator
	gateCache    *access.Cache
	db           *sql.DB // nil unless the postgres preview backend is active
	router       *chi.Mux
}

func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	registry, err := triage.NewBuiltinRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build template registry: %w", err)
	}
	logger.Info("templates loaded", "count", len(registry.List()))

	s := &Server{
		cfg:       cfg,
		registry:  registry,
		gateCache: access.NewCache(time.Duration(cfg.CacheTTLSecs) * time.Second),
	}

	switch cfg.PreviewBackend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		s.db = db
		s.previews = access.NewPostgresPreviewStore(db)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		s.previews = access.NewRedisPreviewStore(client)
	default:
		s.previews = access.NewInMemoryPreviewStore()
	}
	logger.Info("preview store ready", "backend", cfg.PreviewBackend)

	client, err := generate.NewClientFromEnv(ctx)
	if err != nil {
		if !errors.Is(err, generate.ErrDisabled) {
			return nil, fmt.Errorf("failed to build generation client: %w", err)
		}
		logger.Warn("generation client disabled, all guidance will use the fallback")
		client = nil
	}
	s.orchestrator = generate.NewOrchestrator(client, cfg.GenTimeout)

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/api/v1/health", s.handleHealth)

	// Templates
	r.Get("/api/v1/templates", s.handleListTemplates)
	r.Get("/api/v1/templates/{templateId}", s.handleGetTemplate)

	// Triage
	r.Post("/api/v1/triage/evaluate", s.handleEvaluate)
	r.Post("/api/v1/triage/guidance", s.handleGuidance)
	r.Get("/api/v1/triage/guidance/schema", s.handleGuidanceSchema)

	// PHI scanning
	r.Post("/api/v1/sanitize/scan", s.handleScan)

	// Access gate and free-preview flags
	r.Post("/api/v1/access", s.handleAccess)
	r.Route("/api/v1/preview/{userId}", func(r chi.Router) {
		r.Get("/", s.handleGetPreview)
		r.Put("/", s.handleSetPreview)
		r.Delete("/", s.handleClearPreview)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"templatesLoaded": len(s.registry.List()),
		"counters": map[string]int64{
			"errors":                logger.TotalErrors.Load(),
			"warnings":              logger.TotalWarnings.Load(),
			"predicateFailures":     logger.PredicateFailures.Load(),
			"fallbackSubstitutions": logger.FallbackSubstitutions.Load(),
			"slowGenerations":       logger.SlowGenerations.Load(),
		},
	})
}

// List templates handler
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	type summary struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Questions int    `json:"questions"`
		RedFlags  int    `json:"redFlags"`
	}

	templates := s.registry.List()
	out := make([]summary, 0, len(templates))
	for _, t := range templates {
		out = append(out, summary{
			ID:        t.ID,
			Name:      t.Name,
			Questions: len(t.Questions),
			RedFlags:  len(t.RedFlags),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"templates": out,
	})
}

// Get template handler
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateId")

	t, err := s.registry.Get(templateID)
	if err != nil {
		respondError(w, http.StatusNotFound, "template not found", err)
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// Evaluation handler
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.TemplateID == "" {
		respondError(w, http.StatusBadRequest, "templateId is required", nil)
		return
	}

	t, err := s.registry.Get(req.TemplateID)
	if err != nil {
		respondError(w, http.StatusNotFound, "template not found", err)
		return
	}

	pruned := triage.PruneHiddenAnswers(t, req.Answers)
	resp := EvaluateResponse{
		TemplateID:       t.ID,
		VisibleQuestions: triage.VisibleQuestions(t, pruned),
		PrunedAnswers:    pruned,
		Evaluation:       s.registry.Evaluate(t, pruned),
	}

	respondJSON(w, http.StatusOK, resp)
}

// Guidance handler
func (s *Server) handleGuidance(w http.ResponseWriter, r *http.Request) {
	var req GuidanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.TemplateID == "" {
		respondError(w, http.StatusBadRequest, "templateId is required", nil)
		return
	}

	t, err := s.registry.Get(req.TemplateID)
	if err != nil {
		respondError(w, http.StatusNotFound, "template not found", err)
		return
	}

	state, err := s.gateState(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve access state", err)
		return
	}

	if !state.Allowed() {
		respondJSON(w, http.StatusForbidden, BlockedResponse{
			AccessState: state,
			CTALabel:    access.BlockedPrompt(state),
			Error:       "guidance generation is not available for this account",
		})
		return
	}

	pruned := triage.PruneHiddenAnswers(t, req.Answers)
	evaluation := s.registry.Evaluate(t, pruned)

	redFlags := req.RedFlags
	if redFlags == nil {
		redFlags = evaluation.Descriptions()
	}

	plan, err := guidance.BuildGuidance(t, pruned, req.Role, req.Goal, redFlags)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build guidance plan", err)
		return
	}

	result := s.orchestrator.Generate(r.Context(), plan)

	// An unspent free preview is consumed by a completed generation, never
	// by a blocked or failed request.
	if state == access.StateFreeEligible {
		key := access.PreviewKey(req.UserID)
		if err := s.previews.Set(r.Context(), key, true); err != nil {
			logger.Error("failed to mark free preview used", "key", key, "error", err)
		}
		s.gateCache.Invalidate(key)
	}

	respondJSON(w, http.StatusOK, GuidanceResponse{
		SessionID:   uuid.New().String(),
		TemplateID:  t.ID,
		Result:      result,
		Evaluation:  evaluation,
		AccessState: state,
	})
}

// gateState derives the access state for a guidance request. Caller-supplied
// facts win; otherwise the stored preview flag decides, cached per key so
// repeated requests in the same window skip the store round trip.
func (s *Server) gateState(ctx context.Context, req GuidanceRequest) (access.State, error) {
	if req.Access != nil {
		return access.DetermineFacts(*req.Access), nil
	}

	key := access.PreviewKey(req.UserID)
	if state, ok := s.gateCache.Get(key); ok {
		return state, nil
	}

	used, err := s.previews.Get(ctx, key)
	if err != nil {
		return "", err
	}
	state := access.Determine(false, used, req.UserID != "")
	s.gateCache.Set(key, state)
	return state, nil
}

// Guidance schema handler. Serves the JSON Schema generated content must
// satisfy, so clients can validate or render against the same contract.
func (s *Server) handleGuidanceSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := guidance.OutputSchema()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build output schema", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(schema.JSON())
}

// Scan handler. Detect-only: the text is inspected, never stored or altered.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	respondJSON(w, http.StatusOK, ScanResponse{
		Report: sanitize.Scan(req.Text),
	})
}

// Access gate handler
func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request) {
	var req AccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	state := access.DetermineFacts(req.Facts)

	cta := req.CTA
	cta.IsSubscriber = req.Facts.IsSubscriber
	cta.FreePreviewUsed = req.Facts.FreePreviewUsed

	respondJSON(w, http.StatusOK, AccessResponse{
		State:    state,
		Allowed:  state.Allowed(),
		CTALabel: access.CTALabel(cta),
	})
}

// Get preview flag handler
func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	key := access.PreviewKey(chi.URLParam(r, "userId"))

	used, err := s.previews.Get(r.Context(), key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read preview flag", err)
		return
	}

	respondJSON(w, http.StatusOK, PreviewResponse{Key: key, Used: used})
}

// Set preview flag handler
func (s *Server) handleSetPreview(w http.ResponseWriter, r *http.Request) {
	key := access.PreviewKey(chi.URLParam(r, "userId"))

	if err := s.previews.Set(r.Context(), key, true); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to set preview flag", err)
		return
	}
	s.gateCache.Invalidate(key)

	respondJSON(w, http.StatusOK, PreviewResponse{Key: key, Used: true})
}

// Clear preview flag handler
func (s *Server) handleClearPreview(w http.ResponseWriter, r *http.Request) {
	key := access.PreviewKey(chi.URLParam(r, "userId"))

	if err := s.previews.Clear(r.Context(), key); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear preview flag", err)
		return
	}
	s.gateCache.Invalidate(key)

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	server, err := NewServer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}
	if server.db != nil {
		defer server.db.Close()
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := logger.Shutdown(shutdownCtx); err != nil {
		logger.Error("logger shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
