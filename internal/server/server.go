// Package server exposes the refine API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/abdulachik/refiner/internal/db"
	"github.com/abdulachik/refiner/internal/generator"
	"github.com/abdulachik/refiner/internal/prompt"
)

// Response messages. The refine failure message is fixed regardless of the
// configured provider.
const (
	HealthyMessage       = "API is Healthy"
	MissingFieldsMessage = "Missing required fields"
	RefineFailedMessage  = "Failed to refine with Gemini"
	TooLargeMessage      = "Request body too large"
)

// MaxBodyBytes bounds a request body.
const MaxBodyBytes = 100 << 10

// DefaultGenerateTimeout bounds a single model call when none is configured.
const DefaultGenerateTimeout = 60 * time.Second

// Recorder stores usage events. *db.Store satisfies it.
type Recorder interface {
	InsertRefinementEvent(ctx context.Context, e db.RefinementEvent) error
}

// Config holds the server's collaborators.
type Config struct {
	Generator       generator.Generator
	Recorder        Recorder // optional
	Health          *Health  // optional, created when nil
	GenerateTimeout time.Duration
}

// Server serves the refine API.
type Server struct {
	generator generator.Generator
	recorder  Recorder
	health    *Health
	timeout   time.Duration

	mux *http.ServeMux
	srv *http.Server
}

// New creates a server with its routes registered.
func New(cfg Config) *Server {
	s := &Server{
		generator: cfg.Generator,
		recorder:  cfg.Recorder,
		health:    cfg.Health,
		timeout:   cfg.GenerateTimeout,
		mux:       http.NewServeMux(),
	}
	if s.health == nil {
		s.health = NewHealth()
	}
	if s.timeout <= 0 {
		s.timeout = DefaultGenerateTimeout
	}
	s.routes()
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.timeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api", s.handleHealthy)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/refine", s.handleRefine)
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return requestID(logRequests(cors(s.mux)))
}

// Health returns the health tracker.
func (s *Server) Health() *Health {
	return s.health
}

// ListenAndServe serves on addr until Shutdown is called. It returns nil
// without serving if Shutdown already ran.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type refineRequest struct {
	Text        string `json:"text"`
	Type        string `json:"type"`
	Perspective string `json:"perspective"`
}

type refineResponse struct {
	Improved string `json:"improved"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealthy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: HealthyMessage})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report := s.health.Report()
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req refineRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: TooLargeMessage})
			return
		}
		s.record(ctx, req, db.OutcomeRejected, 0, start)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: MissingFieldsMessage})
		return
	}

	if req.Text == "" || req.Type == "" || req.Perspective == "" {
		s.record(ctx, req, db.OutcomeRejected, 0, start)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: MissingFieldsMessage})
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	improved, err := s.generator.Generate(genCtx, prompt.Build(req.Text, req.Type, req.Perspective))
	if err != nil {
		slog.ErrorContext(ctx, "model call failed",
			"provider", s.generator.Name(),
			"request_id", RequestIDFrom(ctx),
			"error", err,
		)
		s.health.SetUnhealthy(ComponentGenerator, err)
		s.record(ctx, req, db.OutcomeFailed, 0, start)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: RefineFailedMessage})
		return
	}

	s.health.SetHealthy(ComponentGenerator, "last refinement succeeded")
	s.record(ctx, req, db.OutcomeSuccess, len([]rune(improved)), start)
	writeJSON(w, http.StatusOK, refineResponse{Improved: improved})
}

// record stores a usage event. Statement text is never stored. Failures are
// logged and reflected in health, never surfaced to the caller.
func (s *Server) record(ctx context.Context, req refineRequest, outcome string, outputChars int, start time.Time) {
	if s.recorder == nil {
		return
	}

	event := db.RefinementEvent{
		ID:          uuid.NewString(),
		RequestID:   RequestIDFrom(ctx),
		FieldKind:   req.Type,
		Perspective: req.Perspective,
		Provider:    s.generator.Name(),
		Outcome:     outcome,
		InputChars:  int64(len([]rune(req.Text))),
		OutputChars: int64(outputChars),
		LatencyMs:   time.Since(start).Milliseconds(),
	}

	// The client may already be gone; the event should still land.
	if err := s.recorder.InsertRefinementEvent(context.WithoutCancel(ctx), event); err != nil {
		slog.WarnContext(ctx, "failed to record refinement event", "error", err)
		s.health.SetUnhealthy(ComponentStore, err)
		return
	}
	s.health.SetHealthy(ComponentStore, "recording events")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
