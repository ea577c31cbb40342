package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/internal/logging"
	"github.com/aretw0/colloquy/internal/presentation/graph"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/runner"
	"github.com/aretw0/colloquy/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the session API.
type Server struct {
	Engine   *colloquy.Engine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// StartRequest is the body of POST /sessions.
type StartRequest struct {
	Player         string `json:"player"`
	ConversationID string `json:"conversation_id"`
}

// ChoiceRequest is the body of POST /sessions/{id}/choices.
type ChoiceRequest struct {
	Index int `json:"index"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	// Status is set when the error reflects an execution state, such as expired.
	Status domain.ExecutionStatus `json:"status,omitempty"`
}

// NewServer creates a Server over an engine and a session manager.
func NewServer(engine *colloquy.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}
	return s
}

// NewHandler creates the HTTP handler for the session API.
func NewHandler(engine *colloquy.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", s.ListConversations)
		r.Get("/{id}/graph", s.GetGraph)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.StartSession)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.AbandonSession)
		r.Post("/{id}/choices", s.Choose)
		r.Get("/{id}/events", s.SubscribeEvents)
	})

	if s.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}
	switch {
	case errors.Is(err, domain.ErrSuspensionExpired):
		status = http.StatusGone
		resp.Status = domain.StatusExpired
	case errors.Is(err, domain.ErrSuspensionNotFound),
		errors.Is(err, domain.ErrConversationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotSuspended),
		errors.Is(err, domain.ErrAbandoned):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.Logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		s.Logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "colloquy-http",
		"version": strings.TrimSpace(colloquy.Version),
	})
}

// ListConversations handles GET /conversations.
func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Conversations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"conversations": ids})
}

// GetGraph handles GET /conversations/{id}/graph. With ?execution=, the
// stored progress of that execution is overlaid.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	conv, err := s.Engine.Conversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var overlay *graph.Overlay
	if execID := r.URL.Query().Get("execution"); execID != "" {
		st, err := s.Sessions.Get(r.Context(), execID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if st.ConversationID != conv.ID {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("execution %s runs %s, not %s", execID, st.ConversationID, conv.ID),
			})
			return
		}
		overlay = &graph.Overlay{Visited: st.History, Current: st.NodeID}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, graph.GenerateMermaid(conv, s.Engine.Catalog(), overlay))
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !s.decode(w, r, &body) {
		return
	}
	player, err := runner.SanitizeInput(strings.TrimSpace(body.Player))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if player == "" || body.ConversationID == "" {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "player and conversation_id are required"})
		return
	}

	st, err := s.Sessions.Start(r.Context(), player, body.ConversationID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Logger.Info("session started", "execution_id", st.ExecutionID, "player", player, "conversation_id", st.ConversationID)
	s.writeJSON(w, http.StatusCreated, st)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// Choose handles POST /sessions/{id}/choices.
func (s *Server) Choose(w http.ResponseWriter, r *http.Request) {
	var body ChoiceRequest
	if !s.decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "id")
	st, err := s.Sessions.Choose(r.Context(), id, body.Index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if payload, err := json.Marshal(st); err == nil {
		s.Streams.Broadcast(id, string(payload))
	}
	if st.Status != domain.StatusSuspended {
		s.Streams.Close(id)
	}
	s.writeJSON(w, http.StatusOK, st)
}

// AbandonSession handles DELETE /sessions/{id}.
func (s *Server) AbandonSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Abandon(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}
