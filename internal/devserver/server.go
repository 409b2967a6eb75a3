// Package devserver is an in-memory implementation of the /todos REST API
// for local development and tests.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"todo/internal/diag"
	"todo/internal/observability"
)

var errEmptyBody = errors.New("request body is empty")

// Todo is the wire form of a task. IDs are sent as "_id" like the
// MongoDB-backed server the client was first written against.
type Todo struct {
	ID        string `json:"_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type createRequest struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type updateRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Server holds the task list in memory, in creation order.
type Server struct {
	mu      sync.Mutex
	todos   []Todo
	newID   func() string
	log     diag.Sink
	metrics *observability.APIMetrics
	gather  prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithIDGenerator replaces uuid IDs (for deterministic tests).
func WithIDGenerator(f func() string) Option {
	return func(s *Server) {
		s.newID = f
	}
}

// WithLogger sets the request log sink.
func WithLogger(l diag.Sink) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithSeed preloads todos.
func WithSeed(todos ...Todo) Option {
	return func(s *Server) {
		s.todos = append(s.todos, todos...)
	}
}

// New creates a server with its own metrics registry.
func New(opts ...Option) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		newID:   uuid.NewString,
		log:     diag.Discard,
		metrics: observability.NewAPIMetrics(reg),
		gather:  reg,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.Tasks.Set(float64(len(s.todos)))
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", observability.Handler(s.gather).ServeHTTP)

	r.Get("/todos", s.instrument("list", s.handleList))
	r.Post("/todos", s.instrument("create", s.handleCreate))
	r.Put("/todos/{id}", s.instrument("update", s.handleUpdate))
	r.Delete("/todos/{id}", s.instrument("delete", s.handleDelete))
	return r
}

// Todos returns a copy of the stored todos.
func (s *Server) Todos() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Metrics exposes the server's instruments (for tests).
func (s *Server) Metrics() *observability.APIMetrics {
	return s.metrics
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "code", rec.code, "request_id", r.Header.Get("X-Request-ID"))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.Todos())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}

	s.mu.Lock()
	todo := Todo{ID: s.newID(), Text: req.Text, Completed: req.Completed}
	s.todos = append(s.todos, todo)
	s.metrics.Tasks.Set(float64(len(s.todos)))
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, todo)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID != id {
			continue
		}
		if req.Text != nil {
			s.todos[i].Text = *req.Text
		}
		if req.Completed != nil {
			s.todos[i].Completed = *req.Completed
		}
		respondJSON(w, http.StatusOK, s.todos[i])
		return
	}
	respondError(w, http.StatusNotFound, "not_found", "todo not found")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			s.metrics.Tasks.Set(float64(len(s.todos)))
			respondJSON(w, http.StatusOK, map[string]string{"message": "todo deleted"})
			return
		}
	}
	respondError(w, http.StatusNotFound, "not_found", "todo not found")
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
