// Package server exposes the read-only status HTTP surface of a
// running benchmark batch: which runs exist, their progress and their
// best fitness so far.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// RunState is the externally visible state of one benchmark run.
// The driver mutates it through the Server so that HTTP readers never
// race with the synchronous benchmark loop.
type RunState struct {
	ID         string     `json:"id"`
	Function   string     `json:"function"`
	Method     string     `json:"method"`
	Dim        int        `json:"dim"`
	Status     string     `json:"status"`
	Evals      int        `json:"evals"`
	BestOffset float64    `json:"best_offset"`
	Error      string     `json:"error,omitempty"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
}

// Server tracks run states and serves them over HTTP.
type Server struct {
	logger *zap.Logger

	mu   sync.RWMutex
	runs map[string]*RunState
}

// New creates a status server.
func New(logger *zap.Logger) *Server {
	return &Server{
		logger: logger,
		runs:   make(map[string]*RunState),
	}
}

// RegisterRoutes mounts the status API on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
	})
}

// StartRun registers a new running state and returns its id.
func (s *Server) StartRun(function, method string, dim int) string {
	id := fmt.Sprintf("%s_%dD_%s", function, dim, method)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = &RunState{
		ID:        id,
		Function:  function,
		Method:    method,
		Dim:       dim,
		Status:    StatusRunning,
		StartTime: time.Now(),
	}
	return id
}

// UpdateRun records current progress for a run.
func (s *Server) UpdateRun(id string, evals int, bestOffset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[id]; ok {
		run.Evals = evals
		run.BestOffset = bestOffset
	}
}

// FinishRun marks a run terminated with the given status; err may be
// nil.
func (s *Server) FinishRun(id, status string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return
	}
	now := time.Now()
	run.Status = status
	run.EndTime = &now
	if err != nil {
		run.Error = err.Error()
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	runs := make([]*RunState, 0, len(s.runs))
	for _, run := range s.runs {
		c := *run
		runs = append(runs, &c)
	}
	s.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool { return runs[i].StartTime.Before(runs[j].StartTime) })
	s.respondJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	run, ok := s.runs[id]
	var c RunState
	if ok {
		c = *run
	}
	s.mu.RUnlock()

	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, &c)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}
