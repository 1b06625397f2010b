// Package sandbox serves a local stand-in for the item API.
//
// It implements the same routes and error envelope as the real service so the
// client can be developed and tested without it. Items live in SQLite.
package sandbox

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/api"
)

const requestIDHeader = "X-Request-ID"

// Options tune the sandbox's behaviour.
type Options struct {
	Latency  time.Duration  // added to every request
	FailRate float64        // probability in [0,1] of answering FailCode
	FailCode int            // defaults to 500
	Rand     func() float64 // defaults to math/rand/v2
}

// Server routes item requests to a Repository.
type Server struct {
	repo   *Repository
	logger *zap.Logger
	opts   Options
	router *mux.Router
}

// New builds a Server. Routes are mounted under /api.
func New(repo *Repository, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.FailCode == 0 {
		opts.FailCode = http.StatusInternalServerError
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	s := &Server{repo: repo, logger: logger, opts: opts, router: mux.NewRouter()}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router.PathPrefix("/api").Subrouter()
	r.Use(s.requestID, s.logging, s.inject)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/items", s.listItems).Methods(http.MethodGet)
	r.HandleFunc("/items", s.createItem).Methods(http.MethodPost)
	r.HandleFunc("/items/{id}", s.getItem).Methods(http.MethodGet)
	r.HandleFunc("/items/{id}", s.updateItem).Methods(http.MethodPut)
	r.HandleFunc("/items/{id}", s.deleteItem).Methods(http.MethodDelete)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{Status: "healthy"})
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var dto api.CreateItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	item, err := s.repo.Create(r.Context(), dto)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	// PUT replaces the item: title is required and a missing description
	// resets to "".
	var body api.UpdateItemDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if body.Title == nil {
		writeMissingField(w, "title")
		return
	}
	dto := api.CreateItemDTO{Title: *body.Title}
	if body.Description != nil {
		dto.Description = *body.Description
	}
	if err := dto.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	item, err := s.repo.Update(r.Context(), id, dto)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Item not found")
		return
	}
	s.internalError(w, r, err)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", r.Header.Get(requestIDHeader)),
		zap.Error(err),
	)
	writeDetail(w, http.StatusInternalServerError, "internal server error")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid item id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeMissingField answers with the list-shaped detail validation
// frameworks use for absent body fields.
func writeMissingField(w http.ResponseWriter, field string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{
			"loc":  []string{"body", field},
			"msg":  "field required",
			"type": "value_error.missing",
		}},
	})
}

// statusRecorder captures the status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get(requestIDHeader)),
		)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Latency > 0 {
			select {
			case <-time.After(s.opts.Latency):
			case <-r.Context().Done():
				return
			}
		}
		if s.opts.FailRate > 0 && s.opts.Rand() < s.opts.FailRate {
			writeDetail(w, s.opts.FailCode, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}
