// Package server exposes the search index over HTTP: a POST /search
// endpoint accepting a fingerprint and threshold, and a health check,
// routed with go-chi the way the rest of the example pack wires its
// dashboards (§6).
package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lorehash/boorudex/internal/search"
	"github.com/lorehash/boorudex/pkg/api"
)

// Server serves the search query surface.
type Server struct {
	router   chi.Router
	searcher *search.Searcher
	logger   *logrus.Logger
	addr     string
	http     *http.Server
}

// New builds a Server listening on addr.
func New(searcher *search.Searcher, addr string, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{searcher: searcher, addr: addr, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestIDMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/search", s.handleSearch)

	s.router = r
	return s
}

// ServeHTTP lets Server itself act as an http.Handler, handy for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start blocks until the server is shut down or fails to start.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.WithField("addr", s.addr).Info("search server starting")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("search server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchRequest struct {
	Fingerprint string `json:"fingerprint"` // hex-encoded, 32 chars
	Threshold   *int   `json:"threshold,omitempty"`
}

type searchResponse struct {
	Hits []api.Hit `json:"hits"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	raw, err := hex.DecodeString(req.Fingerprint)
	if err != nil || len(raw) != api.FingerprintBytes {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fingerprint must be 32 hex characters"})
		return
	}

	var fp api.Fingerprint
	copy(fp[:], raw)

	threshold := api.DefaultSearchThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	hits, err := s.searcher.Search(r.Context(), fp, threshold)
	if err != nil {
		s.logger.WithError(err).WithField("request_id", requestID(r.Context())).Error("search failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Hits: hits})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type requestIDKey struct{}

// requestIDMiddleware stamps every request with a UUID, surfaced via
// the X-Request-Id response header for client-side correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
