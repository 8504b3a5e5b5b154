// Package server exposes jsonrepair.Repair over HTTP for the serve
// subcommand: a thin transport shell that adds request tagging, logging,
// and an optional cache lookup around the pure repair call. It never
// changes repair semantics.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/corvidlabs/jsonrepair"
	"github.com/corvidlabs/jsonrepair/internal/cache"
)

// Cache is the subset of *cache.RepairCache the server depends on, so
// tests can substitute a fake without standing up miniredis.
type Cache interface {
	Get(ctx context.Context, text string) (result string, ok bool, err error)
	Set(ctx context.Context, text, result string) error
}

// Server wires the HTTP surface around Repair.
type Server struct {
	cache  Cache
	logger logrus.FieldLogger
	router *mux.Router
}

// New builds a Server. cache may be nil, in which case every request calls
// Repair directly.
func New(c Cache, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{cache: c, logger: logger, router: mux.NewRouter()}
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.HandleFunc("/repair", s.handleRepair).Methods(http.MethodPost)
	return s
}

// Handler returns the CORS-wrapped HTTP handler ready for ListenAndServe.
func (s *Server) Handler() http.Handler {
	return cors.Default().Handler(s.router)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type repairResponse struct {
	Result *string         `json:"result"`
	Error  *repairErrorBody `json:"error"`
}

type repairErrorBody struct {
	Message  string `json:"message"`
	Position int    `json:"position"`
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log := s.logger.WithField("request_id", requestID)

	body, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
	if err != nil {
		log.WithError(err).Warn("failed to read request body")
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	text := string(body)

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		if cached, ok, cacheErr := s.cache.Get(ctx, text); cacheErr == nil && ok {
			cancel()
			log.Debug("cache hit")
			writeJSON(w, repairResponse{Result: &cached})
			return
		}
		cancel()
	}

	result, repairErr := jsonrepair.Repair(text)
	if repairErr != nil {
		var position int
		if re, ok := repairErr.(*jsonrepair.RepairError); ok {
			position = re.Position
		}
		log.WithError(repairErr).Info("document not repairable")
		writeJSON(w, repairResponse{Error: &repairErrorBody{Message: repairErr.Error(), Position: position}})
		return
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		if setErr := s.cache.Set(ctx, text, result); setErr != nil {
			log.WithError(setErr).Debug("failed to populate cache")
		}
		cancel()
	}

	writeJSON(w, repairResponse{Result: &result})
}

func writeJSON(w http.ResponseWriter, body repairResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
