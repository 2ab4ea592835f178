// Package status serves health, metrics and the current summary while the scheduler runs.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/diillson/ticket-ledger/internal/application/usecase"
	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// SummaryProvider builds the pivot from the ledger without writing it.
type SummaryProvider interface {
	Preview(ctx context.Context) (*usecase.RebuildResult, error)
}

type Config struct {
	Addr            string
	Version         string
	ShutdownTimeout time.Duration
}

type Server struct {
	router  *chi.Mux
	logger  *zerolog.Logger
	server  *http.Server
	summary SummaryProvider
	version string
	timeout time.Duration
}

func NewServer(logger zerolog.Logger, config Config, summary SummaryProvider) *Server {
	s := &Server{
		logger:  &logger,
		summary: summary,
		version: config.Version,
		timeout: config.ShutdownTimeout,
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Second
	}

	router := chi.NewRouter()
	router.Use(requestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.health)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/summary", s.getSummary)

	s.router = router
	s.server = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("starting status server")
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			return s.server.Close()
		}
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

type summaryResponse struct {
	Labels     []string          `json:"labels"`
	Rows       []entity.PivotRow `json:"rows"`
	LedgerRows int               `json:"ledger_rows"`
	Malformed  int               `json:"malformed_rows"`
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	result, err := s.summary.Preview(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("building summary")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Labels:     result.Pivot.Labels,
		Rows:       result.Pivot.Rows(),
		LedgerRows: result.Stats.Rows,
		Malformed:  result.Stats.Malformed,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
