package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/TomMakinMPF/fifoinvestor/internal/scanner"
)

// Server exposes the scanner over HTTP: list market groups, run a scan,
// download the report as CSV.
type Server struct {
	scanner    *scanner.Scanner
	tickersDir string
	server     *http.Server
	logger     zerolog.Logger
}

func NewServer(addr string, sc *scanner.Scanner, tickersDir string, logger zerolog.Logger) *Server {
	s := &Server{
		scanner:    sc,
		tickersDir: tickersDir,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/groups", s.handleGroups)
		r.Post("/scan", s.handleScan)
		r.Get("/scan/csv", s.handleScanCSV)
	})

	s.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // full-universe scans are slow
	}
	return s
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("api server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
