package trading

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/logger"
)

const serverShutdownTimeout = 5 * time.Second

// Server exposes the engine's health, prometheus metrics, and a read-only
// JSON API. Its lifetime follows the engine's context.
type Server struct {
	engine *Engine
	log    *logger.Logger
	server *http.Server
}

// NewServer builds the HTTP server for the engine on the given address.
func NewServer(addr string, engine *Engine, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	s := &Server{engine: engine, log: log}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(engine.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/statistics", s.handleStatistics).Methods(http.MethodGet)
	api.HandleFunc("/positions", s.handlePositions).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start serves in the background and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.server.Addr))

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("http server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.log.Warn("http server shutdown failed", zap.Error(err))
	}
}

// Handler returns the configured router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStatistics(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.engine.Statistics())
}

func (s *Server) handlePositions(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.engine.OpenPositions())
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Warn("failed to encode response", zap.Error(err))
	}
}
