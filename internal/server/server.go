// Package server exposes the planner's persistence and task-generation
// services over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/plannersmart/internal/service"
	"github.com/alexanderramin/plannersmart/internal/taskgen"
)

// Server routes HTTP requests to the services.
type Server struct {
	auth      service.AuthService
	events    service.EventService
	alarms    service.AlarmService
	generator taskgen.Generator
	logger    *slog.Logger
	mux       *http.ServeMux
}

// Deps collects the services a Server needs.
type Deps struct {
	Auth      service.AuthService
	Events    service.EventService
	Alarms    service.AlarmService
	Generator taskgen.Generator
	Logger    *slog.Logger
}

func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		auth:      d.Auth,
		events:    d.Events,
		alarms:    d.Alarms,
		generator: d.Generator,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)

	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.Handle("PUT /api/auth/api-key", s.requireAuth(s.handleUpdateAPIKey))

	s.mux.Handle("GET /api/events", s.requireAuth(s.handleListEvents))
	s.mux.Handle("POST /api/events", s.requireAuth(s.handleAddEvent))
	s.mux.Handle("PATCH /api/events/{id}/complete", s.requireAuth(s.handleCompleteEvent))
	s.mux.Handle("DELETE /api/events/{id}", s.requireAuth(s.handleDeleteEvent))

	s.mux.Handle("POST /api/ai/generate-tasks", s.requireAuth(s.handleGenerateTasks))

	s.mux.Handle("GET /api/alarms", s.requireAuth(s.handleListAlarms))
	s.mux.Handle("POST /api/alarms", s.requireAuth(s.handleCreateAlarm))
	s.mux.Handle("PUT /api/alarms/{id}", s.requireAuth(s.handleUpdateAlarm))
	s.mux.Handle("PATCH /api/alarms/{id}/toggle", s.requireAuth(s.handleToggleAlarm))
	s.mux.Handle("DELETE /api/alarms/{id}", s.requireAuth(s.handleDeleteAlarm))
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.withLogging(withCORS(s.mux))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "listen", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Smart Planner backend is running"))
}
