package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Server is the read-only HTTP surface next to the websocket port: liveness
// and a status snapshot for operators.
type Server struct {
	logger   *slog.Logger
	handlers Handlers
}

func New(logger *slog.Logger, game statusProvider) *Server {
	return &Server{
		logger:   logger,
		handlers: NewHandlers(logger, game),
	}
}

// Handler exposes the routing so tests can mount the server on a test
// listener.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", that.handlers.PingHandler)
	mux.HandleFunc("/healthz", that.handlers.HealthHandler)
	mux.HandleFunc("/status", that.handlers.StatusHandler)

	return mux
}

// Start - starts the HTTP server and shuts it down when the context is
// canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		return nil
	}
}
