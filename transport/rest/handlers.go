package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/stonegrid/gomoku-backend/internal/usecase"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	HealthHandler(w http.ResponseWriter, _ *http.Request)
	StatusHandler(w http.ResponseWriter, _ *http.Request)
}

// statusProvider is the read-only slice of the game manager the REST surface
// needs.
type statusProvider interface {
	Status() usecase.Status
}

type handlers struct {
	logger *slog.Logger
	game   statusProvider
}

func NewHandlers(logger *slog.Logger, game statusProvider) Handlers {
	return &handlers{
		logger: logger,
		game:   game,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

type healthResponse struct {
	Status     string    `json:"status"`
	ServerTime time.Time `json:"server_time"`
}

// HealthHandler answers liveness probes. It never consults game state, so a
// deadlocked room cannot make the process look dead.
func (that *handlers) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, healthResponse{
		Status:     "ok",
		ServerTime: time.Now(),
	})
}

// StatusHandler reports connected clients, queue length and a snapshot of
// every open room.
func (that *handlers) StatusHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, that.game.Status())
}

func (that *handlers) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
