package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stonegrid/gomoku-backend/internal/entity"
	"github.com/stonegrid/gomoku-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	status usecase.Status
}

func (that *fakeGame) Status() usecase.Status {
	return that.status
}

func newTestServer(t *testing.T, game statusProvider) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := httptest.NewServer(New(logger, game).Handler())
	t.Cleanup(server.Close)

	return server
}

func TestServer_Ping(t *testing.T) {
	// Given: a running server
	server := newTestServer(t, &fakeGame{})

	// When: the liveness path is hit
	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: it answers with pong
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestServer_Health(t *testing.T) {
	// Given: a running server
	server := newTestServer(t, &fakeGame{})

	// When: the health endpoint is queried
	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: the body carries an ok status and the server's clock
	var health healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "ok", health.Status)
	assert.WithinDuration(t, time.Now(), health.ServerTime, time.Minute)
}

func TestServer_Status(t *testing.T) {
	// Given: a game with two connections and one in-progress room
	game := &fakeGame{status: usecase.Status{
		Connected: 2,
		Waiting:   0,
		Rooms: []entity.RoomSnapshot{
			{
				ID:    "42137465",
				Phase: entity.PhaseInProgress,
				Players: []entity.Player{
					{ID: "a", Name: "alice", Symbol: entity.SymbolBlack},
					{ID: "b", Name: "bob", Symbol: entity.SymbolWhite},
				},
				CurrentTurn: entity.SymbolBlack,
				MoveCount:   4,
			},
		},
	}}
	server := newTestServer(t, game)

	// When: the status endpoint is queried
	resp, err := http.Get(server.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Then: the snapshot round-trips intact
	var status usecase.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, game.status, status)
}
