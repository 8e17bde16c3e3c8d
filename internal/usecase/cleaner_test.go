package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stonegrid/gomoku-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backdate rewinds a room's activity clock so the sweep sees it as abandoned.
func backdate(t *testing.T, manager *GameManager, roomID string, age time.Duration) {
	t.Helper()

	room, ok := manager.rooms.Get(roomID)
	require.True(t, ok)

	room.mu.Lock()
	room.lastActivity = time.Now().Add(-age)
	room.mu.Unlock()
}

func TestGameManager_SweepIdleRooms(t *testing.T) {
	t.Run("Stale room is closed, active one survives", func(t *testing.T) {
		// Given: one abandoned game and one fresh game
		manager, notifier := newTestManager(t)
		staleID := startPrivateGame(t, manager, "c1", "alice", "c2", "bob")
		activeID := startPrivateGame(t, manager, "c3", "carol", "c4", "dave")

		backdate(t, manager, staleID, 2*time.Hour)

		// When: the sweep runs
		closed := manager.SweepIdleRooms()

		// Then: only the abandoned room went away
		assert.Equal(t, 1, closed)

		status := manager.Status()
		require.Len(t, status.Rooms, 1)
		assert.Equal(t, activeID, status.Rooms[0].ID)

		// Then: its occupants were told before removal
		payload, ok := notifier.lastTo("c1", EventRoomClosed)
		require.True(t, ok)
		assert.Equal(t, RoomClosedPayload{RoomID: staleID, Reason: "idle"}, payload)
		assert.True(t, notifier.received("c2", EventRoomClosed))
		assert.False(t, notifier.received("c3", EventRoomClosed))
	})

	t.Run("Swept players can start over", func(t *testing.T) {
		// Given: a swept room
		manager, _ := newTestManager(t)
		roomID := startPrivateGame(t, manager, "c1", "alice", "c2", "bob")
		backdate(t, manager, roomID, 2*time.Hour)
		require.Equal(t, 1, manager.SweepIdleRooms())

		// Then: the sessions are detached and free to play again
		require.NoError(t, manager.CreateRoom("c1", "alice"))
		require.NoError(t, manager.JoinQueue("c2", "bob"))
	})

	t.Run("Chatting keeps a room alive", func(t *testing.T) {
		// Given: a game whose players stopped moving long ago but kept talking
		manager, _ := newTestManager(t)
		roomID := startPrivateGame(t, manager, "c1", "alice", "c2", "bob")
		backdate(t, manager, roomID, 2*time.Hour)
		require.NoError(t, manager.SendChat("c1", "still thinking about this one"))

		// When: the sweep runs
		closed := manager.SweepIdleRooms()

		// Then: the room counts as active and survives
		assert.Equal(t, 0, closed)
		require.Len(t, manager.Status().Rooms, 1)
	})

	t.Run("Fresh rooms are left alone", func(t *testing.T) {
		// Given: a game that just started
		manager, _ := newTestManager(t)
		startPrivateGame(t, manager, "c1", "alice", "c2", "bob")

		// Then: the sweep touches nothing
		assert.Equal(t, 0, manager.SweepIdleRooms())
		assert.Len(t, manager.Status().Rooms, 1)
	})
}

func TestGameManager_CloseRoom(t *testing.T) {
	// Given: a started game
	manager, notifier := newTestManager(t)
	roomID := startPrivateGame(t, manager, "c1", "alice", "c2", "bob")

	// When: the room is force-closed twice
	require.True(t, manager.CloseRoom(roomID, "shutdown"))
	require.False(t, manager.CloseRoom(roomID, "shutdown"))

	// Then: the room is gone and each occupant was told exactly once
	assert.Empty(t, manager.Status().Rooms)
	assert.Len(t, notifier.eventsTo("c1", EventRoomClosed), 1)
	assert.Len(t, notifier.eventsTo("c2", EventRoomClosed), 1)

	// Then: in-flight moves land on a closed room and are refused
	require.Error(t, manager.MakeMove("c1", 7, 7))
}

func TestGameManager_PostGameExpiry(t *testing.T) {
	t.Run("Restart strands the pending expiry", func(t *testing.T) {
		// Given: a finished game whose close grace is about to lapse
		manager, _ := newTestManagerTimings(t, Timings{
			StartDelay: time.Hour,
			CloseGrace: 50 * time.Millisecond,
			IdleTTL:    time.Hour,
		})
		startPrivateGame(t, manager, "c1", "alice", "c2", "bob")

		moves := []struct {
			conn string
			x, y int
		}{
			{"c1", 7, 7}, {"c2", 0, 0},
			{"c1", 8, 7}, {"c2", 0, 1},
			{"c1", 9, 7}, {"c2", 0, 2},
			{"c1", 10, 7}, {"c2", 0, 3},
			{"c1", 11, 7},
		}
		for _, move := range moves {
			require.NoError(t, manager.MakeMove(move.conn, move.x, move.y))
		}

		// When: the players restart before the timer fires
		require.NoError(t, manager.RestartGame("c1"))

		// Then: the stale timer never kills the rematch
		require.Never(t, func() bool {
			return len(manager.Status().Rooms) == 0
		}, 300*time.Millisecond, 20*time.Millisecond)

		assert.Equal(t, entity.PhaseReady, manager.Status().Rooms[0].Phase)
	})
}

func TestCleaner_Run(t *testing.T) {
	// Given: a cleaner sweeping on a tight interval
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager, notifier := newTestManager(t)
	cleaner := NewCleaner(logger, manager, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go cleaner.Run(ctx)

	// When: a room goes quiet for longer than the idle threshold
	roomID := startPrivateGame(t, manager, "c1", "alice", "c2", "bob")
	backdate(t, manager, roomID, 2*time.Hour)

	// Then: the running sweep picks it up without being asked
	require.Eventually(t, func() bool {
		return len(manager.Status().Rooms) == 0
	}, 2*time.Second, 5*time.Millisecond)

	assert.True(t, notifier.received("c1", EventRoomClosed))
}
