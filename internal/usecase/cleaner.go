package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/stonegrid/gomoku-backend/internal/entity"
)

// Cleaner periodically closes rooms that have gone quiet. One-shot closures
// (auto-start, post-game expiry) are scheduled per event below; the sweep
// catches everything those timers cannot know about, like both players
// silently vanishing.
type Cleaner struct {
	logger   *slog.Logger
	manager  *GameManager
	interval time.Duration
}

func NewCleaner(logger *slog.Logger, manager *GameManager, interval time.Duration) *Cleaner {
	return &Cleaner{
		logger:   logger,
		manager:  manager,
		interval: interval,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (that *Cleaner) Run(ctx context.Context) {
	log := that.logger.With("component", "cleaner")
	log.Info("cleaner started", "interval", that.interval.String())

	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("cleaner stopped")

			return
		case <-ticker.C:
			if closed := that.manager.SweepIdleRooms(); closed > 0 {
				log.Info("idle rooms closed", "count", closed)
			}
		}
	}
}

// SweepIdleRooms closes every room whose last accepted activity is older
// than the idle threshold and returns how many went away.
func (that *GameManager) SweepIdleRooms() int {
	now := time.Now()
	closed := 0

	for _, room := range that.rooms.List() {
		stale := func(r *Room) bool {
			return r.idleFor(now) > that.timings.IdleTTL
		}
		if that.closeRoomIf(room.id, "idle", stale) {
			closed++
		}
	}

	return closed
}

// CloseRoom force-closes a room in any phase. Closing twice is a no-op.
func (that *GameManager) CloseRoom(roomID, reason string) bool {
	return that.closeRoomIf(roomID, reason, nil)
}

// closeRoomIf closes a room when the guard, evaluated under the room lock,
// agrees. The phase flip to closed is the commit point, so racing closers
// and in-flight operations settle deterministically.
func (that *GameManager) closeRoomIf(roomID, reason string, guard func(*Room) bool) bool {
	room, ok := that.rooms.Get(roomID)
	if !ok {
		return false
	}

	room.mu.Lock()
	if guard != nil && !guard(room) {
		room.mu.Unlock()

		return false
	}

	occupants, ok := room.close()
	if !ok {
		room.mu.Unlock()

		return false
	}

	ids := playerIDs(occupants)
	if len(ids) > 0 {
		that.notifier.ToConns(ids, EventRoomClosed, RoomClosedPayload{RoomID: roomID, Reason: reason})
	}
	room.mu.Unlock()

	that.rooms.Remove(roomID)
	that.sessions.ClearRoomAll(ids, roomID)

	that.logger.Info("room closed", "room_id", roomID, "reason", reason)

	return true
}

// scheduleAutoStart arms the delayed start for a matched room. The timer is
// fire-and-forget: if the pairing fell apart or the game already started it
// does nothing.
func (that *GameManager) scheduleAutoStart(roomID string, epoch int) {
	time.AfterFunc(that.timings.StartDelay, func() {
		defer that.recoverTimer("auto_start", roomID)

		room, ok := that.rooms.Get(roomID)
		if !ok {
			return
		}

		room.mu.Lock()
		snapshot, started := room.startIfPending(epoch, time.Now())
		if started {
			that.notifier.ToConns(room.occupantIDs(), EventGameStarted, GameStartedPayload{Room: snapshot})
		}
		room.mu.Unlock()

		if started {
			that.logger.Info("game started", "room_id", roomID)
		}
	})
}

// scheduleExpiry arms the post-game closure. A restart bumps the room epoch,
// which strands this timer harmlessly.
func (that *GameManager) scheduleExpiry(roomID string, epoch int) {
	time.AfterFunc(that.timings.CloseGrace, func() {
		defer that.recoverTimer("expiry", roomID)

		that.closeRoomIf(roomID, "expired", func(room *Room) bool {
			return room.phase == entity.PhaseFinished && room.epoch == epoch
		})
	})
}

// recoverTimer keeps a panicking timer callback from taking the process
// down with it.
func (that *GameManager) recoverTimer(name, roomID string) {
	if r := recover(); r != nil {
		that.logger.Error("timer panicked", "timer", name, "room_id", roomID, "panic", r)
	}
}
