package usecase

import (
	"sync"
	"time"

	"github.com/stonegrid/gomoku-backend/internal/apperror"
	"github.com/stonegrid/gomoku-backend/internal/entity"
	"github.com/stonegrid/gomoku-backend/internal/gomoku"
)

// Room is one live match. All state behind mu belongs to whoever holds the
// lock; the game manager takes it for the whole of every operation so that
// notifications go out in the same order the state changed.
type Room struct {
	mu sync.Mutex

	id           string
	players      []*entity.Player
	board        entity.Board
	currentTurn  entity.Symbol
	phase        entity.Phase
	moves        []entity.Move
	createdAt    time.Time
	startedAt    time.Time
	lastActivity time.Time

	// epoch increments on every restart. Timers capture it when they are
	// scheduled and no-op if the room has moved on since.
	epoch int
}

func newRoom(id string, now time.Time) *Room {
	return &Room{
		id:           id,
		phase:        entity.PhaseForming,
		players:      make([]*entity.Player, 0, 2),
		createdAt:    now,
		lastActivity: now,
	}
}

type joinOutcome struct {
	you      entity.Player
	snapshot entity.RoomSnapshot
	started  bool
}

// join seats a player. The first one gets black, the second white. When
// startOnFull is set the game begins the moment the room fills; the matched
// path leaves it unset and starts on a timer instead. Caller holds mu.
func (that *Room) join(player *entity.Player, now time.Time, startOnFull bool) (joinOutcome, error) {
	switch {
	case that.phase == entity.PhaseClosed:
		return joinOutcome{}, apperror.ErrRoomNotFound
	case that.phase == entity.PhaseInProgress || that.phase == entity.PhaseFinished:
		return joinOutcome{}, apperror.ErrAlreadyStarted
	case len(that.players) >= 2:
		return joinOutcome{}, apperror.ErrRoomFull
	}

	// A room that shrank back to forming may hold a lone white player, so
	// the free symbol is whatever the current occupant does not have.
	player.Symbol = entity.SymbolBlack
	if len(that.players) == 1 {
		player.Symbol = that.players[0].Symbol.Other()
	}

	that.players = append(that.players, player)
	that.touch(now)

	outcome := joinOutcome{you: *player}

	if len(that.players) == 2 {
		that.phase = entity.PhaseReady
		if startOnFull {
			that.start(now)
			outcome.started = true
		}
	}

	outcome.snapshot = that.snapshot()

	return outcome, nil
}

// start flips the room into play. Caller holds mu and has checked the phase.
func (that *Room) start(now time.Time) {
	that.phase = entity.PhaseInProgress
	that.currentTurn = entity.SymbolBlack
	that.startedAt = now
	that.touch(now)

	for _, player := range that.players {
		player.Ready = false
	}
}

// startIfPending is the auto-start timer body: it only fires on a room that
// is still waiting for the same pairing it was scheduled for. Caller holds mu.
func (that *Room) startIfPending(epoch int, now time.Time) (entity.RoomSnapshot, bool) {
	if that.phase != entity.PhaseReady || that.epoch != epoch || len(that.players) != 2 {
		return entity.RoomSnapshot{}, false
	}

	that.start(now)

	return that.snapshot(), true
}

type readyOutcome struct {
	player   entity.Player
	snapshot entity.RoomSnapshot
	started  bool
}

// markReady records a ready flag and starts the game once both are set.
// Caller holds mu.
func (that *Room) markReady(playerID string, now time.Time) (readyOutcome, error) {
	switch that.phase {
	case entity.PhaseClosed:
		return readyOutcome{}, apperror.ErrRoomNotFound
	case entity.PhaseForming:
		return readyOutcome{}, apperror.ErrNoOpponent
	case entity.PhaseInProgress:
		return readyOutcome{}, apperror.ErrAlreadyStarted
	case entity.PhaseFinished:
		return readyOutcome{}, apperror.ErrGameFinished
	}

	player := that.findPlayer(playerID)
	if player == nil {
		return readyOutcome{}, apperror.ErrNoActiveRoom
	}

	player.Ready = true
	that.touch(now)

	outcome := readyOutcome{player: *player}

	bothReady := len(that.players) == 2
	for _, p := range that.players {
		bothReady = bothReady && p.Ready
	}

	if bothReady {
		that.start(now)
		outcome.started = true
	}

	outcome.snapshot = that.snapshot()

	return outcome, nil
}

type moveOutcome struct {
	move     entity.Move
	board    entity.Board
	nextTurn entity.Symbol
	finished bool
	over     *GameOverPayload
	record   *entity.MatchRecord
	epoch    int
}

// applyMove validates and plays one stone, then settles win, draw or turn
// change. Caller holds mu.
func (that *Room) applyMove(playerID string, x, y int, now time.Time) (moveOutcome, error) {
	switch that.phase {
	case entity.PhaseClosed:
		return moveOutcome{}, apperror.ErrRoomNotFound
	case entity.PhaseForming, entity.PhaseReady:
		return moveOutcome{}, apperror.ErrGameNotStarted
	case entity.PhaseFinished:
		return moveOutcome{}, apperror.ErrGameFinished
	}

	player := that.findPlayer(playerID)
	if player == nil {
		return moveOutcome{}, apperror.ErrNoActiveRoom
	}

	if err := gomoku.ValidateMove(&that.board, that.currentTurn, player.Symbol, x, y); err != nil {
		return moveOutcome{}, err
	}

	that.board.Place(x, y, player.Symbol)
	move := entity.Move{Symbol: player.Symbol, X: x, Y: y, PlayedAt: now}
	that.moves = append(that.moves, move)
	that.touch(now)

	outcome := moveOutcome{move: move, epoch: that.epoch}

	if line, won := gomoku.DetectWin(&that.board, x, y); won {
		outcome.finished = true
		outcome.over, outcome.record = that.finish(player.Symbol, entity.ReasonWin, line, now)
	} else if len(that.moves) == entity.TotalCells {
		outcome.finished = true
		outcome.over, outcome.record = that.finish(entity.SymbolNone, entity.ReasonDraw, nil, now)
	} else {
		that.currentTurn = that.currentTurn.Other()
	}

	outcome.board = that.board
	outcome.nextTurn = that.currentTurn

	return outcome, nil
}

// finish ends the game but keeps the room around for its grace period.
// Caller holds mu.
func (that *Room) finish(winner entity.Symbol, reason string, line entity.Line, now time.Time) (*GameOverPayload, *entity.MatchRecord) {
	that.phase = entity.PhaseFinished
	that.currentTurn = entity.SymbolNone
	that.touch(now)

	over := &GameOverPayload{
		Winner: winner,
		Line:   line,
		Board:  that.board,
		Reason: reason,
	}

	record := &entity.MatchRecord{
		RoomID:     that.id,
		Players:    that.playersCopy(),
		Winner:     winner,
		Reason:     reason,
		MoveCount:  len(that.moves),
		StartedAt:  that.startedAt,
		FinishedAt: now,
	}

	return over, record
}

type departOutcome struct {
	player    entity.Player
	remaining []entity.Player
	empty     bool
	finished  bool
	over      *GameOverPayload
	record    *entity.MatchRecord
	epoch     int
}

// removePlayer unseats a player on leave or disconnect. Mid-game the
// remaining player wins by forfeit; before the start the room simply shrinks
// back to forming. Caller holds mu.
func (that *Room) removePlayer(playerID string, now time.Time) (departOutcome, bool) {
	if that.phase == entity.PhaseClosed {
		return departOutcome{}, false
	}

	player := that.findPlayer(playerID)
	if player == nil {
		return departOutcome{}, false
	}

	outcome := departOutcome{player: *player, epoch: that.epoch}

	kept := that.players[:0]
	for _, p := range that.players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	that.players = kept
	that.touch(now)

	if len(that.players) == 0 {
		outcome.empty = true

		return outcome, true
	}

	switch that.phase {
	case entity.PhaseInProgress:
		outcome.finished = true
		outcome.over, outcome.record = that.finish(that.players[0].Symbol, entity.ReasonForfeit, nil, now)
	case entity.PhaseReady:
		that.phase = entity.PhaseForming
		for _, p := range that.players {
			p.Ready = false
		}
	}

	outcome.remaining = that.playersCopy()

	return outcome, true
}

// reset wipes the board for a rematch and invalidates every timer scheduled
// against the previous game. Caller holds mu.
func (that *Room) reset(now time.Time) (entity.RoomSnapshot, error) {
	if that.phase == entity.PhaseClosed {
		return entity.RoomSnapshot{}, apperror.ErrRoomNotFound
	}

	if len(that.players) < 2 {
		return entity.RoomSnapshot{}, apperror.ErrNoOpponent
	}

	that.board.Reset()
	that.moves = nil
	that.currentTurn = entity.SymbolNone
	that.phase = entity.PhaseReady
	that.startedAt = time.Time{}
	that.epoch++
	that.touch(now)

	for _, player := range that.players {
		player.Ready = false
	}

	return that.snapshot(), nil
}

// close marks the room dead and reports who was still inside. Caller holds
// mu; a second close returns false.
func (that *Room) close() ([]entity.Player, bool) {
	if that.phase == entity.PhaseClosed {
		return nil, false
	}

	that.phase = entity.PhaseClosed
	occupants := that.playersCopy()
	that.players = nil

	return occupants, true
}

// snapshot builds the serializable view handed to transports. Caller holds mu.
func (that *Room) snapshot() entity.RoomSnapshot {
	return entity.RoomSnapshot{
		ID:          that.id,
		Phase:       that.phase,
		Players:     that.playersCopy(),
		CurrentTurn: that.currentTurn,
		MoveCount:   len(that.moves),
		CreatedAt:   that.createdAt,
	}
}

// idleFor reports how long the room has gone without accepted activity.
// Caller holds mu.
func (that *Room) idleFor(now time.Time) time.Duration {
	return now.Sub(that.lastActivity)
}

func (that *Room) touch(now time.Time) {
	that.lastActivity = now
}

func (that *Room) findPlayer(playerID string) *entity.Player {
	for _, player := range that.players {
		if player.ID == playerID {
			return player
		}
	}

	return nil
}

func (that *Room) playersCopy() []entity.Player {
	players := make([]entity.Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, *player)
	}

	return players
}

func (that *Room) occupantIDs() []string {
	ids := make([]string, 0, len(that.players))
	for _, player := range that.players {
		ids = append(ids, player.ID)
	}

	return ids
}
