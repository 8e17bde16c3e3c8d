package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/stonegrid/gomoku-backend/internal/apperror"
	"github.com/stonegrid/gomoku-backend/internal/entity"
	"github.com/stonegrid/gomoku-backend/internal/pkg"
)

const archiveTimeout = 5 * time.Second

// MatchArchive persists finished games. The repository package implements
// it; a nil archive disables persistence without touching game flow.
type MatchArchive interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
}

// Timings are the lifecycle delays: how long a matched pair waits before the
// game starts, how long a finished room lingers, and when an inactive room
// counts as abandoned.
type Timings struct {
	StartDelay time.Duration
	CloseGrace time.Duration
	IdleTTL    time.Duration
}

// GameManager coordinates matchmaking, rooms and sessions, and emits every
// outbound event. Errors returned from its methods go to the originating
// connection only.
type GameManager struct {
	logger   *slog.Logger
	notifier Notifier
	archive  MatchArchive
	timings  Timings

	rooms    *RoomRegistry
	queue    *MatchmakingQueue
	sessions *ConnectionRegistry
}

func NewGameManager(logger *slog.Logger, notifier Notifier, archive MatchArchive, timings Timings) *GameManager {
	return &GameManager{
		logger:   logger,
		notifier: notifier,
		archive:  archive,
		timings:  timings,

		rooms:    NewRoomRegistry(),
		queue:    NewMatchmakingQueue(),
		sessions: NewConnectionRegistry(),
	}
}

// Register opens a session for a fresh connection and publishes the new
// online count.
func (that *GameManager) Register(connID string) {
	that.sessions.Add(connID)
	that.broadcastOnline()

	that.logger.Info("connection registered", "connection_id", connID)
}

// Disconnect tears down everything a connection was involved in: its
// session, its queue slot and its room seat.
func (that *GameManager) Disconnect(connID string) {
	log := that.logger.With("method", "Disconnect")

	session, ok := that.sessions.Remove(connID)
	if !ok {
		return
	}

	that.broadcastOnline()

	if that.queue.Remove(connID) {
		that.broadcastQueue()
		that.tryPair()
	}

	if session.RoomID != "" {
		that.departRoom(connID, session.RoomID, EventPlayerDisconnected)
	}

	log.Info("connection closed", "connection_id", connID)
}

// JoinQueue puts a player into matchmaking and pairs them up as soon as an
// opponent is waiting.
func (that *GameManager) JoinQueue(connID, username string) error {
	name, err := normalizeUsername(username)
	if err != nil {
		return err
	}

	session, ok := that.sessions.Get(connID)
	if !ok {
		return apperror.ErrNoSession
	}

	if session.RoomID != "" {
		return apperror.ErrAlreadyInRoom
	}

	that.sessions.SetName(connID, name)

	size, ok := that.queue.Enqueue(&entity.Player{ID: connID, Name: name})
	if !ok {
		return apperror.ErrAlreadyQueued
	}

	that.notifier.ToConn(connID, EventWaiting, WaitingPayload{Queued: size})
	that.broadcastQueue()

	that.tryPair()

	return nil
}

// CreateRoom opens a private room with the caller seated as black. The room
// ID doubles as the join code.
func (that *GameManager) CreateRoom(connID, username string) error {
	log := that.logger.With("method", "CreateRoom")

	name, err := normalizeUsername(username)
	if err != nil {
		return err
	}

	session, ok := that.sessions.Get(connID)
	if !ok {
		return apperror.ErrNoSession
	}

	if session.RoomID != "" {
		return apperror.ErrAlreadyInRoom
	}

	if that.queue.Contains(connID) {
		return apperror.ErrAlreadyQueued
	}

	that.sessions.SetName(connID, name)

	now := time.Now()
	room := that.newRegisteredRoom(now)

	room.mu.Lock()
	outcome, err := room.join(&entity.Player{ID: connID, Name: name}, now, true)
	if err == nil {
		that.notifier.ToConn(connID, EventRoomCreated, RoomPayload{Room: outcome.snapshot, You: outcome.you})
	}
	room.mu.Unlock()

	if err != nil {
		return err
	}

	if !that.sessions.SetRoom(connID, room.id) {
		that.departRoom(connID, room.id, EventPlayerLeft)

		return nil
	}

	log.Info("room created", "room_id", room.id, "player", name)

	return nil
}

// JoinRoom seats the caller in an existing room by its ID and starts the
// game when the room fills.
func (that *GameManager) JoinRoom(connID, username, roomID string) error {
	log := that.logger.With("method", "JoinRoom")

	name, err := normalizeUsername(username)
	if err != nil {
		return err
	}

	session, ok := that.sessions.Get(connID)
	if !ok {
		return apperror.ErrNoSession
	}

	if session.RoomID != "" {
		return apperror.ErrAlreadyInRoom
	}

	if that.queue.Contains(connID) {
		return apperror.ErrAlreadyQueued
	}

	room, ok := that.rooms.Get(strings.TrimSpace(roomID))
	if !ok {
		return apperror.ErrRoomNotFound
	}

	that.sessions.SetName(connID, name)

	now := time.Now()

	room.mu.Lock()
	outcome, err := room.join(&entity.Player{ID: connID, Name: name}, now, true)
	if err == nil {
		that.notifier.ToConn(connID, EventRoomJoined, RoomPayload{Room: outcome.snapshot, You: outcome.you})
		if outcome.started {
			that.notifier.ToConns(snapshotIDs(outcome.snapshot), EventGameStarted, GameStartedPayload{Room: outcome.snapshot})
		}
	}
	room.mu.Unlock()

	if err != nil {
		return err
	}

	if !that.sessions.SetRoom(connID, room.id) {
		that.departRoom(connID, room.id, EventPlayerLeft)

		return nil
	}

	if outcome.started {
		log.Info("game started", "room_id", room.id)
	}

	return nil
}

// MakeMove plays one stone for the caller and broadcasts the result to the
// room.
func (that *GameManager) MakeMove(connID string, x, y int) error {
	log := that.logger.With("method", "MakeMove")

	room, roomID, err := that.roomOf(connID)
	if err != nil {
		return err
	}

	room.mu.Lock()
	outcome, err := room.applyMove(connID, x, y, time.Now())
	if err == nil {
		ids := room.occupantIDs()
		that.notifier.ToConns(ids, EventMoveMade, MoveMadePayload{
			Move:     outcome.move,
			Board:    outcome.board,
			NextTurn: outcome.nextTurn,
		})
		if outcome.finished {
			that.notifier.ToConns(ids, EventGameOver, *outcome.over)
		}
	}
	room.mu.Unlock()

	if err != nil {
		return err
	}

	if outcome.finished {
		that.archiveMatch(outcome.record)
		that.scheduleExpiry(roomID, outcome.epoch)

		log.Info("game finished", "room_id", roomID, "reason", outcome.over.Reason, "moves", outcome.record.MoveCount)
	}

	return nil
}

// MarkReady flags the caller as ready; the game starts once both players
// have done so.
func (that *GameManager) MarkReady(connID string) error {
	log := that.logger.With("method", "MarkReady")

	room, roomID, err := that.roomOf(connID)
	if err != nil {
		return err
	}

	room.mu.Lock()
	outcome, err := room.markReady(connID, time.Now())
	if err == nil {
		ids := room.occupantIDs()
		that.notifier.ToConns(ids, EventPlayerReady, PlayerEventPayload{Player: outcome.player})
		if outcome.started {
			that.notifier.ToConns(ids, EventGameStarted, GameStartedPayload{Room: outcome.snapshot})
		}
	}
	room.mu.Unlock()

	if err != nil {
		return err
	}

	if outcome.started {
		log.Info("game started", "room_id", roomID)
	}

	return nil
}

// SendChat relays a message to the caller's room, or to everyone outside a
// room when the caller has none.
func (that *GameManager) SendChat(connID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return apperror.ErrEmptyMessage
	}

	session, ok := that.sessions.Get(connID)
	if !ok || session.Name == "" {
		return apperror.ErrNoSession
	}

	payload := ChatMessagePayload{
		From:    entity.Player{ID: connID, Name: session.Name},
		Message: message,
		SentAt:  time.Now(),
	}

	if session.RoomID == "" {
		that.notifier.ToConns(that.sessions.LobbyIDs(), EventChatMessage, payload)

		return nil
	}

	room, ok := that.rooms.Get(session.RoomID)
	if !ok {
		return apperror.ErrRoomNotFound
	}

	room.mu.Lock()
	room.touch(payload.SentAt)
	that.notifier.ToConns(room.occupantIDs(), EventChatMessage, payload)
	room.mu.Unlock()

	return nil
}

// RestartGame resets the caller's room for a rematch. Both seats must still
// be taken.
func (that *GameManager) RestartGame(connID string) error {
	log := that.logger.With("method", "RestartGame")

	room, roomID, err := that.roomOf(connID)
	if err != nil {
		return err
	}

	room.mu.Lock()
	snapshot, err := room.reset(time.Now())
	if err == nil {
		that.notifier.ToConns(room.occupantIDs(), EventGameRestarted, GameStartedPayload{Room: snapshot})
	}
	room.mu.Unlock()

	if err != nil {
		return err
	}

	log.Info("game restarted", "room_id", roomID)

	return nil
}

// LeaveRoom is a voluntary departure: same consequences as a disconnect,
// but the connection stays and can queue or join again.
func (that *GameManager) LeaveRoom(connID string) error {
	session, ok := that.sessions.Get(connID)
	if !ok {
		return apperror.ErrNoSession
	}

	if session.RoomID == "" {
		return apperror.ErrNoActiveRoom
	}

	that.sessions.ClearRoom(connID, session.RoomID)
	that.departRoom(connID, session.RoomID, EventPlayerLeft)

	return nil
}

// Status reports the live state for operational endpoints.
func (that *GameManager) Status() Status {
	rooms := that.rooms.List()

	snapshots := make([]entity.RoomSnapshot, 0, len(rooms))
	for _, room := range rooms {
		room.mu.Lock()
		snapshots = append(snapshots, room.snapshot())
		room.mu.Unlock()
	}

	return Status{
		Connected: that.sessions.Count(),
		Waiting:   that.queue.Len(),
		Rooms:     snapshots,
	}
}

// Status is the point-in-time view served by the REST status endpoint.
type Status struct {
	Connected int                   `json:"connected"`
	Waiting   int                   `json:"waiting"`
	Rooms     []entity.RoomSnapshot `json:"rooms"`
}

// tryPair drains the queue two players at a time.
func (that *GameManager) tryPair() {
	for {
		first, second, ok := that.queue.PopPair()
		if !ok {
			return
		}

		that.broadcastQueue()
		that.createMatch(first, second)
	}
}

// createMatch builds a room for a freshly paired couple and schedules the
// delayed start.
func (that *GameManager) createMatch(first, second *entity.Player) {
	log := that.logger.With("method", "createMatch")

	now := time.Now()
	room := that.newRegisteredRoom(now)

	room.mu.Lock()
	var snapshot entity.RoomSnapshot
	epoch := room.epoch
	for _, player := range []*entity.Player{first, second} {
		outcome, err := room.join(player, now, false)
		if err != nil {
			log.Error("failed to seat matched player", "room_id", room.id, "error", err)

			continue
		}
		snapshot = outcome.snapshot
	}
	room.mu.Unlock()

	// A player may disconnect between leaving the queue and being seated;
	// their seat is released right away so the opponent is not stranded
	// silently.
	for _, player := range []*entity.Player{first, second} {
		if !that.sessions.SetRoom(player.ID, room.id) {
			that.departRoom(player.ID, room.id, EventPlayerDisconnected)
		}
	}

	for _, player := range snapshot.Players {
		that.notifier.ToConn(player.ID, EventMatchFound, RoomPayload{Room: snapshot, You: player})
	}

	that.scheduleAutoStart(room.id, epoch)

	log.Info("match created", "room_id", room.id, "black", first.Name, "white", second.Name)
}

// departRoom removes a player from a room and settles the fallout: forfeit
// mid-game, shrink before it, close when nobody is left.
func (that *GameManager) departRoom(playerID, roomID, event string) {
	room, ok := that.rooms.Get(roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	outcome, ok := room.removePlayer(playerID, time.Now())
	if !ok {
		room.mu.Unlock()

		return
	}

	closedNow := false
	if outcome.empty {
		_, closedNow = room.close()
	}

	if len(outcome.remaining) > 0 {
		ids := playerIDs(outcome.remaining)
		that.notifier.ToConns(ids, event, PlayerEventPayload{Player: outcome.player})
		if outcome.finished {
			that.notifier.ToConns(ids, EventGameOver, *outcome.over)
		}
	}
	room.mu.Unlock()

	if closedNow {
		that.rooms.Remove(roomID)
		that.logger.Info("room closed", "room_id", roomID, "reason", "empty")
	}

	if outcome.finished {
		that.archiveMatch(outcome.record)
		that.scheduleExpiry(roomID, outcome.epoch)
	}
}

// roomOf resolves the caller's current room.
func (that *GameManager) roomOf(connID string) (*Room, string, error) {
	session, ok := that.sessions.Get(connID)
	if !ok {
		return nil, "", apperror.ErrNoSession
	}

	if session.RoomID == "" {
		return nil, "", apperror.ErrNoActiveRoom
	}

	room, ok := that.rooms.Get(session.RoomID)
	if !ok {
		return nil, "", apperror.ErrRoomNotFound
	}

	return room, session.RoomID, nil
}

// newRegisteredRoom generates IDs until one is free in the registry.
func (that *GameManager) newRegisteredRoom(now time.Time) *Room {
	for {
		room := newRoom(pkg.GenerateRoomID(), now)
		if that.rooms.Insert(room) {
			return room
		}
	}
}

// archiveMatch hands a finished game to the archive without holding up the
// players.
func (that *GameManager) archiveMatch(record *entity.MatchRecord) {
	if that.archive == nil || record == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				that.logger.Error("match archive panicked", "room_id", record.RoomID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		if err := that.archive.Save(ctx, record); err != nil {
			that.logger.Error("failed to archive match", "room_id", record.RoomID, "error", err)
		}
	}()
}

func (that *GameManager) broadcastOnline() {
	that.notifier.Broadcast(EventOnlineCount, OnlineCountPayload{Online: that.sessions.Count()})
}

func (that *GameManager) broadcastQueue() {
	that.notifier.Broadcast(EventQueueUpdate, QueueUpdatePayload{Waiting: that.queue.Len()})
}

func normalizeUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return "", apperror.ErrEmptyUsername
	}

	if utf8.RuneCountInString(name) > entity.MaxUsernameLen {
		return "", apperror.ErrUsernameTooLong
	}

	return name, nil
}

func playerIDs(players []entity.Player) []string {
	ids := make([]string, 0, len(players))
	for _, player := range players {
		ids = append(ids, player.ID)
	}

	return ids
}

func snapshotIDs(snapshot entity.RoomSnapshot) []string {
	return playerIDs(snapshot.Players)
}
