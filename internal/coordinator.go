package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Coordinator maps inbound connection events onto room and session
// mutations and triggers the resulting broadcasts.
//
// Concurrency model: one mutex serializes every envelope, connect and
// disconnect. Room, Registry and Broadcaster carry no locks of their
// own; as long as each inbound event is handled indivisibly under mu,
// no other discipline is needed. The real hazard is interleaving of
// independently-arriving events: a move for a session that just
// disconnected, or a startGame from a departed host. Every handler
// re-resolves room and session by id and is a no-op if either is
// absent. No handler blocks; all fan-out is fire-and-forget.
type Coordinator struct {
	mu          sync.Mutex
	registry    *Registry
	broadcast   *Broadcaster
	logger      *slog.Logger
	sessionRoom map[string]string // session id → room id
	handlers    map[string]func(string, json.RawMessage) error
}

// NewCoordinator wires the dispatcher around a registry and a
// broadcaster.
func NewCoordinator(registry *Registry, broadcast *Broadcaster, logger *slog.Logger) *Coordinator {
	c := &Coordinator{
		registry:    registry,
		broadcast:   broadcast,
		logger:      logger,
		sessionRoom: make(map[string]string),
	}
	c.handlers = map[string]func(string, json.RawMessage) error{
		KindJoinOrCreateRoom: c.handleJoinOrCreateRoom,
		KindStartGame:        c.handleStartGame,
		KindReturnToLobby:    c.handleReturnToLobby,
		KindMove:             c.handleMove,
		KindScoreUpdate:      c.handleScoreUpdate,
		KindDied:             c.handleDied,
	}
	return c
}

// Connect attaches the outbound side of a new connection. The session
// joins no room until it sends joinOrCreateRoom.
func (c *Coordinator) Connect(sessionID string, s Sender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broadcast.Attach(sessionID, s)
}

// HandleEnvelope routes one inbound message through the handler table.
// Unknown kinds and payload errors never propagate to the transport;
// the connection stays up.
func (c *Coordinator) HandleEnvelope(sessionID string, env Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	handler, ok := c.handlers[env.Kind]
	if !ok {
		c.logger.Debug("unknown message kind",
			"kind", env.Kind,
			"session_id", sessionID)
		return
	}

	if err := handler(sessionID, env.Payload); err != nil {
		c.logger.Warn("message rejected",
			"kind", env.Kind,
			"session_id", sessionID,
			"error", err)
	}
}

// Disconnect removes the session from its room, replicates the removal
// and tears the room down once empty. Cancellation in this system is
// solely disconnect-driven.
func (c *Coordinator) Disconnect(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.broadcast.Detach(sessionID)
	c.leaveRoom(sessionID)
}

// Stats summarizes coordinator state for the stats endpoint.
func (c *Coordinator) Stats() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.registry.Stats()
	stats["bound_sessions"] = len(c.sessionRoom)
	return stats
}

func (c *Coordinator) handleJoinOrCreateRoom(sessionID string, raw json.RawMessage) error {
	var req joinOrCreateRoomPayload
	if err := json.Unmarshal(raw, &req); err != nil || req.RoomID == nil {
		c.broadcast.ToOne(sessionID, KindRoomError, roomErrorPayload{Message: "invalid join request"})
		return fmt.Errorf("%w: joinOrCreateRoom", ErrInvalidPayload)
	}

	// Reject before touching any state: a failed join must not mutate
	// the target room nor evict the session from its current one.
	if target, ok := c.registry.Get(*req.RoomID); ok && target.State == StatePlaying {
		c.broadcast.ToOne(sessionID, KindRoomError, roomErrorPayload{Message: "room is already playing"})
		return nil
	}

	// A session re-joining from a lobby screen leaves its old room the
	// same way a disconnect would, minus the sender teardown.
	c.leaveRoom(sessionID)

	session := NewPlayerSession(sessionID, req.Name, req.Color)
	room, isHost, err := c.registry.JoinOrCreate(*req.RoomID, req.Difficulty, session)
	if errors.Is(err, ErrRoomInProgress) {
		c.broadcast.ToOne(sessionID, KindRoomError, roomErrorPayload{Message: "room is already playing"})
		return nil
	}
	if err != nil {
		return err
	}

	c.sessionRoom[sessionID] = room.ID

	c.broadcast.ToOne(sessionID, KindRoomJoined, roomJoinedPayload{
		RoomID:     room.ID,
		Blueprint:  room.Blueprint,
		Difficulty: room.Difficulty,
		IsHost:     isHost,
	})
	c.broadcast.ToOne(sessionID, KindCurrentPlayers, room.PlayerMap())
	c.broadcast.ToOthers(room, sessionID, KindNewPlayer, session)
	c.broadcast.Leaderboard(room)
	return nil
}

func (c *Coordinator) handleStartGame(sessionID string, _ json.RawMessage) error {
	room, _, ok := c.resolve(sessionID)
	if !ok {
		return nil
	}

	if err := room.Start(sessionID); err != nil {
		// Non-host requests are ignored without signaling the caller.
		c.logger.Debug("start request dropped",
			"room_id", room.ID,
			"session_id", sessionID,
			"error", err)
		return nil
	}

	c.logger.Info("game started", "room_id", room.ID)
	c.broadcast.ToRoom(room, KindGameStarted, struct{}{})
	return nil
}

func (c *Coordinator) handleReturnToLobby(sessionID string, _ json.RawMessage) error {
	room, _, ok := c.resolve(sessionID)
	if !ok {
		return nil
	}

	if err := room.ReturnToLobby(sessionID, c.registry.Generator()); err != nil {
		c.logger.Debug("lobby return dropped",
			"room_id", room.ID,
			"session_id", sessionID,
			"error", err)
		return nil
	}

	c.logger.Info("room returned to lobby", "room_id", room.ID)
	c.broadcast.ToRoom(room, KindReturnedToLobby, returnedToLobbyPayload{Blueprint: room.Blueprint})
	c.broadcast.ToRoom(room, KindLobbyUpdate, room.PlayerMap())
	c.broadcast.Leaderboard(room)
	return nil
}

func (c *Coordinator) handleMove(sessionID string, raw json.RawMessage) error {
	var req movePayload
	if err := json.Unmarshal(raw, &req); err != nil || req.Y == nil || req.Dist == nil {
		return fmt.Errorf("%w: move", ErrInvalidPayload)
	}

	room, session, ok := c.resolve(sessionID)
	if !ok {
		return nil
	}

	// Last write wins. If the transport reorders two reports the later
	// arrival sticks even when logically stale.
	session.Y = *req.Y
	session.Dist = *req.Dist

	c.broadcast.ToOthers(room, sessionID, KindUpdatePlayer, updatePlayerPayload{
		ID:   sessionID,
		Y:    session.Y,
		Dist: session.Dist,
	})
	return nil
}

func (c *Coordinator) handleScoreUpdate(sessionID string, raw json.RawMessage) error {
	var req scoreUpdatePayload
	if err := json.Unmarshal(raw, &req); err != nil || req.Score == nil {
		return fmt.Errorf("%w: scoreUpdate", ErrInvalidPayload)
	}

	room, session, ok := c.resolve(sessionID)
	if !ok {
		return nil
	}

	// Unconditional overwrite; scores are not required to be monotonic.
	session.Score = *req.Score
	c.broadcast.Leaderboard(room)
	return nil
}

func (c *Coordinator) handleDied(sessionID string, _ json.RawMessage) error {
	room, session, ok := c.resolve(sessionID)
	if !ok {
		return nil
	}

	session.Dead = true
	c.broadcast.ToRoom(room, KindPlayerDied, sessionIDPayload{ID: sessionID})
	c.checkRoundOver(room)
	return nil
}

// resolve re-resolves the room and session for an event. Events for
// sessions that are not in a room, or whose room vanished, are no-ops.
func (c *Coordinator) resolve(sessionID string) (*Room, *PlayerSession, bool) {
	roomID, ok := c.sessionRoom[sessionID]
	if !ok {
		return nil, nil, false
	}
	room, ok := c.registry.Get(roomID)
	if !ok {
		return nil, nil, false
	}
	session, ok := room.Player(sessionID)
	if !ok {
		return nil, nil, false
	}
	return room, session, true
}

// leaveRoom detaches the session from its room, replicates the removal
// and deletes the room when it is left empty. Caller holds mu.
func (c *Coordinator) leaveRoom(sessionID string) {
	roomID, ok := c.sessionRoom[sessionID]
	if !ok {
		return
	}
	delete(c.sessionRoom, sessionID)

	room, ok := c.registry.Get(roomID)
	if !ok {
		return
	}
	if !room.RemovePlayer(sessionID) {
		return
	}

	if c.registry.RemoveIfEmpty(roomID) {
		return
	}

	c.broadcast.ToRoom(room, KindRemovePlayer, sessionIDPayload{ID: sessionID})
	c.broadcast.Leaderboard(room)
	c.checkRoundOver(room)
}

// checkRoundOver fires the informational roundOver broadcast when no
// remaining session is alive. It is deliberately stateless and not
// deduplicated: each qualifying death or disconnect re-fires it until
// the host returns the room to the lobby.
func (c *Coordinator) checkRoundOver(room *Room) {
	if room.State != StatePlaying || room.Empty() || !room.AllDead() {
		return
	}
	c.broadcast.ToRoom(room, KindRoundOver, struct{}{})
}
