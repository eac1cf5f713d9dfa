package internal

import (
	"encoding/json"
	"log/slog"
)

// Sender delivers one marshaled server→client message to a single
// session. Implementations must not block: the WebSocket transport
// buffers into a per-connection channel, and tests record in memory.
type Sender interface {
	Send(data []byte)
}

// Broadcaster fans out events to the sessions of a room and computes
// leaderboard snapshots. Fan-out is fire-and-forget; a session with no
// attached sender is skipped.
type Broadcaster struct {
	senders map[string]Sender
	logger  *slog.Logger
}

// NewBroadcaster creates a broadcaster with no attached senders.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		senders: make(map[string]Sender),
		logger:  logger,
	}
}

// Attach registers the outbound side of a session's connection.
func (b *Broadcaster) Attach(sessionID string, s Sender) {
	b.senders[sessionID] = s
}

// Detach removes a session's sender. Safe to call twice.
func (b *Broadcaster) Detach(sessionID string) {
	delete(b.senders, sessionID)
}

// ToOne sends a message to a single session.
func (b *Broadcaster) ToOne(sessionID, kind string, payload any) {
	data, ok := b.marshal(kind, payload)
	if !ok {
		return
	}
	if s, found := b.senders[sessionID]; found {
		s.Send(data)
	}
}

// ToRoom sends a message to every session in the room.
func (b *Broadcaster) ToRoom(room *Room, kind string, payload any) {
	b.toRoomExcept(room, "", kind, payload)
}

// ToOthers sends a message to every session in the room except one,
// the shape of player-state deltas, which the reporting client already
// knows.
func (b *Broadcaster) ToOthers(room *Room, exceptID, kind string, payload any) {
	b.toRoomExcept(room, exceptID, kind, payload)
}

// Leaderboard recomputes the room's leaderboard and broadcasts it.
func (b *Broadcaster) Leaderboard(room *Room) {
	b.ToRoom(room, KindUpdateLeader, ComputeLeaderboard(room))
}

func (b *Broadcaster) toRoomExcept(room *Room, exceptID, kind string, payload any) {
	data, ok := b.marshal(kind, payload)
	if !ok {
		return
	}
	for _, p := range room.Players() {
		if p.ID == exceptID {
			continue
		}
		if s, found := b.senders[p.ID]; found {
			s.Send(data)
		}
	}
}

func (b *Broadcaster) marshal(kind string, payload any) ([]byte, bool) {
	msg := struct {
		Kind    string `json:"kind"`
		Payload any    `json:"payload"`
	}{Kind: kind, Payload: payload}

	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("failed to marshal outbound message",
			"kind", kind,
			"error", err)
		return nil, false
	}
	return data, true
}
