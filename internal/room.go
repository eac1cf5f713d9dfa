package internal

import "strings"

// RoomState is the room lifecycle state.
//
// State machine:
//
//	Waiting → Playing   (host startGame)
//	Playing → Waiting   (host returnToLobby, blueprint regenerated)
//
// "Round over" is not a state: it is an informational broadcast fired
// whenever a death or disconnect leaves no live session, and it may
// fire repeatedly while the room stays in Playing.
type RoomState string

const (
	StateWaiting RoomState = "waiting"
	StatePlaying RoomState = "playing"
)

// Room is a named, isolated game instance. It is not safe for
// concurrent use on its own; the coordinator serializes every mutation
// (see Coordinator).
//
// players carries the authoritative session set; order records
// insertion order, which the leaderboard uses as its tie-break.
type Room struct {
	ID         string
	Difficulty string
	State      RoomState
	HostID     string
	Blueprint  Blueprint

	players map[string]*PlayerSession
	order   []string
}

// NormalizeRoomID canonicalizes a client-supplied room identifier:
// surrounding whitespace is stripped and the id uppercased, so "abcd"
// and " ABCD " address the same room.
func NormalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// NewRoom creates a waiting room with a fresh blueprint. The host
// session is inserted by the registry, not here.
func NewRoom(id, difficulty string, gen Generator) *Room {
	return &Room{
		ID:         id,
		Difficulty: difficulty,
		State:      StateWaiting,
		Blueprint:  gen.Generate(),
		players:    make(map[string]*PlayerSession),
	}
}

// AddPlayer inserts a session. The first session added becomes the
// host; host identity never transfers afterwards, even if the host
// leaves (known limitation: the room stays hostless until empty).
func (r *Room) AddPlayer(p *PlayerSession) {
	if len(r.players) == 0 {
		p.IsHost = true
		r.HostID = p.ID
	}
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
}

// RemovePlayer deletes a session and reports whether it was present.
func (r *Room) RemovePlayer(sessionID string) bool {
	if _, ok := r.players[sessionID]; !ok {
		return false
	}
	delete(r.players, sessionID)
	for i, id := range r.order {
		if id == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Player resolves a session by id.
func (r *Room) Player(sessionID string) (*PlayerSession, bool) {
	p, ok := r.players[sessionID]
	return p, ok
}

// Players returns the sessions in insertion order.
func (r *Room) Players() []*PlayerSession {
	out := make([]*PlayerSession, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// PlayerMap returns the session mapping as sent in currentPlayers and
// lobbyUpdate payloads.
func (r *Room) PlayerMap() map[string]*PlayerSession {
	out := make(map[string]*PlayerSession, len(r.players))
	for id, p := range r.players {
		out[id] = p
	}
	return out
}

// Empty reports whether no sessions remain.
func (r *Room) Empty() bool { return len(r.players) == 0 }

// IsHost reports whether sessionID created this room.
func (r *Room) IsHost(sessionID string) bool {
	return r.HostID != "" && r.HostID == sessionID
}

// Start moves the room into a round. Host-only.
func (r *Room) Start(sessionID string) error {
	if !r.IsHost(sessionID) {
		return ErrNotHost
	}
	if r.State != StateWaiting {
		return ErrRoomInProgress
	}
	r.State = StatePlaying
	return nil
}

// ReturnToLobby ends a round: the room goes back to Waiting, the
// blueprint is regenerated for the next cycle, and every session's
// round telemetry is reset. Host-only; a no-op while already Waiting.
func (r *Room) ReturnToLobby(sessionID string, gen Generator) error {
	if !r.IsHost(sessionID) {
		return ErrNotHost
	}
	if r.State != StatePlaying {
		return nil
	}
	r.State = StateWaiting
	r.Blueprint = gen.Generate()
	for _, p := range r.players {
		p.ResetForLobby()
	}
	return nil
}

// AllDead reports whether no remaining session is alive.
func (r *Room) AllDead() bool {
	for _, p := range r.players {
		if !p.Dead {
			return false
		}
	}
	return true
}
