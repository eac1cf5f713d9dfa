package internal

import "log/slog"

// Registry owns every live room. No component reads or writes room
// internals without going through it. Like Room, it relies on the
// coordinator for serialization and holds no lock of its own.
type Registry struct {
	rooms  map[string]*Room
	gen    Generator
	logger *slog.Logger
}

// NewRegistry creates an empty registry. gen supplies blueprints for
// new rooms and lobby returns.
func NewRegistry(gen Generator, logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		gen:    gen,
		logger: logger,
	}
}

// JoinOrCreate resolves roomID (normalized) and inserts the session.
//
// Unseen id: a room is created with a fresh blueprint, state Waiting,
// and the requester as host. Existing Waiting room: the requester joins
// as a non-host session. Existing Playing room: ErrRoomInProgress, no
// mutation.
func (reg *Registry) JoinOrCreate(roomID, difficulty string, p *PlayerSession) (*Room, bool, error) {
	id := NormalizeRoomID(roomID)

	room, exists := reg.rooms[id]
	if !exists {
		room = NewRoom(id, difficulty, reg.gen)
		reg.rooms[id] = room
		room.AddPlayer(p)
		reg.logger.Info("room created",
			"room_id", id,
			"host_id", p.ID,
			"difficulty", difficulty)
		return room, true, nil
	}

	if room.State == StatePlaying {
		return nil, false, ErrRoomInProgress
	}

	room.AddPlayer(p)
	reg.logger.Info("player joined room",
		"room_id", id,
		"session_id", p.ID,
		"players", len(room.players))
	return room, false, nil
}

// Get resolves a room by (normalized) id.
func (reg *Registry) Get(roomID string) (*Room, bool) {
	room, ok := reg.rooms[NormalizeRoomID(roomID)]
	return room, ok
}

// RemoveIfEmpty deletes the room when its last session has left.
// Called after every player removal.
func (reg *Registry) RemoveIfEmpty(roomID string) bool {
	id := NormalizeRoomID(roomID)
	room, ok := reg.rooms[id]
	if !ok || !room.Empty() {
		return false
	}
	delete(reg.rooms, id)
	reg.logger.Info("room removed", "room_id", id)
	return true
}

// Generator exposes the blueprint source so lobby returns regenerate
// through the same injected generator.
func (reg *Registry) Generator() Generator { return reg.gen }

// Stats summarizes registry state for the stats endpoint.
func (reg *Registry) Stats() map[string]any {
	stateCount := make(map[RoomState]int)
	totalPlayers := 0
	for _, room := range reg.rooms {
		stateCount[room.State]++
		totalPlayers += len(room.players)
	}
	return map[string]any{
		"total_rooms":   len(reg.rooms),
		"total_players": totalPlayers,
		"by_state":      stateCount,
	}
}
