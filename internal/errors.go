package internal

import "errors"

// Error taxonomy for the coordinator.
//
// Only ErrRoomInProgress is ever surfaced to a client (as a roomError
// message). ErrRoomNotFound and ErrSessionNotFound mark events that
// arrived after their target disappeared; the coordinator absorbs them
// as no-ops and at most logs. ErrNotHost covers start/return requests
// from a non-host session, which are silently ignored by design.
// ErrInvalidPayload rejects malformed client payloads before they can
// leak undefined values into broadcast state.
var (
	ErrRoomInProgress  = errors.New("room is already playing")
	ErrRoomNotFound    = errors.New("room not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotHost         = errors.New("session is not the room host")
	ErrInvalidPayload  = errors.New("invalid payload")
)
