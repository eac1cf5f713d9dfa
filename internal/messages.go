package internal

import "encoding/json"

// Wire message kinds. One full-duplex stream per connection carries
// envelopes of these kinds in both directions.
const (
	// client → server
	KindJoinOrCreateRoom = "joinOrCreateRoom"
	KindStartGame        = "startGame"
	KindReturnToLobby    = "returnToLobby"
	KindMove             = "move"
	KindScoreUpdate      = "scoreUpdate"
	KindDied             = "died"

	// server → client
	KindRoomJoined      = "roomJoined"
	KindRoomError       = "roomError"
	KindCurrentPlayers  = "currentPlayers"
	KindNewPlayer       = "newPlayer"
	KindLobbyUpdate     = "lobbyUpdate"
	KindGameStarted     = "gameStarted"
	KindReturnedToLobby = "returnedToLobby"
	KindUpdatePlayer    = "updatePlayer"
	KindUpdateLeader    = "updateLeader"
	KindPlayerDied      = "playerDied"
	KindRoundOver       = "roundOver"
	KindRemovePlayer    = "removePlayer"
)

// Envelope is the single inbound message shape. The session id is not
// part of the wire format; the transport resolves it from the
// connection and threads it through the dispatch call.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Inbound payloads. Required fields are pointers so that a missing
// field is distinguishable from a zero value and can be rejected as
// ErrInvalidPayload instead of flowing into broadcast state.

type joinOrCreateRoomPayload struct {
	RoomID     *string `json:"roomId"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Difficulty string  `json:"difficulty"`
}

type movePayload struct {
	Y    *float64 `json:"y"`
	Dist *float64 `json:"dist"`
}

type scoreUpdatePayload struct {
	Score *int `json:"score"`
}

// Outbound payloads.

type roomJoinedPayload struct {
	RoomID     string    `json:"roomId"`
	Blueprint  Blueprint `json:"blueprint"`
	Difficulty string    `json:"difficulty"`
	IsHost     bool      `json:"isHost"`
}

type roomErrorPayload struct {
	Message string `json:"message"`
}

type returnedToLobbyPayload struct {
	Blueprint Blueprint `json:"blueprint"`
}

type updatePlayerPayload struct {
	ID   string  `json:"id"`
	Y    float64 `json:"y"`
	Dist float64 `json:"dist"`
}

type sessionIDPayload struct {
	ID string `json:"id"`
}
