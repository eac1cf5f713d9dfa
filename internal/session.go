package internal

const (
	// DefaultName and DefaultColor fill in missing display metadata on
	// join.
	DefaultName  = "Player"
	DefaultColor = "#00ffff"

	// SpawnY is the vertical position every session starts a round at.
	SpawnY = 300.0
)

// PlayerSession is the per-connection record of a participant's
// replicated state. The coordinator trusts client-reported telemetry:
// y, dist and score are last-write-wins overwrites with no validation.
type PlayerSession struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	IsHost bool    `json:"isHost"`
	Y      float64 `json:"y"`
	Dist   float64 `json:"dist"`
	Score  int     `json:"score"`
	Dead   bool    `json:"dead"`
}

// NewPlayerSession builds a session with defaulted display metadata and
// the initial spawn state.
func NewPlayerSession(id, name, color string) *PlayerSession {
	if name == "" {
		name = DefaultName
	}
	if color == "" {
		color = DefaultColor
	}
	return &PlayerSession{
		ID:    id,
		Name:  name,
		Color: color,
		Y:     SpawnY,
	}
}

// ResetForLobby clears one round's telemetry when the room returns to
// the lobby.
func (p *PlayerSession) ResetForLobby() {
	p.Y = SpawnY
	p.Dist = 0
	p.Score = 0
	p.Dead = false
}
