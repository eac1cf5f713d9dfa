package internal_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/catarinogabrielle/neon-glide/internal"
	"github.com/stretchr/testify/require"
)

// testLogger keeps test output quiet unless something goes wrong.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// recordedMessage is one server→client message captured by fakeSender.
type recordedMessage struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// fakeSender records outbound messages in memory so coordinator tests
// run with no live transport.
type fakeSender struct {
	mu       sync.Mutex
	messages []recordedMessage
}

func (s *fakeSender) Send(data []byte) {
	var msg recordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		panic("fakeSender: malformed outbound message: " + err.Error())
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
}

// byKind returns every captured message of one kind, in arrival order.
func (s *fakeSender) byKind(kind string) []recordedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedMessage
	for _, m := range s.messages {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// last returns the most recent message of one kind.
func (s *fakeSender) last(t *testing.T, kind string) recordedMessage {
	t.Helper()
	msgs := s.byKind(kind)
	require.NotEmpty(t, msgs, "expected at least one %q message", kind)
	return msgs[len(msgs)-1]
}

func (s *fakeSender) count(kind string) int {
	return len(s.byKind(kind))
}

func (s *fakeSender) reset() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
}

// decode unmarshals a captured payload into out.
func decode(t *testing.T, msg recordedMessage, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(msg.Payload, out))
}

// envelope builds an inbound envelope with a marshaled payload.
func envelope(t *testing.T, kind string, payload any) internal.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return internal.Envelope{Kind: kind, Payload: data}
}

// newTestCoordinator wires a coordinator with the default generator.
func newTestCoordinator() *internal.Coordinator {
	logger := testLogger()
	registry := internal.NewRegistry(internal.NewGenerator(), logger)
	return internal.NewCoordinator(registry, internal.NewBroadcaster(logger), logger)
}

// join connects a fake sender and issues a joinOrCreateRoom for it.
func join(t *testing.T, c *internal.Coordinator, sessionID, roomID, name string) *fakeSender {
	t.Helper()
	sender := &fakeSender{}
	c.Connect(sessionID, sender)
	c.HandleEnvelope(sessionID, envelope(t, internal.KindJoinOrCreateRoom, map[string]any{
		"roomId": roomID,
		"name":   name,
	}))
	return sender
}

// roomJoinedView mirrors the roomJoined wire payload for decoding.
type roomJoinedView struct {
	RoomID     string    `json:"roomId"`
	Blueprint  []float64 `json:"blueprint"`
	Difficulty string    `json:"difficulty"`
	IsHost     bool      `json:"isHost"`
}

type updatePlayerView struct {
	ID   string  `json:"id"`
	Y    float64 `json:"y"`
	Dist float64 `json:"dist"`
}

type leaderboardView struct {
	Top  leaderboardEntryView   `json:"top"`
	List []leaderboardEntryView `json:"list"`
}

type leaderboardEntryView struct {
	Name  string  `json:"name"`
	Score int     `json:"score"`
	Dist  float64 `json:"dist"`
	Dead  bool    `json:"dead"`
	Color string  `json:"color"`
}
