package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRoomServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		diagramID, err := uuid.Parse(r.URL.Query().Get("diagram"))
		if err != nil {
			http.Error(w, "bad diagram id", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub.Room(diagramID), conn, r.URL.Query().Get("user"))
		go client.Run()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, diagramID uuid.UUID, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?diagram=" + diagramID.String() + "&user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func readPresence(t *testing.T, conn *websocket.Conn) []PresencePayload {
	t.Helper()
	env := readEnvelope(t, conn)
	require.Equal(t, EventPresence, env.Type)
	var roster []PresencePayload
	require.NoError(t, json.Unmarshal(env.Payload, &roster))
	return roster
}

func TestPresenceBroadcastOnJoinAndLeave(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := newRoomServer(t, hub)
	diagramID := uuid.New()

	alice := dial(t, srv, diagramID, "alice")
	require.Len(t, readPresence(t, alice), 1)

	bob := dial(t, srv, diagramID, "bob")
	require.Len(t, readPresence(t, bob), 2)

	roster := readPresence(t, alice)
	require.Len(t, roster, 2)
	users := []string{roster[0].User, roster[1].User}
	assert.ElementsMatch(t, []string{"alice", "bob"}, users)

	bob.Close()
	require.Len(t, readPresence(t, alice), 1)
}

func TestCursorFansOutToOtherParticipants(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := newRoomServer(t, hub)
	diagramID := uuid.New()

	alice := dial(t, srv, diagramID, "alice")
	readPresence(t, alice)
	bob := dial(t, srv, diagramID, "bob")
	readPresence(t, bob)
	readPresence(t, alice)

	require.NoError(t, bob.WriteJSON(Envelope{
		Type:    EventCursor,
		Payload: json.RawMessage(`{"x": 120, "y": 80}`),
	}))

	env := readEnvelope(t, alice)
	require.Equal(t, EventCursor, env.Type)
	var cursor CursorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &cursor))
	assert.Equal(t, 120.0, cursor.X)
	assert.Equal(t, 80.0, cursor.Y)
	// identity and color are stamped server-side, never trusted from the wire
	assert.Equal(t, "bob", cursor.User)
	assert.NotEmpty(t, cursor.Color)
}

func TestMalformedEnvelopeIsRejectedNotForwarded(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := newRoomServer(t, hub)
	diagramID := uuid.New()

	alice := dial(t, srv, diagramID, "alice")
	readPresence(t, alice)
	bob := dial(t, srv, diagramID, "bob")
	readPresence(t, bob)
	readPresence(t, alice)

	require.NoError(t, bob.WriteJSON(Envelope{Type: "replace_all", Payload: json.RawMessage(`{}`)}))
	require.NoError(t, bob.WriteJSON(Envelope{Type: EventCursor, Payload: json.RawMessage(`"not an object"`)}))

	alice.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var env Envelope
	assert.Error(t, alice.ReadJSON(&env), "rejected messages must not be forwarded")
}

func TestCursorThrottleDropsExcessPositions(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := newRoomServer(t, hub)
	diagramID := uuid.New()

	alice := dial(t, srv, diagramID, "alice")
	readPresence(t, alice)
	bob := dial(t, srv, diagramID, "bob")
	readPresence(t, bob)
	readPresence(t, alice)

	// a burst well inside the 30ms window: only the first position survives
	for i := 0; i < 5; i++ {
		require.NoError(t, bob.WriteJSON(Envelope{
			Type:    EventCursor,
			Payload: json.RawMessage(`{"x": 1, "y": 1}`),
		}))
	}

	env := readEnvelope(t, alice)
	require.Equal(t, EventCursor, env.Type)

	alice.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var extra Envelope
	assert.Error(t, alice.ReadJSON(&extra), "throttled positions must be dropped")
}

func TestSubscriptionDeliversTypedEventsUntilCanceled(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := newRoomServer(t, hub)
	diagramID := uuid.New()
	sub := hub.Room(diagramID).Subscribe()

	alice := dial(t, srv, diagramID, "alice")
	readPresence(t, alice)

	select {
	case ev := <-sub.C:
		require.Equal(t, EventPresence, ev.Type)
		require.Len(t, ev.Presence, 1)
		assert.Equal(t, "alice", ev.Presence[0].User)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for presence event")
	}

	sub.Cancel()
	bob := dial(t, srv, diagramID, "bob")
	readPresence(t, bob)

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok, "no further events after cancel")
	case <-time.After(100 * time.Millisecond):
		// nothing delivered: canceled subscriptions go quiet
	}
}

func TestColorAssignmentIsStable(t *testing.T) {
	assert.Equal(t, colorFor("alice@example.com"), colorFor("alice@example.com"))
}
