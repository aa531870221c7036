package live

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_BroadcastReachesRoomOnly(t *testing.T) {
	hub := newTestHub(t)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, RoomForHackathon(r.URL.Query().Get("id")))
		if hub.Join(client) {
			go client.WritePump()
			go client.ReadPump()
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	connA, _, err := websocket.DefaultDialer.Dial(wsURL+"?id=a", nil)
	require.NoError(t, err)
	defer connA.Close()
	connB, _, err := websocket.DefaultDialer.Dial(wsURL+"?id=b", nil)
	require.NoError(t, err)
	defer connB.Close()

	require.Eventually(t, func() bool {
		return hub.RoomSize(RoomForHackathon("a")) == 1 && hub.RoomSize(RoomForHackathon("b")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastToRoom(RoomForHackathon("a"), Message{Type: MessageRegistrationCreated, Payload: map[string]string{"_id": "r1"}})

	_ = connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := connA.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageRegistrationCreated, msg.Type)
	assert.Equal(t, "hackathon_a", msg.RoomID)

	_ = connB.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err, "room b must not receive room a events")
}

func TestHub_JoinAfterStop(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.Join(&Client{Hub: hub, Send: make(chan []byte, 1), Room: "x"}))
}
