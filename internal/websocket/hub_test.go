package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(h *Hub) *Client {
	return &Client{
		hub:         h,
		send:        make(chan []byte, 8),
		id:          "test-client",
		connectedAt: time.Now(),
		logger:      testLogger(),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub)
	hub.register <- client

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.unregister <- client

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubBroadcastDataUpdate(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub)
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastDataUpdate("snap-1", 42)

	select {
	case payload := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, TypeDataUpdate, msg.Type)

		data, ok := msg.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "snap-1", data["snapshot_id"])
		assert.Equal(t, float64(42), data["record_count"])
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	client := newTestClient(hub)
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Stop()

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client send channel not closed")
	}
}
