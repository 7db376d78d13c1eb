package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func TestHubWelcomeFrame(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	conn := dialTestHub(t, h)

	frame := readFrame(t, conn)
	assert.Equal(t, EventConnected, frame.Event)
	assert.NotZero(t, frame.Timestamp)
}

func TestHubBroadcastReachesClient(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	conn := dialTestHub(t, h)
	readFrame(t, conn) // welcome

	h.Broadcast(EventOperationCreated, map[string]string{"operationId": "op-1"})

	frame := readFrame(t, conn)
	assert.Equal(t, EventOperationCreated, frame.Event)

	payload, ok := frame.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "op-1", payload["operationId"])
}

func TestBroadcastUnmarshalablePayloadIsDropped(t *testing.T) {
	h := NewHub()

	// Channels are not JSON-encodable; the frame never reaches the queue.
	h.Broadcast(EventLogMessage, make(chan int))

	select {
	case msg := <-h.broadcast:
		t.Fatalf("unexpected frame queued: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
