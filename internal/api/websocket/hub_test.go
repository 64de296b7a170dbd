package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubBroadcastsToClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.Broadcast(NewSessionUpdatedMessage(SessionUpdatedData{
		SessionID:        "abc",
		DeviceKey:        "io12",
		ControllerNumber: 3,
		RowsRewritten:    2,
	}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type MessageType        `json:"type"`
		Data SessionUpdatedData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTypeSessionUpdated, msg.Type)
	assert.Equal(t, "io12", msg.Data.DeviceKey)
	assert.Equal(t, 3, msg.Data.ControllerNumber)
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool { return hub.GetClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestBroadcastWithoutRunDropsWhenFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	for i := 0; i < cap(hub.broadcast)+5; i++ {
		hub.Broadcast(NewSystemStatusMessage("RUNNING", "INITIALIZING"))
	}
	assert.Equal(t, cap(hub.broadcast), len(hub.broadcast))
}
