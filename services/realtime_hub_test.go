package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// dialTestClient upgrades one connection against an httptest server and
// registers it with the hub.
func dialTestClient(t *testing.T, hub *RealtimeHub, userID string) (*WSClient, *websocket.Conn, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	registered := make(chan *WSClient, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		cl := &WSClient{UserID: userID, Conn: conn}
		hub.Register(cl)
		registered <- cl
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	cl := <-registered
	cleanup := func() {
		_ = peer.Close()
		srv.Close()
	}
	return cl, peer, cleanup
}

func TestRealtimeHub_BroadcastReachesUserSessions(t *testing.T) {
	hub := NewRealtimeHub()
	_, peer, cleanup := dialTestClient(t, hub, "u1")
	defer cleanup()

	hub.BroadcastScan("u1", "scan.created", map[string]any{"foodName": "Apple"})

	_, msg, err := peer.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(msg), `"event":"scan.created"`)
	require.Contains(t, string(msg), "Apple")
}

func TestRealtimeHub_OtherUsersHearNothing(t *testing.T) {
	hub := NewRealtimeHub()
	cl, _, cleanup := dialTestClient(t, hub, "u2")
	defer cleanup()

	// no session for u1: broadcast must be a no-op, not a delivery to u2
	hub.BroadcastScan("u1", "scan.created", map[string]any{"foodName": "Apple"})
	hub.Unregister(cl)
}

// Broadcasts and keep-alive pings hit the same connection from different
// goroutines; gorilla/websocket panics on concurrent writes, so this passes
// only when every write path is serialized per client.
func TestRealtimeHub_ConcurrentBroadcastAndPing(t *testing.T) {
	hub := NewRealtimeHub()
	cl, peer, cleanup := dialTestClient(t, hub, "u1")
	defer cleanup()

	// drain the peer so server-side writes never block on a full buffer
	go func() {
		for {
			if _, _, err := peer.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.BroadcastScan("u1", "scan.created", map[string]any{"foodName": "Apple"})
		}()
		go func() {
			defer wg.Done()
			_ = cl.Ping()
		}()
	}
	wg.Wait()
}
