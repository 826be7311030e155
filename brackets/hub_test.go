/* hub_test.go
 * Tests for room registration in the websocket hub
 */

package brackets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubJoin(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	room := RoomForTournament(7)
	client := &Client{Hub: hub, Send: make(chan []byte, 1), Room: room}
	require.True(t, hub.Join(client))
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastToRoom(room, WebSocketMessage{Type: EventTeamsUpdated, RoomID: room})
	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), EventTeamsUpdated)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}

	hub.Stop()
}

func TestHubJoinAfterStop(t *testing.T) {
	hub := NewHub(nil)
	hub.Stop()

	joined := make(chan bool, 1)
	go func() {
		joined <- hub.Join(&Client{Hub: hub, Send: make(chan []byte, 1), Room: RoomForTournament(1)})
	}()

	select {
	case ok := <-joined:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Join blocked on a stopped hub")
	}
}
