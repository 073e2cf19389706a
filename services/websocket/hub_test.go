package websocket

import (
	"encoding/json"
	"sync"
	"testing"
)

func TestBroadcastToUserDelivers(t *testing.T) {
	h := NewHub()
	client := &Client{hub: h, send: make(chan []byte, 1), userID: 3}
	h.clients[client] = true

	h.BroadcastToUser(3, Message{Type: "notification"})

	select {
	case raw := <-client.send:
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
		if msg.Type != "notification" {
			t.Fatalf("type = %q, want notification", msg.Type)
		}
	default:
		t.Fatal("no frame delivered")
	}
	if got := h.GetClientCount(); got != 1 {
		t.Fatalf("client count = %d, want 1", got)
	}
}

func TestBroadcastToUserSkipsOtherUsers(t *testing.T) {
	h := NewHub()
	client := &Client{hub: h, send: make(chan []byte, 1), userID: 4}
	h.clients[client] = true

	h.BroadcastToUser(5, Message{Type: "notification"})

	if len(client.send) != 0 {
		t.Fatal("frame delivered to the wrong user")
	}
}

func TestBroadcastToUserEvictsStalledClientOnce(t *testing.T) {
	h := NewHub()
	client := &Client{hub: h, send: make(chan []byte), userID: 7}
	h.clients[client] = true

	// A stalled client hit by many concurrent broadcasts must be evicted
	// exactly once. A second close of its send channel would panic here.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				h.BroadcastToUser(7, Message{Type: "ping"})
			}
		}()
	}
	wg.Wait()

	if got := h.GetClientCount(); got != 0 {
		t.Fatalf("stalled client still registered, count = %d", got)
	}
	if _, open := <-client.send; open {
		t.Fatal("send channel left open after eviction")
	}
}
