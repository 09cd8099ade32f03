package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type collectingHandler struct {
	mu     sync.Mutex
	events []Event
}

func (h *collectingHandler) HandleEvent(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

func (h *collectingHandler) snapshot() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

func TestStreamDeliversDecodedEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		frames := []string{
			`{"type":"joined","room_id":"r1","user":{"id":"u1","name":"Ann"}}`,
			`{"type":"typing","room_id":"r1","user":{"id":"u1"}}`,
			`{"type":"command","room_id":"r1","user":{"id":"u1"},"text":"guess apple"}`,
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	h := &collectingHandler{}
	s := NewStream(wsURL, "tok", h)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.readOnce(ctx); err == nil {
		t.Fatal("readOnce expected close error, got nil")
	}

	if gotAuth != "Bearer tok" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	events := h.snapshot()
	if len(events) != 2 {
		t.Fatalf("delivered %d events, want 2 (unknown type dropped)", len(events))
	}
	if events[0].Type != EventJoined || events[0].User.Name != "Ann" {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[1].Type != EventCommand || events[1].Text != "guess apple" {
		t.Fatalf("second event = %+v", events[1])
	}
}
