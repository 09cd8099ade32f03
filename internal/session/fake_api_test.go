package session

import (
	"context"
	"strings"
	"sync"

	"crowdbot/internal/chat"
)

type sentMessage struct {
	RoomID     string
	Content    string
	ReceiverID string
}

type postedLog struct {
	RoomID  string
	Event   string
	Payload map[string]any
}

type attrPatch struct {
	RoomID     string
	Attribute  string
	Value      string
	ReceiverID string
}

type eviction struct {
	RoomID string
	UserID string
}

// fakeAPI records every outbound call so tests can assert on the engine's
// side effects without a chat server.
type fakeAPI struct {
	mu        sync.Mutex
	messages  []sentMessage
	logs      []postedLog
	attrs     []attrPatch
	evictions []eviction
	staleOnce bool
	sendErr   error
}

func (f *fakeAPI) SendMessage(_ context.Context, roomID, content, receiverID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.messages = append(f.messages, sentMessage{RoomID: roomID, Content: content, ReceiverID: receiverID})
	return nil
}

func (f *fakeAPI) JoinRoom(_ context.Context, _, _ string) error { return nil }

func (f *fakeAPI) LeaveRoom(_ context.Context, userID, roomID, precondition string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staleOnce {
		f.staleOnce = false
		return chat.ErrStalePrecondition
	}
	f.evictions = append(f.evictions, eviction{RoomID: roomID, UserID: userID})
	return nil
}

func (f *fakeAPI) RoomUserTag(_ context.Context, _, _ string) (string, error) {
	return "v1", nil
}

func (f *fakeAPI) SetRoomAttribute(_ context.Context, roomID, attributeID, value, receiverID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attrs = append(f.attrs, attrPatch{RoomID: roomID, Attribute: attributeID, Value: value, ReceiverID: receiverID})
	return nil
}

func (f *fakeAPI) GetTaskForUser(_ context.Context, _ string) (*chat.TaskDescriptor, error) {
	return nil, chat.ErrNotFound
}

func (f *fakeAPI) PostLog(_ context.Context, roomID, eventType string, payload map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, postedLog{RoomID: roomID, Event: eventType, Payload: payload})
	return nil
}

func (f *fakeAPI) logCount(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.logs {
		if l.Event == event {
			n++
		}
	}
	return n
}

func (f *fakeAPI) lastLog(event string) (postedLog, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.logs) - 1; i >= 0; i-- {
		if f.logs[i].Event == event {
			return f.logs[i], true
		}
	}
	return postedLog{}, false
}

func (f *fakeAPI) hasMessageContaining(substr, receiverID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ReceiverID == receiverID && strings.Contains(m.Content, substr) {
			return true
		}
	}
	return false
}

func (f *fakeAPI) hasAttr(attribute, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attrs {
		if a.Attribute == attribute && a.Value == value {
			return true
		}
	}
	return false
}

func (f *fakeAPI) evictionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.evictions)
}
