package chat

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrStalePrecondition = errors.New("stale_precondition")
	ErrServerRejected    = errors.New("server_rejected")
)

// TaskDescriptor describes the task a waiting user has been assigned to.
type TaskDescriptor struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RequiredUsers int    `json:"required_users"`
}

// API is the collaborator surface of the chat-room server. Everything the
// session engine does to the outside world goes through this interface, so
// tests can substitute a fake and the transport can be swapped.
//
// Callers own the failure policy: session-altering calls (JoinRoom,
// LeaveRoom, SetRoomAttribute during an active session) abort the operation
// on error, chat text is log-and-continue.
type API interface {
	// SendMessage emits a chat message into a room. An empty receiverID
	// broadcasts; otherwise the message is private to that user.
	SendMessage(ctx context.Context, roomID, content, receiverID string) error

	JoinRoom(ctx context.Context, userID, roomID string) error

	// LeaveRoom removes a user from a room. precondition is the
	// optimistic-concurrency tag from a prior RoomUserTag read; a stale
	// value fails with ErrStalePrecondition.
	LeaveRoom(ctx context.Context, userID, roomID, precondition string) error

	// RoomUserTag reads the current membership tag for use as a LeaveRoom
	// precondition.
	RoomUserTag(ctx context.Context, roomID, userID string) (string, error)

	// SetRoomAttribute patches a room UI/state attribute, optionally for a
	// single receiver. Used for read-only conversion and board updates.
	SetRoomAttribute(ctx context.Context, roomID, attributeID, value, receiverID string) error

	// GetTaskForUser returns the task a user is waiting for, or ErrNotFound.
	GetTaskForUser(ctx context.Context, userID string) (*TaskDescriptor, error)

	// PostLog appends a structured event to the room's server-side log.
	PostLog(ctx context.Context, roomID, eventType string, payload map[string]any) error
}
