package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// CompletionToken is one issued confirmation token, kept so issued tokens
// can be cross-checked against what participants report back.
type CompletionToken struct {
	ID        string
	RoomID    string
	Token     string
	Reason    string
	CreatedAt time.Time
}

// SessionEvent is one lifecycle event of a room session (started,
// terminated, and so on).
type SessionEvent struct {
	ID        string
	RoomID    string
	Kind      string
	Detail    string
	CreatedAt time.Time
}

func (s *Store) InsertCompletionToken(ctx context.Context, roomID, token, reason string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO completion_tokens (id, room_id, token, reason) VALUES ($1, $2, $3, $4)`,
		NewID(), roomID, token, reason)
	return err
}

func (s *Store) RecordSessionEvent(ctx context.Context, roomID, kind, detail string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO session_events (id, room_id, kind, detail) VALUES ($1, $2, $3, $4)`,
		NewID(), roomID, kind, detail)
	return err
}

func (s *Store) GetCompletionTokenByRoom(ctx context.Context, roomID string) (*CompletionToken, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT id, room_id, token, reason, created_at
		   FROM completion_tokens WHERE room_id = $1
		  ORDER BY created_at DESC LIMIT 1`, roomID)
	var t CompletionToken
	if err := row.Scan(&t.ID, &t.RoomID, &t.Token, &t.Reason, &t.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

func (s *Store) ListSessionEvents(ctx context.Context, roomID string) ([]SessionEvent, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, room_id, kind, detail, created_at
		   FROM session_events WHERE room_id = $1
		  ORDER BY created_at, id`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(&e.ID, &e.RoomID, &e.Kind, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) CountCompletionTokens(ctx context.Context) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM completion_tokens`).Scan(&n)
	return n, err
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
