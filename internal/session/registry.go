package session

import (
	"sync"
	"time"

	"crowdbot/internal/chat"

	"github.com/rs/zerolog/log"
)

// closedRoomTTL is how long a torn-down room id is remembered so that a
// straggling join cannot resurrect it. Stale events arrive within seconds
// of teardown in practice; an hour is comfortably past any transport retry.
const closedRoomTTL = time.Hour

// Registry owns the room-id to session mapping. It is constructed once per
// bot process and handed to the other components; there is no ambient
// global state.
type Registry struct {
	mu         sync.Mutex
	replaySize int
	sessions   map[string]*Session
	closed     map[string]time.Time
}

func NewRegistry(replaySize int) *Registry {
	return &Registry{
		replaySize: replaySize,
		sessions:   map[string]*Session{},
		closed:     map[string]time.Time{},
	}
}

// GetOrCreate returns the session for a room, creating it on first call.
// The bool reports whether this call created it. A room that was already
// torn down yields nil: its users were evicted and the room is read-only,
// so a late join must not open a fresh session under the same id.
func (r *Registry) GetOrCreate(roomID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[roomID]; ok {
		return s, false
	}
	if closedAt, ok := r.closed[roomID]; ok && time.Since(closedAt) < closedRoomTTL {
		return nil, false
	}
	s := newSession(roomID, r.replaySize)
	r.sessions[roomID] = s
	return s, true
}

func (r *Registry) Get(roomID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[roomID]
}

// Remove deletes the session and leaves a tombstone for the room id.
// Removing twice only logs; double teardown must never surface an error.
func (r *Registry) Remove(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[roomID]; !ok {
		log.Debug().Str("room_id", roomID).Msg("remove: session already gone")
		return
	}
	delete(r.sessions, roomID)
	for id, closedAt := range r.closed {
		if time.Since(closedAt) >= closedRoomTTL {
			delete(r.closed, id)
		}
	}
	r.closed[roomID] = time.Now()
}

// AddParticipant appends a new participant in join order. capacity is the
// task's required participant count; a full room yields ErrRoomFull.
func (r *Registry) AddParticipant(roomID string, user chat.User, capacity int) (*Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[roomID]
	if !ok {
		return nil, ErrNoSuchSession
	}
	if p := s.Participant(user.ID); p != nil {
		return p, ErrAlreadyInRoom
	}
	if capacity > 0 && len(s.Participants) >= capacity {
		return nil, ErrRoomFull
	}
	p := &Participant{ID: user.ID, Name: user.Name, Status: StatusJoined}
	s.Participants = append(s.Participants, p)
	return p, nil
}

// RemoveParticipant marks a participant as having left and returns how many
// remain in the room. The record stays so a rejoin can be reconciled; it is
// advisory only: emptying the room never deletes the session here, the
// terminator decides when to close.
func (r *Registry) RemoveParticipant(roomID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[roomID]
	if !ok {
		return 0, ErrNoSuchSession
	}
	p := s.Participant(userID)
	if p == nil {
		return len(s.Active()), ErrNoSuchUser
	}
	p.Status = StatusLeft
	p.LastSeq = s.Replay.LastSeq()
	return len(s.Active()), nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
