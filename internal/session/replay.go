package session

import (
	"sync"
	"time"
)

type ReplayEntry struct {
	Seq     int64
	Kind    string
	ActorID string
	Text    string
	TS      time.Time
}

// ReplayBuffer keeps a bounded window of recent room activity so a
// participant rejoining within the grace period can be caught up without
// re-reading server logs.
type ReplayBuffer struct {
	mu      sync.Mutex
	nextSeq int64
	max     int
	entries []ReplayEntry
}

func NewReplayBuffer(max int) *ReplayBuffer {
	if max <= 0 {
		max = 200
	}
	return &ReplayBuffer{max: max}
}

func (b *ReplayBuffer) Append(kind, actorID, text string) ReplayEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSeq++
	e := ReplayEntry{
		Seq:     b.nextSeq,
		Kind:    kind,
		ActorID: actorID,
		Text:    text,
		TS:      time.Now(),
	}
	b.entries = append(b.entries, e)
	if len(b.entries) > b.max {
		b.entries = b.entries[len(b.entries)-b.max:]
	}
	return e
}

// After returns entries with a sequence strictly greater than seq.
func (b *ReplayBuffer) After(seq int64) []ReplayEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ReplayEntry, 0, len(b.entries))
	for _, e := range b.entries {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

// LastSeq returns the sequence of the most recent entry, 0 when empty.
func (b *ReplayBuffer) LastSeq() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextSeq
}
