package session

import (
	"errors"
	"testing"

	"crowdbot/internal/chat"
)

func TestRegistryGetOrCreateIdempotent(t *testing.T) {
	r := NewRegistry(50)

	s1, created := r.GetOrCreate("r1")
	if !created {
		t.Fatal("first GetOrCreate should create")
	}
	if s1.Phase != PhaseWaiting {
		t.Fatalf("new session phase = %q, want waiting", s1.Phase)
	}
	s2, created := r.GetOrCreate("r1")
	if created {
		t.Fatal("second GetOrCreate should not create")
	}
	if s1 != s2 {
		t.Fatal("GetOrCreate returned different sessions for same room")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryRemoveTwiceSilent(t *testing.T) {
	r := NewRegistry(50)
	r.GetOrCreate("r1")
	r.Remove("r1")
	r.Remove("r1")
	if r.Get("r1") != nil {
		t.Fatal("session still present after Remove")
	}
}

func TestRegistryGetOrCreateRefusesClosedRoom(t *testing.T) {
	r := NewRegistry(50)
	r.GetOrCreate("r1")
	r.Remove("r1")

	if s, created := r.GetOrCreate("r1"); s != nil || created {
		t.Fatalf("GetOrCreate after Remove = (%v, %v), want (nil, false)", s, created)
	}
	// Other rooms are unaffected.
	if s, created := r.GetOrCreate("r2"); s == nil || !created {
		t.Fatal("unrelated room should still be creatable")
	}
}

func TestRegistryAddParticipantRoomFull(t *testing.T) {
	r := NewRegistry(50)
	r.GetOrCreate("r1")

	if _, err := r.AddParticipant("r1", chat.User{ID: "u1", Name: "Ann"}, 2); err != nil {
		t.Fatalf("add u1: %v", err)
	}
	if _, err := r.AddParticipant("r1", chat.User{ID: "u2", Name: "Ben"}, 2); err != nil {
		t.Fatalf("add u2: %v", err)
	}
	if _, err := r.AddParticipant("r1", chat.User{ID: "u3"}, 2); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("add u3 error = %v, want ErrRoomFull", err)
	}
}

func TestRegistryAddParticipantPreservesJoinOrder(t *testing.T) {
	r := NewRegistry(50)
	s, _ := r.GetOrCreate("r1")
	for _, id := range []string{"u3", "u1", "u2"} {
		if _, err := r.AddParticipant("r1", chat.User{ID: id}, 3); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	want := []string{"u3", "u1", "u2"}
	for i, p := range s.Participants {
		if p.ID != want[i] {
			t.Fatalf("participant[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestRegistryRemoveParticipantAdvisory(t *testing.T) {
	r := NewRegistry(50)
	s, _ := r.GetOrCreate("r1")
	_, _ = r.AddParticipant("r1", chat.User{ID: "u1"}, 2)

	remaining, err := r.RemoveParticipant("r1", "u1")
	if err != nil {
		t.Fatalf("RemoveParticipant: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("remaining = %d, want 0", remaining)
	}
	// Emptying the room must not delete the session.
	if r.Get("r1") == nil {
		t.Fatal("session deleted on participant removal")
	}
	p := s.Participant("u1")
	if p == nil || p.Status != StatusLeft {
		t.Fatal("participant record should remain, marked left")
	}
}

func TestRegistryRemoveParticipantUnknownUser(t *testing.T) {
	r := NewRegistry(50)
	r.GetOrCreate("r1")
	if _, err := r.RemoveParticipant("r1", "ghost"); !errors.Is(err, ErrNoSuchUser) {
		t.Fatalf("error = %v, want ErrNoSuchUser", err)
	}
}
