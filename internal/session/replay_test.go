package session

import "testing"

func TestReplayBufferAfter(t *testing.T) {
	b := NewReplayBuffer(10)
	b.Append("text", "u1", "one")
	mid := b.Append("text", "u2", "two")
	b.Append("text", "u1", "three")

	got := b.After(mid.Seq)
	if len(got) != 1 || got[0].Text != "three" {
		t.Fatalf("After(%d) = %+v, want just the third entry", mid.Seq, got)
	}
	if all := b.After(0); len(all) != 3 {
		t.Fatalf("After(0) returned %d entries, want 3", len(all))
	}
}

func TestReplayBufferBounded(t *testing.T) {
	b := NewReplayBuffer(3)
	for i := 0; i < 5; i++ {
		b.Append("text", "u1", "msg")
	}
	if got := len(b.After(0)); got != 3 {
		t.Fatalf("buffer holds %d entries, want 3", got)
	}
	if b.LastSeq() != 5 {
		t.Fatalf("LastSeq = %d, want 5", b.LastSeq())
	}
}
