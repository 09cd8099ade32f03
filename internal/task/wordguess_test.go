package task

import "testing"

func TestWordGuessRoundProgression(t *testing.T) {
	w := NewWordGuess([]string{"apple", "pear"}, 2)

	r, ok := w.FirstRound()
	if !ok {
		t.Fatal("FirstRound() = no round")
	}
	if r.Item != "apple" || r.Index != 0 {
		t.Fatalf("first round = %+v", r)
	}

	next := w.OnRoundComplete(Proposal{ProposerID: "u1", Content: "apple"}, r)
	if next.Done {
		t.Fatal("expected another round after first word")
	}
	if next.Next.Item != "pear" || next.Next.Index != 1 {
		t.Fatalf("second round = %+v", next.Next)
	}
	if next.Next.ActorOffset == r.ActorOffset {
		t.Fatal("actor should rotate between rounds")
	}

	final := w.OnRoundComplete(Proposal{ProposerID: "u2", Content: "pear"}, next.Next)
	if !final.Done {
		t.Fatal("expected Done after last word")
	}
}

func TestWordGuessValidateLength(t *testing.T) {
	w := NewWordGuess([]string{"apple"}, 2)
	r, _ := w.FirstRound()

	if err := w.Validate("grape", r); err != nil {
		t.Fatalf("Validate(grape) = %v, want nil", err)
	}
	if err := w.Validate("fig", r); err == nil {
		t.Fatal("Validate(fig) expected length error")
	}
}

func TestWordGuessEmptyWordList(t *testing.T) {
	w := NewWordGuess(nil, 2)
	if _, ok := w.FirstRound(); ok {
		t.Fatal("FirstRound() with no words should report no round")
	}
}

func TestWordGuessMinimumParticipants(t *testing.T) {
	w := NewWordGuess([]string{"a"}, 0)
	if w.RequiredParticipants() != 2 {
		t.Fatalf("RequiredParticipants = %d, want 2", w.RequiredParticipants())
	}
}
