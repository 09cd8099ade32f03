package task

import (
	"fmt"
	"unicode/utf8"
)

// WordGuess is the reference strategy: one participant holds a target word,
// the other guesses words of the same length, and each ratified guess
// advances to the next word. It exists to exercise the session protocol and
// the tests; real task content plugs in the same way.
type WordGuess struct {
	words    []string
	required int
}

func NewWordGuess(words []string, required int) *WordGuess {
	if required < 2 {
		required = 2
	}
	return &WordGuess{words: words, required: required}
}

func (w *WordGuess) Name() string { return "wordguess" }

func (w *WordGuess) RequiredParticipants() int { return w.required }

func (w *WordGuess) SingleActor() bool { return true }

func (w *WordGuess) FirstRound() (Round, bool) {
	if len(w.words) == 0 {
		return Round{}, false
	}
	return w.round(0), true
}

func (w *WordGuess) Validate(content string, r Round) error {
	want := utf8.RuneCountInString(r.Item)
	got := utf8.RuneCountInString(content)
	if got != want {
		return fmt.Errorf("your guess must have %d letters, but has %d", want, got)
	}
	return nil
}

func (w *WordGuess) OnRoundComplete(accepted Proposal, r Round) NextAction {
	next := r.Index + 1
	if next >= len(w.words) {
		return NextAction{Done: true}
	}
	return NextAction{Next: w.round(next)}
}

func (w *WordGuess) round(idx int) Round {
	word := w.words[idx]
	return Round{
		Index:       idx,
		Item:        word,
		Prompt:      fmt.Sprintf("Round %d: the new word has %d letters. Discuss, then the guesser submits with \"guess <word>\".", idx+1, utf8.RuneCountInString(word)),
		ActorOffset: idx % 2,
		ActorRole:   "guesser",
		OtherRole:   "explainer",
		ActorBrief:  "You are the guesser this round. Submit your answer with \"guess <word>\" once you have discussed it.",
		OtherBrief:  fmt.Sprintf("You are the explainer. The word is %q. Describe it without spelling it out.", word),
	}
}
