package task

// Round is one unit of play: the current item plus who may act on it.
type Round struct {
	Index int
	// Item is what the round is about (target word, question, board id).
	Item string
	// Prompt is announced to the room when the round opens.
	Prompt string
	// ActorOffset selects the designated actor by join order; negative
	// means free-form (anyone may act).
	ActorOffset int
	// ActorRole and OtherRole name the per-round roles, e.g. guesser and
	// explainer. ActorBrief and OtherBrief are sent privately to the
	// respective participants when the round opens or is replayed.
	ActorRole  string
	OtherRole  string
	ActorBrief string
	OtherBrief string
}

type Proposal struct {
	ProposerID string
	Content    string
}

// NextAction tells the coordinator what follows a ratified round.
type NextAction struct {
	Done bool
	Next Round
}

// Strategy carries everything task-specific. The session engine enforces
// only the protocol shape; content rules live here.
type Strategy interface {
	Name() string
	RequiredParticipants() int
	// SingleActor reports whether only the designated actor may submit
	// proposals during a turn.
	SingleActor() bool
	FirstRound() (Round, bool)
	// Validate checks proposal content for the given round. A non-nil
	// error is shown to the participant verbatim, so keep it plain.
	Validate(content string, r Round) error
	OnRoundComplete(accepted Proposal, r Round) NextAction
}
