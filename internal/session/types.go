package session

import (
	"time"

	"crowdbot/internal/task"
)

type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseActive  Phase = "active"
	PhaseClosing Phase = "closing"
	PhaseClosed  Phase = "closed"
)

// Stage is the turn sub-state within PhaseActive.
type Stage string

const (
	StageTurn      Stage = "active_turn"
	StageAgreement Stage = "awaiting_agreement"
)

type ParticipantStatus string

const (
	StatusJoined ParticipantStatus = "joined"
	StatusLeft   ParticipantStatus = "left"
)

type Participant struct {
	ID           string
	Name         string
	Role         string
	Status       ParticipantStatus
	MessageCount int
	// LastSeq is the replay position recorded when the participant left,
	// so a rejoin can catch them up from where they dropped off.
	LastSeq int64
}

// Proposal is an in-flight candidate answer awaiting ratification.
type Proposal struct {
	ProposerID   string
	Content      string
	AwaitingFrom map[string]struct{}
}

// Session is the in-memory state for one task room. All mutation happens on
// the room's dispatch goroutine; only the embedded timers are touched from
// other goroutines, and those carry their own locks.
type Session struct {
	RoomID       string
	Phase        Phase
	Stage        Stage
	Participants []*Participant
	ActorID      string
	Round        task.Round
	RoundsDone   int
	Pending      *Proposal
	Timer        *RoomTimer
	LeaveTimers  *LeaveTimers
	Replay       *ReplayBuffer
	CreatedAt    time.Time

	tokenIssued bool
}

func newSession(roomID string, replaySize int) *Session {
	return &Session{
		RoomID:      roomID,
		Phase:       PhaseWaiting,
		Timer:       NewRoomTimer(),
		LeaveTimers: NewLeaveTimers(),
		Replay:      NewReplayBuffer(replaySize),
		CreatedAt:   time.Now(),
	}
}

// Participant returns the record for a user id, joined or left, or nil.
func (s *Session) Participant(userID string) *Participant {
	for _, p := range s.Participants {
		if p.ID == userID {
			return p
		}
	}
	return nil
}

// Active returns the participants currently in the room, in join order.
func (s *Session) Active() []*Participant {
	out := make([]*Participant, 0, len(s.Participants))
	for _, p := range s.Participants {
		if p.Status != StatusLeft {
			out = append(out, p)
		}
	}
	return out
}

// AnyLeft reports whether some participant has left and not yet returned.
func (s *Session) AnyLeft() bool {
	for _, p := range s.Participants {
		if p.Status == StatusLeft {
			return true
		}
	}
	return false
}
