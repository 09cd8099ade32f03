package session

import (
	"context"

	"crowdbot/internal/chat"
	"crowdbot/internal/task"

	"github.com/rs/zerolog/log"
)

// Coordinator enforces the interaction protocol for every session: whose
// turn it is, how proposals get ratified, and when the task is done. Content
// rules (word lengths, dictionary membership) belong to the strategy.
type Coordinator struct {
	api   chat.API
	strat task.Strategy
	term  *Terminator
}

func NewCoordinator(api chat.API, strat task.Strategy, term *Terminator) *Coordinator {
	return &Coordinator{api: api, strat: strat, term: term}
}

// Begin moves a full room out of the waiting phase and opens round one.
func (c *Coordinator) Begin(ctx context.Context, s *Session) {
	round, ok := c.strat.FirstRound()
	if !ok {
		log.Warn().Str("room_id", s.RoomID).Str("task", c.strat.Name()).Msg("strategy has no rounds")
		c.term.Terminate(ctx, s.RoomID, ReasonSuccess)
		return
	}
	s.Phase = PhaseActive
	s.Stage = StageTurn
	s.Round = round
	c.assignActor(s)
	sessionsStartedTotal.Add(1)
	s.Replay.Append("game_started", "", "")

	c.notify(ctx, s.RoomID, "Everyone is here. Let's start!", "")
	c.announceRound(ctx, s)
	log.Info().Str("room_id", s.RoomID).Str("task", c.strat.Name()).Msg("session started")
}

func (c *Coordinator) HandleCommand(ctx context.Context, s *Session, userID string, cmd chat.Command) {
	p := s.Participant(userID)
	if p == nil {
		log.Debug().Str("room_id", s.RoomID).Str("user_id", userID).Msg("command from non-participant")
		return
	}
	if s.Phase == PhaseClosing || s.Phase == PhaseClosed {
		c.notify(ctx, s.RoomID, "The game is already finished.", userID)
		return
	}

	switch cmd.Kind {
	case chat.CmdNoReply:
		c.notify(ctx, s.RoomID, "Understood, closing this session.", userID)
		c.term.Terminate(ctx, s.RoomID, ReasonNoReply)
		return
	case chat.CmdUnknown:
		c.notify(ctx, s.RoomID, "Sorry, I don't know that command.", userID)
		return
	}

	if s.Phase == PhaseWaiting {
		c.notify(ctx, s.RoomID, "Please wait until your partner has joined.", userID)
		return
	}
	if s.AnyLeft() {
		c.notify(ctx, s.RoomID, "Your partner is not in the room right now. Please wait for them to return.", userID)
		return
	}

	switch cmd.Kind {
	case chat.CmdProposal:
		c.handleProposal(ctx, s, userID, cmd.Text)
	case chat.CmdAgreement:
		c.handleAgreement(ctx, s, userID)
	}
}

// HandleText counts free-form discussion; it never changes turn state.
func (c *Coordinator) HandleText(s *Session, userID, text string) {
	p := s.Participant(userID)
	if p == nil {
		return
	}
	p.MessageCount++
	s.Replay.Append("text", userID, text)
}

func (c *Coordinator) handleProposal(ctx context.Context, s *Session, userID, content string) {
	if s.Stage == StageAgreement {
		// A competing proposal while one is pending: force re-discussion
		// instead of silently picking a winner.
		s.Pending = nil
		s.Stage = StageTurn
		s.Replay.Append("proposal_conflict", userID, content)
		c.notify(ctx, s.RoomID, "You don't seem to have settled on one answer. Please discuss first, then submit a single proposal.", "")
		return
	}

	if c.strat.SingleActor() && userID != s.ActorID {
		c.notify(ctx, s.RoomID, "It's not your turn to submit. Discuss with your partner instead.", userID)
		return
	}
	if err := c.strat.Validate(content, s.Round); err != nil {
		c.notify(ctx, s.RoomID, err.Error(), userID)
		return
	}

	awaiting := map[string]struct{}{}
	for _, other := range s.Active() {
		if other.ID != userID {
			awaiting[other.ID] = struct{}{}
		}
	}
	s.Pending = &Proposal{ProposerID: userID, Content: content, AwaitingFrom: awaiting}
	s.Stage = StageAgreement
	s.Replay.Append("proposal", userID, content)

	name := userID
	if p := s.Participant(userID); p != nil && p.Name != "" {
		name = p.Name
	}
	c.notify(ctx, s.RoomID, name+" proposes: "+content+". Type \"agree\" to accept.", "")
}

func (c *Coordinator) handleAgreement(ctx context.Context, s *Session, userID string) {
	if s.Stage != StageAgreement || s.Pending == nil {
		c.notify(ctx, s.RoomID, "There is no proposal to agree with yet.", userID)
		return
	}
	if userID == s.Pending.ProposerID {
		c.notify(ctx, s.RoomID, "You cannot agree with your own proposal. Your partner has to accept it.", userID)
		return
	}
	if _, waiting := s.Pending.AwaitingFrom[userID]; !waiting {
		c.notify(ctx, s.RoomID, "Your agreement is already noted.", userID)
		return
	}
	delete(s.Pending.AwaitingFrom, userID)
	if len(s.Pending.AwaitingFrom) > 0 {
		return
	}

	accepted := task.Proposal{ProposerID: s.Pending.ProposerID, Content: s.Pending.Content}
	s.Pending = nil
	s.RoundsDone++
	s.Replay.Append("round_complete", accepted.ProposerID, accepted.Content)

	next := c.strat.OnRoundComplete(accepted, s.Round)
	if next.Done {
		c.notify(ctx, s.RoomID, "That was the last round. Well done!", "")
		c.term.Terminate(ctx, s.RoomID, ReasonSuccess)
		return
	}
	s.Round = next.Next
	s.Stage = StageTurn
	c.assignActor(s)
	c.announceRound(ctx, s)
}

// ReplayTurnState re-sends the current round context to one participant,
// used when they rejoin within the grace window.
func (c *Coordinator) ReplayTurnState(ctx context.Context, s *Session, p *Participant) {
	if s.Phase != PhaseActive {
		return
	}
	c.notify(ctx, s.RoomID, s.Round.Prompt, p.ID)
	if p.ID == s.ActorID {
		if s.Round.ActorBrief != "" {
			c.notify(ctx, s.RoomID, s.Round.ActorBrief, p.ID)
		}
	} else if s.Round.OtherBrief != "" {
		c.notify(ctx, s.RoomID, s.Round.OtherBrief, p.ID)
	}
	if s.Stage == StageAgreement && s.Pending != nil {
		c.notify(ctx, s.RoomID, "A proposal is pending: "+s.Pending.Content+". Type \"agree\" to accept.", p.ID)
	}
}

func (c *Coordinator) assignActor(s *Session) {
	active := s.Active()
	if len(active) == 0 {
		s.ActorID = ""
		return
	}
	if s.Round.ActorOffset < 0 {
		s.ActorID = ""
		for _, p := range active {
			p.Role = ""
		}
		return
	}
	actor := active[s.Round.ActorOffset%len(active)]
	s.ActorID = actor.ID
	for _, p := range active {
		if p.ID == actor.ID {
			p.Role = s.Round.ActorRole
		} else {
			p.Role = s.Round.OtherRole
		}
	}
}

func (c *Coordinator) announceRound(ctx context.Context, s *Session) {
	c.notify(ctx, s.RoomID, s.Round.Prompt, "")
	for _, p := range s.Active() {
		if p.ID == s.ActorID {
			if s.Round.ActorBrief != "" {
				c.notify(ctx, s.RoomID, s.Round.ActorBrief, p.ID)
			}
		} else if s.Round.OtherBrief != "" {
			c.notify(ctx, s.RoomID, s.Round.OtherBrief, p.ID)
		}
	}
	s.Replay.Append("round_started", s.ActorID, s.Round.Prompt)
}

// notify is a cosmetic send: delivery failure is logged and the flow
// continues.
func (c *Coordinator) notify(ctx context.Context, roomID, content, receiverID string) {
	if err := c.api.SendMessage(ctx, roomID, content, receiverID); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("send message failed")
	}
}
