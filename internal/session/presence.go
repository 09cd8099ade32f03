package session

import (
	"context"
	"errors"

	"crowdbot/internal/chat"
	"crowdbot/internal/config"
	"crowdbot/internal/task"

	"github.com/rs/zerolog/log"
)

// timeoutSink routes timer firings back into the per-room dispatch path, so
// timer-triggered mutation goes through the same serialization as
// user-triggered mutation.
type timeoutSink interface {
	LeaveTimeout(roomID, userID string)
}

// Presence turns raw join/leave events into session transitions: session
// start when the room fills up, pause and grace countdown when someone
// leaves, state replay when they come back.
type Presence struct {
	api      chat.API
	registry *Registry
	strat    task.Strategy
	coord    *Coordinator
	cfg      config.SessionConfig
	sink     timeoutSink
}

func NewPresence(api chat.API, registry *Registry, strat task.Strategy, coord *Coordinator, cfg config.SessionConfig) *Presence {
	return &Presence{api: api, registry: registry, strat: strat, coord: coord, cfg: cfg}
}

func (p *Presence) HandleJoin(ctx context.Context, s *Session, user chat.User) {
	if existing := s.Participant(user.ID); existing != nil {
		if existing.Status == StatusLeft {
			p.handleRejoin(ctx, s, existing)
		}
		return
	}

	part, err := p.registry.AddParticipant(s.RoomID, user, p.strat.RequiredParticipants())
	if errors.Is(err, ErrRoomFull) {
		p.notify(ctx, s.RoomID, "Sorry, this room is already full.", user.ID)
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("room_id", s.RoomID).Str("user_id", user.ID).Msg("add participant failed")
		return
	}
	s.Replay.Append("joined", part.ID, "")
	log.Info().Str("room_id", s.RoomID).Str("user_id", part.ID).Int("participants", len(s.Participants)).Msg("participant joined")

	if s.Phase != PhaseWaiting {
		return
	}
	if len(s.Active()) >= p.strat.RequiredParticipants() {
		p.coord.Begin(ctx, s)
		return
	}
	name := part.Name
	if name == "" {
		name = part.ID
	}
	p.notify(ctx, s.RoomID, "Hello "+name+"! Please wait a bit until your partner joins.", part.ID)
}

func (p *Presence) handleRejoin(ctx context.Context, s *Session, part *Participant) {
	s.LeaveTimers.UserJoined(part.ID)
	part.Status = StatusJoined
	lastSeq := part.LastSeq
	s.Replay.Append("rejoined", part.ID, "")
	log.Info().Str("room_id", s.RoomID).Str("user_id", part.ID).Msg("participant rejoined within grace window")

	name := part.Name
	if name == "" {
		name = part.ID
	}
	for _, other := range s.Active() {
		if other.ID != part.ID {
			p.notify(ctx, s.RoomID, name+" is back. You can continue.", other.ID)
		}
	}

	p.coord.ReplayTurnState(ctx, s, part)
	for _, e := range s.Replay.After(lastSeq) {
		if e.Kind == "text" && e.ActorID != part.ID {
			p.notify(ctx, s.RoomID, "While you were away: "+e.Text, part.ID)
		}
	}
}

func (p *Presence) HandleLeave(ctx context.Context, s *Session, user chat.User) {
	part := s.Participant(user.ID)
	if part == nil || part.Status == StatusLeft {
		return
	}
	remaining, err := p.registry.RemoveParticipant(s.RoomID, user.ID)
	if err != nil {
		log.Warn().Err(err).Str("room_id", s.RoomID).Str("user_id", user.ID).Msg("remove participant failed")
		return
	}
	s.Replay.Append("left", user.ID, "")
	log.Info().Str("room_id", s.RoomID).Str("user_id", user.ID).Int("remaining", remaining).Msg("participant left")

	name := part.Name
	if name == "" {
		name = part.ID
	}
	for _, other := range s.Active() {
		p.notify(ctx, s.RoomID, name+" has left the room. Please wait a bit, they may come back.", other.ID)
	}

	roomID := s.RoomID
	userID := part.ID
	s.LeaveTimers.UserLeft(userID, p.cfg.LeaveGrace, func() {
		p.sink.LeaveTimeout(roomID, userID)
	})
}

func (p *Presence) notify(ctx context.Context, roomID, content, receiverID string) {
	if err := p.api.SendMessage(ctx, roomID, content, receiverID); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("send message failed")
	}
}
