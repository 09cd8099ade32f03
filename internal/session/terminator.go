package session

import (
	"context"
	"errors"

	"crowdbot/internal/chat"

	"github.com/rs/zerolog/log"
)

type Reason string

const (
	ReasonSuccess   Reason = "success"
	ReasonNoPartner Reason = "no_partner"
	ReasonNoReply   Reason = "no_reply"
	ReasonTimeout   Reason = "timeout"
)

// AuditLog is the optional persistence sink for tokens and lifecycle
// events. A nil AuditLog keeps the bot fully in-memory.
type AuditLog interface {
	InsertCompletionToken(ctx context.Context, roomID, token string, reason string) error
	RecordSessionEvent(ctx context.Context, roomID, kind, detail string) error
}

// Terminator runs the teardown protocol. Every step is individually
// fault-tolerant: an external call failing is logged and the sequence
// continues, because a half-closed room is worse than a missed message.
type Terminator struct {
	api      chat.API
	registry *Registry
	audit    AuditLog
}

func NewTerminator(api chat.API, registry *Registry, audit AuditLog) *Terminator {
	return &Terminator{api: api, registry: registry, audit: audit}
}

var closingNotices = map[Reason]string{
	ReasonSuccess:   "You have completed the task. Thank you for participating!",
	ReasonNoPartner: "Unfortunately no partner joined in time, so this session is closed.",
	ReasonNoReply:   "Your partner seems to have left for good, so this session is closed.",
	ReasonTimeout:   "This room has been inactive for too long, so the session is closed.",
}

// Terminate tears a session down. Calling it again for the same room is a
// silent no-op: the second call finds the session gone or already closing.
func (t *Terminator) Terminate(ctx context.Context, roomID string, reason Reason) {
	s := t.registry.Get(roomID)
	if s == nil {
		log.Debug().Str("room_id", roomID).Msg("terminate: session already removed")
		return
	}
	if s.Phase == PhaseClosing || s.Phase == PhaseClosed {
		return
	}
	s.Phase = PhaseClosing
	log.Info().Str("room_id", roomID).Str("reason", string(reason)).Msg("terminating session")

	if notice, ok := closingNotices[reason]; ok {
		if err := t.api.SendMessage(ctx, roomID, notice, ""); err != nil {
			log.Warn().Err(err).Str("room_id", roomID).Msg("closing notice failed")
		}
	}

	if !s.tokenIssued {
		s.tokenIssued = true
		token := NewToken()
		completionTokensTotal.Add(1)
		if err := t.api.SendMessage(ctx, roomID, "Here is your confirmation token: "+token+". Please copy it into the survey to confirm your participation.", ""); err != nil {
			log.Warn().Err(err).Str("room_id", roomID).Msg("token message failed")
		}
		if err := t.api.PostLog(ctx, roomID, "confirmation_log", map[string]any{
			"token":  token,
			"reason": string(reason),
		}); err != nil {
			log.Error().Err(err).Str("room_id", roomID).Msg("token log post failed")
		}
		if t.audit != nil {
			if err := t.audit.InsertCompletionToken(ctx, roomID, token, string(reason)); err != nil {
				log.Error().Err(err).Str("room_id", roomID).Msg("token audit insert failed")
			}
		}
	}

	if err := t.api.SetRoomAttribute(ctx, roomID, "read_only", "true", ""); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("read-only conversion failed")
	}

	for _, p := range s.Active() {
		t.evict(ctx, roomID, p.ID)
	}

	s.Timer.Cancel()
	s.LeaveTimers.CancelAll()

	s.Phase = PhaseClosed
	t.registry.Remove(roomID)
	sessionsTerminatedTotal.Add(1)
	s.Replay.Append("session_closed", "", string(reason))

	if t.audit != nil {
		if err := t.audit.RecordSessionEvent(ctx, roomID, "terminated", string(reason)); err != nil {
			log.Error().Err(err).Str("room_id", roomID).Msg("audit event failed")
		}
	}
}

// evict removes one participant via the membership interface, re-reading
// the precondition tag once if the first delete raced another change.
func (t *Terminator) evict(ctx context.Context, roomID, userID string) {
	for attempt := 0; attempt < 2; attempt++ {
		tag, err := t.api.RoomUserTag(ctx, roomID, userID)
		if err != nil {
			if errors.Is(err, chat.ErrNotFound) {
				return
			}
			log.Error().Err(err).Str("room_id", roomID).Str("user_id", userID).Msg("membership tag read failed")
			return
		}
		err = t.api.LeaveRoom(ctx, userID, roomID, tag)
		if err == nil {
			return
		}
		if errors.Is(err, chat.ErrStalePrecondition) && attempt == 0 {
			continue
		}
		log.Error().Err(err).Str("room_id", roomID).Str("user_id", userID).Msg("evict failed")
		return
	}
}
