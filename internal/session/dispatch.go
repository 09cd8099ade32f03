package session

import (
	"context"
	"sync"
	"time"

	"crowdbot/internal/chat"
	"crowdbot/internal/config"
	"crowdbot/internal/task"

	"github.com/rs/zerolog/log"
)

type eventKind int

const (
	kindTransport eventKind = iota
	kindRoomTimeout
	kindLeaveTimeout
)

type roomEvent struct {
	kind   eventKind
	ev     chat.Event
	userID string
}

const workerQueueSize = 256

// Dispatcher serializes all mutation of one room's session onto a single
// goroutine. Transport events and timer firings travel the same queue, so a
// timer callback can never race a command handler for the same room.
type Dispatcher struct {
	api      chat.API
	cfg      config.SessionConfig
	registry *Registry
	coord    *Coordinator
	presence *Presence
	term     *Terminator

	mu       sync.Mutex
	workers  map[string]chan roomEvent
	inFlight int
}

// NewEngine wires the full session core: registry, coordinator, presence
// tracker and terminator behind one dispatcher. audit may be nil.
func NewEngine(api chat.API, strat task.Strategy, cfg config.SessionConfig, audit AuditLog) *Dispatcher {
	registry := NewRegistry(cfg.ReplayBufferSize)
	term := NewTerminator(api, registry, audit)
	coord := NewCoordinator(api, strat, term)
	presence := NewPresence(api, registry, strat, coord, cfg)
	d := &Dispatcher{
		api:      api,
		cfg:      cfg,
		registry: registry,
		coord:    coord,
		presence: presence,
		term:     term,
		workers:  map[string]chan roomEvent{},
	}
	presence.sink = d
	return d
}

// Registry exposes the underlying registry for inspection (ops handlers,
// tests).
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// HandleEvent implements chat.Handler.
func (d *Dispatcher) HandleEvent(ev chat.Event) {
	if ev.RoomID == "" {
		return
	}
	d.enqueue(ev.RoomID, roomEvent{kind: kindTransport, ev: ev})
}

// LeaveTimeout implements timeoutSink for per-participant grace timers.
func (d *Dispatcher) LeaveTimeout(roomID, userID string) {
	d.enqueue(roomID, roomEvent{kind: kindLeaveTimeout, userID: userID})
}

func (d *Dispatcher) roomTimeout(roomID string) {
	d.enqueue(roomID, roomEvent{kind: kindRoomTimeout})
}

func (d *Dispatcher) enqueue(roomID string, re roomEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := d.workers[roomID]
	if ch == nil {
		ch = make(chan roomEvent, workerQueueSize)
		d.workers[roomID] = ch
		go d.run(roomID, ch)
	}
	select {
	case ch <- re:
		d.inFlight++
	default:
		droppedEventsTotal.Add(1)
		log.Error().Str("room_id", roomID).Msg("room queue full, dropping event")
	}
}

func (d *Dispatcher) run(roomID string, ch chan roomEvent) {
	for {
		var re roomEvent
		select {
		case re = <-ch:
		default:
			// Queue drained: retire the worker once the session is gone.
			// The check holds the same lock enqueue uses, so a concurrent
			// producer either lands before it or creates a fresh worker.
			d.mu.Lock()
			if d.registry.Get(roomID) == nil {
				delete(d.workers, roomID)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			// A live session always has an armed room timer, so this
			// blocking receive is bounded.
			re = <-ch
		}
		d.handle(roomID, re)
		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()
	}
}

func (d *Dispatcher) handle(roomID string, re roomEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch re.kind {
	case kindTransport:
		d.handleTransport(ctx, roomID, re.ev)
	case kindRoomTimeout:
		s := d.registry.Get(roomID)
		if s == nil {
			return
		}
		roomTimeoutsTotal.Add(1)
		reason := ReasonTimeout
		if s.Phase == PhaseWaiting {
			reason = ReasonNoPartner
		}
		d.term.Terminate(ctx, roomID, reason)
	case kindLeaveTimeout:
		s := d.registry.Get(roomID)
		if s == nil {
			return
		}
		p := s.Participant(re.userID)
		if p == nil || p.Status != StatusLeft {
			// Rejoined before the queue got to us.
			return
		}
		leaveTimeoutsTotal.Add(1)
		d.term.Terminate(ctx, roomID, ReasonNoReply)
	}
}

func (d *Dispatcher) handleTransport(ctx context.Context, roomID string, ev chat.Event) {
	switch ev.Type {
	case chat.EventJoined:
		s, created := d.registry.GetOrCreate(roomID)
		if s == nil {
			// Join for a room that has already been torn down.
			if err := d.api.SendMessage(ctx, roomID, "The game is already finished.", ev.User.ID); err != nil {
				log.Warn().Err(err).Str("room_id", roomID).Msg("send message failed")
			}
			return
		}
		if created {
			s.Timer.Start(d.cfg.RoomTimeout, func() { d.roomTimeout(roomID) })
			log.Info().Str("room_id", roomID).Msg("session created")
		} else {
			s.Timer.Reset()
		}
		d.presence.HandleJoin(ctx, s, ev.User)
	case chat.EventLeft:
		s := d.registry.Get(roomID)
		if s == nil {
			return
		}
		s.Timer.Reset()
		d.presence.HandleLeave(ctx, s, ev.User)
	case chat.EventCommand:
		s := d.registry.Get(roomID)
		if s == nil {
			if err := d.api.SendMessage(ctx, roomID, "The game is already finished.", ev.User.ID); err != nil {
				log.Warn().Err(err).Str("room_id", roomID).Msg("send message failed")
			}
			return
		}
		s.Timer.Reset()
		d.coord.HandleCommand(ctx, s, ev.User.ID, chat.ParseCommand(ev.Text))
	case chat.EventText:
		s := d.registry.Get(roomID)
		if s == nil {
			return
		}
		s.Timer.Reset()
		d.coord.HandleText(s, ev.User.ID, ev.Text)
	}
}

// Drain waits until every room queue is empty and its worker idle, bounded
// by the context. Intended for tests and orderly shutdown.
func (d *Dispatcher) Drain(ctx context.Context) error {
	for {
		d.mu.Lock()
		pending := d.inFlight
		d.mu.Unlock()
		if pending == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}
