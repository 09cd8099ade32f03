package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	streamReadLimit  = 1 << 20
	maxReconnectWait = 30 * time.Second
)

// Stream reads the chat server's realtime event feed and hands decoded
// events to a Handler. It reconnects with capped exponential backoff until
// the context is cancelled; session state survives reconnects because it
// lives in the engine, not here.
type Stream struct {
	url     string
	token   string
	handler Handler
}

func NewStream(wsURL, token string, handler Handler) *Stream {
	return &Stream{url: wsURL, token: token, handler: handler}
}

func (s *Stream) Run(ctx context.Context) error {
	wait := time.Second
	for {
		err := s.readOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Dur("retry_in", wait).Msg("event stream disconnected")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > maxReconnectWait {
			wait = maxReconnectWait
		}
	}
}

func (s *Stream) readOnce(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, header)
	if err != nil {
		return err
	}
	defer conn.Close()
	conn.SetReadLimit(streamReadLimit)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	log.Info().Str("url", s.url).Msg("event stream connected")
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warn().Err(err).Msg("malformed stream envelope")
			continue
		}
		ev, ok := decodeEnvelope(env)
		if !ok {
			log.Debug().Str("type", env.Type).Msg("ignoring unknown event type")
			continue
		}
		s.handler.HandleEvent(ev)
	}
}

func decodeEnvelope(env Envelope) (Event, bool) {
	switch EventType(env.Type) {
	case EventJoined, EventLeft, EventCommand, EventText:
		return Event{
			Type:   EventType(env.Type),
			RoomID: env.RoomID,
			User:   env.User,
			Text:   env.Text,
		}, true
	default:
		return Event{}, false
	}
}
