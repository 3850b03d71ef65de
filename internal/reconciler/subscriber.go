package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"socialhub/internal/realtime"
	"socialhub/model"
)

const (
	redialMin = time.Second
	redialMax = 30 * time.Second
)

// Subscriber dials the server's /ws endpoint and feeds decoded events into a
// Feed. Notifications addressed to other users are discarded here; the
// server broadcasts them to everyone and relies on client-side filtering.
//
// There is no replay: after a reconnect the caller must re-fetch the feed and
// call Feed.Replace.
type Subscriber struct {
	url      string
	username string
	feed     *Feed
	notify   func(realtime.Notification)
	dialer   *websocket.Dialer
	log      zerolog.Logger
}

func NewSubscriber(url, username string, feed *Feed, notify func(realtime.Notification), log zerolog.Logger) *Subscriber {
	return &Subscriber{
		url:      url,
		username: username,
		feed:     feed,
		notify:   notify,
		dialer:   websocket.DefaultDialer,
		log:      log,
	}
}

// Run connects and consumes events until ctx is done, redialing with capped
// backoff after connection loss.
func (s *Subscriber) Run(ctx context.Context) error {
	backoff := redialMin
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Dur("retry_in", backoff).Msg("connection lost")

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
		if backoff > redialMax {
			backoff = redialMax
		}
	}
}

func (s *Subscriber) consume(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		evt, err := decodeEvent(data)
		if err != nil {
			s.log.Warn().Err(err).Msg("skipping undecodable event")
			continue
		}
		s.handle(evt)
	}
}

func (s *Subscriber) handle(evt realtime.Event) {
	if n, ok := evt.Payload.(realtime.Notification); ok {
		// Targeting is advisory: every client receives every notification
		// and keeps only its own.
		if s.notify != nil && n.PostOwner == s.username {
			s.notify(n)
		}
		return
	}
	s.feed.Apply(evt)
}

// decodeEvent turns a wire frame into an Event with a concrete payload type.
// Unknown event types are passed through with a nil payload; Feed.Apply
// ignores them.
func decodeEvent(data []byte) (realtime.Event, error) {
	var raw struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return realtime.Event{}, err
	}

	evt := realtime.Event{Type: raw.Type}
	var err error
	switch raw.Type {
	case realtime.EventNewPost:
		var p model.Post
		err = json.Unmarshal(raw.Payload, &p)
		evt.Payload = p
	case realtime.EventLikePost:
		var p realtime.PostLikes
		err = json.Unmarshal(raw.Payload, &p)
		evt.Payload = p
	case realtime.EventNewComment, realtime.EventEditComment, realtime.EventDeleteComment:
		var p realtime.PostComments
		err = json.Unmarshal(raw.Payload, &p)
		evt.Payload = p
	case realtime.EventCommentLike:
		var p realtime.CommentLikes
		err = json.Unmarshal(raw.Payload, &p)
		evt.Payload = p
	case realtime.EventNotification:
		var p realtime.Notification
		err = json.Unmarshal(raw.Payload, &p)
		evt.Payload = p
	}
	if err != nil {
		return realtime.Event{}, fmt.Errorf("decode %s payload: %w", raw.Type, err)
	}
	return evt, nil
}
