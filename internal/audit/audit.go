package audit

import (
	"context"
	"errors"
	"time"
)

type Kind string

const (
	KindChannelConnected    Kind = "channel_connected"
	KindChannelDisconnected Kind = "channel_disconnected"
	KindRosterRefreshed     Kind = "roster_refreshed"
	KindPostPublished       Kind = "post_published"
	KindPostFailed          Kind = "post_failed"
)

type Event struct {
	Kind         Kind      `json:"kind"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	ActorID      int64     `json:"actor_id,omitempty"`
	AdminCount   int       `json:"admin_count,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Summary is a one-line human readable form of the event.
func (e Event) Summary() string {
	s := string(e.Kind) + " " + e.ChannelID
	if e.ChannelTitle != "" {
		s += " (" + e.ChannelTitle + ")"
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

type Sink interface {
	Record(ctx context.Context, event Event) error
}

type Noop struct{}

func (Noop) Record(context.Context, Event) error { return nil }

// Fanout delivers each event to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Record(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
