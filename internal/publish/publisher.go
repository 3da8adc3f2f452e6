package publish

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/foxseedlab/chanpost/internal/audit"
	"github.com/foxseedlab/chanpost/internal/post"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/telegram"
)

// Outcome tells which rung of the ladder delivered the post.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomePublished
	OutcomeMarkerReplaced
	OutcomeTextEscaped
	OutcomeTemplate
	OutcomeUnformatted
)

func (o Outcome) String() string {
	switch o {
	case OutcomePublished:
		return "published"
	case OutcomeMarkerReplaced:
		return "marker_replaced"
	case OutcomeTextEscaped:
		return "text_escaped"
	case OutcomeTemplate:
		return "template"
	case OutcomeUnformatted:
		return "unformatted"
	default:
		return "failed"
	}
}

// Draft is a finished post waiting to be sent.
type Draft struct {
	ChannelID string
	Text      string
	IsHTML    bool
	Media     []post.Media
	AuthorID  int64
}

type attempt struct {
	mode    telegram.ParseMode
	body    string
	outcome Outcome
	// fallback decides whether a failure moves on to the next attempt. The
	// last attempt has none.
	fallback func(error) bool
}

type sendFunc func(ctx context.Context, channelID, fileID, caption string, mode telegram.ParseMode) error

type Publisher struct {
	sender   telegram.ChannelSender
	channels repository.ChannelRepository
	footer   Footer
	sink     audit.Sink
	single   map[post.MediaKind]sendFunc
}

func NewPublisher(sender telegram.ChannelSender, channels repository.ChannelRepository, footer Footer, sink audit.Sink) *Publisher {
	if sink == nil {
		sink = audit.Noop{}
	}
	return &Publisher{
		sender:   sender,
		channels: channels,
		footer:   footer,
		sink:     sink,
		single: map[post.MediaKind]sendFunc{
			post.KindPhoto: sender.SendPhoto,
			post.KindVideo: sender.SendVideo,
			post.KindAudio: sender.SendAudio,
		},
	}
}

// Publish sends the draft, walking the fallback ladder until one attempt
// succeeds. Markup drafts never get a footer.
func (p *Publisher) Publish(ctx context.Context, d Draft) (Outcome, error) {
	var ladder []attempt
	if d.IsHTML {
		ladder = markupLadder(d.Text)
	} else {
		title, err := p.channels.GetChannelTitle(ctx, d.ChannelID)
		if err != nil {
			return OutcomeFailed, fmt.Errorf("get channel title: %w", err)
		}
		ladder = p.plainLadder(d.ChannelID, title, d.Text)
	}

	outcome, err := p.run(ctx, d, ladder)
	p.record(ctx, d, outcome, err)
	return outcome, err
}

func (p *Publisher) run(ctx context.Context, d Draft, ladder []attempt) (Outcome, error) {
	for i, a := range ladder {
		err := p.dispatch(ctx, d.ChannelID, d.Media, a.body, a.mode)
		if err == nil {
			return a.outcome, nil
		}
		if a.fallback == nil || !a.fallback(err) {
			return OutcomeFailed, err
		}
		slog.Warn("publish attempt failed, falling back", "channel_id", d.ChannelID, "attempt", i+1, "error", err)
	}
	return OutcomeFailed, fmt.Errorf("no publish attempt available")
}

func (p *Publisher) plainLadder(channelID, title, text string) []attempt {
	plain := p.footer.Plain(channelID, title)
	replaced := OutcomeMarkerReplaced
	// Once the fancy rung is past, the plain footer can only have been reached
	// through a markup rejection. As the first attempt it must re-raise
	// anything else.
	plainFallback := anyError
	var ladder []attempt
	if p.footer.HasFancy() {
		ladder = append(ladder, attempt{
			mode:     telegram.ParseModeHTML,
			body:     text + p.footer.Fancy(channelID, title),
			outcome:  OutcomePublished,
			fallback: telegram.IsMarkupRejected,
		})
	} else {
		replaced = OutcomePublished
		plainFallback = telegram.IsMarkupRejected
	}
	return append(ladder,
		attempt{
			mode:     telegram.ParseModeHTML,
			body:     text + plain,
			outcome:  replaced,
			fallback: plainFallback,
		},
		attempt{
			mode:    telegram.ParseModeHTML,
			body:    html.EscapeString(text) + plain,
			outcome: OutcomeTextEscaped,
		},
	)
}

func markupLadder(text string) []attempt {
	return []attempt{
		{mode: telegram.ParseModeHTML, body: text, outcome: OutcomeTemplate, fallback: anyError},
		{mode: telegram.ParseModeNone, body: text, outcome: OutcomeUnformatted},
	}
}

func anyError(error) bool { return true }

func (p *Publisher) dispatch(ctx context.Context, channelID string, media []post.Media, body string, mode telegram.ParseMode) error {
	switch len(media) {
	case 0:
		return p.sender.SendMessage(ctx, channelID, body, mode)
	case 1:
		send, ok := p.single[media[0].Kind]
		if !ok {
			return fmt.Errorf("%w: %s", post.ErrUnsupportedMedia, media[0].Kind)
		}
		return send(ctx, channelID, media[0].ID, body, mode)
	default:
		return p.sender.SendMediaGroup(ctx, channelID, media, body, mode)
	}
}

func (p *Publisher) record(ctx context.Context, d Draft, outcome Outcome, sendErr error) {
	event := audit.Event{
		Kind:       audit.KindPostPublished,
		ChannelID:  d.ChannelID,
		ActorID:    d.AuthorID,
		Detail:     outcome.String(),
		OccurredAt: time.Now(),
	}
	if sendErr != nil {
		event.Kind = audit.KindPostFailed
		event.Detail = sendErr.Error()
	}
	if err := p.sink.Record(ctx, event); err != nil {
		slog.Warn("failed to record audit event", "kind", event.Kind, "channel_id", d.ChannelID, "error", err)
	}
}
