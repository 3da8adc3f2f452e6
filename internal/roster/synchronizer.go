package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/chanpost/internal/audit"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/telegram"
)

const defaultDisplayName = "User"

var ErrNotOwner = errors.New("only the channel owner can refresh admins")

// Platform is the part of the chat transport the synchronizer needs.
type Platform interface {
	telegram.RosterReader
	telegram.Messenger
}

// Synchronizer keeps the stored permissions of a channel in line with its
// live administrator list.
type Synchronizer struct {
	repo     repository.Repository
	platform Platform
	sink     audit.Sink
	delay    time.Duration
}

func NewSynchronizer(repo repository.Repository, platform Platform, sink audit.Sink, delay time.Duration) *Synchronizer {
	if sink == nil {
		sink = audit.Noop{}
	}
	return &Synchronizer{
		repo:     repo,
		platform: platform,
		sink:     sink,
		delay:    delay,
	}
}

// HandleBotPromoted stores the channel and its publishers after the bot was
// made an administrator, then tells the owner and whoever added the bot.
func (s *Synchronizer) HandleBotPromoted(ctx context.Context, event telegram.MembershipEvent) error {
	slog.Info("bot promoted in channel", "channel_id", event.ChannelID, "actor_id", event.ActorID)
	// The administrator list lags behind the promotion update.
	if err := sleep(ctx, s.delay); err != nil {
		return err
	}

	ownerID, count, err := s.sync(ctx, event.ChannelID, event.ChannelTitle)
	if err != nil {
		return err
	}
	slog.Info("channel admins synced", "channel_id", event.ChannelID, "admins", count, "owner_id", ownerID)

	byOther := event.ActorID != ownerID
	if ownerID != 0 {
		s.notify(ctx, ownerID, connectedOwnerMessage(event, byOther))
	}
	if byOther {
		s.notify(ctx, event.ActorID, connectedActorMessage(event))
	}
	s.record(ctx, audit.Event{
		Kind:         audit.KindChannelConnected,
		ChannelID:    event.ChannelID,
		ChannelTitle: event.ChannelTitle,
		ActorID:      event.ActorID,
		AdminCount:   count,
	})
	return nil
}

// HandleBotDemoted forgets the channel. The owner is looked up before the
// rows are deleted so they can still be told.
func (s *Synchronizer) HandleBotDemoted(ctx context.Context, event telegram.MembershipEvent) error {
	slog.Info("bot demoted in channel", "channel_id", event.ChannelID, "actor_id", event.ActorID)
	ownerID, found, err := s.repo.GetChannelOwnerID(ctx, event.ChannelID)
	if err != nil {
		return fmt.Errorf("get channel owner: %w", err)
	}
	if err := s.repo.DeleteChannel(ctx, event.ChannelID); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}

	byOther := !found || event.ActorID != ownerID
	if found {
		s.notify(ctx, ownerID, disconnectedOwnerMessage(event, byOther))
	}
	if byOther {
		s.notify(ctx, event.ActorID, disconnectedActorMessage(event))
	}
	s.record(ctx, audit.Event{
		Kind:         audit.KindChannelDisconnected,
		ChannelID:    event.ChannelID,
		ChannelTitle: event.ChannelTitle,
		ActorID:      event.ActorID,
	})
	return nil
}

// Refresh re-syncs a channel on request of its owner and returns the number
// of stored publishers.
func (s *Synchronizer) Refresh(ctx context.Context, userID int64, channelID string) (int, error) {
	isOwner, err := s.repo.IsUserOwner(ctx, userID, channelID)
	if err != nil {
		return 0, fmt.Errorf("check owner: %w", err)
	}
	if !isOwner {
		return 0, ErrNotOwner
	}

	title, err := s.platform.GetChatTitle(ctx, channelID)
	if err != nil || title == "" {
		slog.Warn("failed to fetch live channel title, using stored title", "channel_id", channelID, "error", err)
		if title, err = s.repo.GetChannelTitle(ctx, channelID); err != nil {
			return 0, fmt.Errorf("get channel title: %w", err)
		}
	}

	_, count, err := s.sync(ctx, channelID, title)
	if err != nil {
		return 0, err
	}
	s.record(ctx, audit.Event{
		Kind:         audit.KindRosterRefreshed,
		ChannelID:    channelID,
		ChannelTitle: title,
		ActorID:      userID,
		AdminCount:   count,
	})
	return count, nil
}

func (s *Synchronizer) sync(ctx context.Context, channelID, title string) (int64, int, error) {
	members, err := s.platform.GetChatAdministrators(ctx, channelID)
	if err != nil {
		return 0, 0, fmt.Errorf("get chat administrators: %w", err)
	}
	admins, ownerID := Publishers(members)
	if err := s.repo.SyncChannelAdmins(ctx, repository.SyncChannelAdminsInput{
		ChannelID: channelID,
		Title:     title,
		Admins:    admins,
	}); err != nil {
		return 0, 0, fmt.Errorf("sync channel admins: %w", err)
	}
	return ownerID, len(admins), nil
}

// Publishers keeps the members allowed to post and returns the creator's id,
// or 0 if there is none.
func Publishers(members []telegram.ChatMember) ([]repository.ChannelAdmin, int64) {
	var ownerID int64
	admins := make([]repository.ChannelAdmin, 0, len(members))
	for _, m := range members {
		if !m.CanPublish() {
			continue
		}
		isOwner := m.Status == telegram.StatusCreator
		if isOwner {
			ownerID = m.UserID
		}
		name := m.DisplayName
		if name == "" {
			name = defaultDisplayName
		}
		admins = append(admins, repository.ChannelAdmin{UserID: m.UserID, DisplayName: name, IsOwner: isOwner})
	}
	return admins, ownerID
}

func (s *Synchronizer) notify(ctx context.Context, chatID int64, text string) {
	if _, err := s.platform.SendText(ctx, telegram.TextMessage{ChatID: chatID, Text: text, DisablePreview: true}); err != nil {
		slog.Warn("failed to send roster notification", "user_id", chatID, "error", err)
	}
}

func (s *Synchronizer) record(ctx context.Context, event audit.Event) {
	event.OccurredAt = time.Now()
	if err := s.sink.Record(ctx, event); err != nil {
		slog.Warn("failed to record audit event", "kind", event.Kind, "channel_id", event.ChannelID, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
