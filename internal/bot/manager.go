// Package bot routes chat updates through the per-user session state machine.
package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/foxseedlab/chanpost/internal/post"
	"github.com/foxseedlab/chanpost/internal/publish"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/roster"
	"github.com/foxseedlab/chanpost/internal/session"
	"github.com/foxseedlab/chanpost/internal/telegram"
)

type Manager struct {
	client    telegram.Client
	repo      repository.Repository
	sessions  *session.Store
	roster    *roster.Synchronizer
	publisher *publish.Publisher
}

func NewManager(client telegram.Client, repo repository.Repository, sessions *session.Store, sync *roster.Synchronizer, publisher *publish.Publisher) *Manager {
	return &Manager{
		client:    client,
		repo:      repo,
		sessions:  sessions,
		roster:    sync,
		publisher: publisher,
	}
}

// Register attaches the manager's handlers to the client.
func (m *Manager) Register() {
	m.client.RegisterMessageHandler(m.HandleMessage)
	m.client.RegisterCallbackHandler(m.HandleCallback)
	m.client.RegisterMembershipHandler(m.HandleMembership)
}

func (m *Manager) HandleMessage(ctx context.Context, event telegram.MessageEvent) {
	switch event.Command() {
	case "start":
		m.sessions.Clear(event.UserID)
		m.reply(ctx, event.ChatID, messageGreeting, mainMenu())
		return
	case "info":
		m.reply(ctx, event.ChatID, messageInfo, telegram.Keyboard{})
		return
	}

	switch event.Text {
	case menuContent:
		m.openContent(ctx, event)
		return
	case menuTemplates:
		m.openTemplates(ctx, event)
		return
	}

	sess := m.sessions.Get(event.UserID)
	switch {
	case sess.State == session.StateWaitingForText:
		m.receiveText(ctx, sess, event)
	case sess.State == session.StateWaitingForMedia:
		m.collectMedia(ctx, sess, event)
	case sess.State.IsTemplate():
		m.receiveTemplateInput(ctx, sess, event)
	case sess.State == session.StateIdle && event.HasCustomEmoji():
		m.reply(ctx, event.ChatID, emojiIDMessage(event.CustomEmojiIDs), telegram.Keyboard{})
	default:
		slog.Debug("ignoring message", "user_id", event.UserID, "state", sess.State)
	}
}

func (m *Manager) HandleCallback(ctx context.Context, event telegram.CallbackEvent) {
	sess := m.sessions.Get(event.UserID)
	slog.Debug("callback received", "user_id", event.UserID, "data", event.Data, "state", sess.State)

	switch data := event.Data; {
	case strings.HasPrefix(data, callbackRolePrefix):
		m.chooseRole(ctx, sess, event, repository.ParseRole(strings.TrimPrefix(data, callbackRolePrefix)))
	case strings.HasPrefix(data, callbackChannelPrefix):
		m.chooseChannel(ctx, sess, event, strings.TrimPrefix(data, callbackChannelPrefix))
	case data == callbackBackToRoles:
		m.backToRoles(ctx, sess, event)
	case data == callbackActionText:
		m.askText(ctx, sess, event)
	case data == callbackAddMedia:
		m.askMedia(ctx, sess, event, post.ModeMedia)
	case data == callbackAddAudio:
		m.askMedia(ctx, sess, event, post.ModeAudio)
	case data == callbackRefreshAdmins:
		m.refreshAdmins(ctx, sess, event)
	case data == callbackPublish:
		m.publish(ctx, sess, event)
	case data == callbackReset:
		m.reset(ctx, event)
	case data == callbackTemplateStart:
		m.startTemplate(ctx, sess, event)
	case data == callbackTemplateSkip:
		m.skipTemplateStep(ctx, sess, event)
	case data == callbackTemplateStop:
		m.cancelTemplate(ctx, sess, event)
	default:
		slog.Warn("unknown callback data", "user_id", event.UserID, "data", data)
		m.answer(ctx, event, "", false)
	}
}

// HandleMembership reacts to the bot being promoted in or removed from a
// channel.
func (m *Manager) HandleMembership(ctx context.Context, event telegram.MembershipEvent) {
	switch {
	case event.Promoted():
		if err := m.roster.HandleBotPromoted(ctx, event); err != nil {
			slog.Error("failed to sync promoted channel", "error", err, "channel_id", event.ChannelID)
		}
	case event.Demoted():
		if err := m.roster.HandleBotDemoted(ctx, event); err != nil {
			slog.Error("failed to remove channel", "error", err, "channel_id", event.ChannelID)
		}
	default:
		slog.Debug("ignoring membership update", "channel_id", event.ChannelID, "old_status", event.OldStatus, "new_status", event.NewStatus)
	}
}

// fire advances the session, answering the callback when the action does not
// fit the current state.
func (m *Manager) fire(ctx context.Context, sess *session.Session, event telegram.CallbackEvent, ev session.Event) bool {
	if err := sess.Fire(ev); err != nil {
		slog.Info("rejected session transition", "user_id", event.UserID, "error", err)
		m.answer(ctx, event, messageUnavailable, false)
		return false
	}
	return true
}

func (m *Manager) reply(ctx context.Context, chatID int64, text string, keyboard telegram.Keyboard) {
	if _, err := m.client.SendText(ctx, telegram.TextMessage{ChatID: chatID, Text: text, Keyboard: keyboard}); err != nil {
		slog.Error("failed to send message", "error", err, "chat_id", chatID)
	}
}

func (m *Manager) edit(ctx context.Context, event telegram.CallbackEvent, text string, keyboard telegram.Keyboard) {
	msg := telegram.TextMessage{ChatID: event.ChatID, Text: text, Keyboard: keyboard, DisablePreview: true}
	if err := m.client.EditText(ctx, event.MessageID, msg); err != nil {
		slog.Warn("failed to edit message", "error", err, "chat_id", event.ChatID, "message_id", event.MessageID)
	}
}

func (m *Manager) answer(ctx context.Context, event telegram.CallbackEvent, text string, alert bool) {
	if err := m.client.AnswerCallback(ctx, event.CallbackID, text, alert); err != nil {
		slog.Warn("failed to answer callback", "error", err, "user_id", event.UserID)
	}
}

func (m *Manager) deleteMessage(ctx context.Context, event telegram.CallbackEvent) {
	if err := m.client.DeleteMessage(ctx, event.ChatID, event.MessageID); err != nil {
		slog.Warn("failed to delete message", "error", err, "chat_id", event.ChatID, "message_id", event.MessageID)
	}
}
