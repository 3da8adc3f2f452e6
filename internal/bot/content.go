package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/foxseedlab/chanpost/internal/post"
	"github.com/foxseedlab/chanpost/internal/publish"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/roster"
	"github.com/foxseedlab/chanpost/internal/session"
	"github.com/foxseedlab/chanpost/internal/telegram"
)

func (m *Manager) openContent(ctx context.Context, event telegram.MessageEvent) {
	sess := m.sessions.Get(event.UserID)
	sess.Reset()
	_ = sess.Fire(session.EventOpenContent)
	m.reply(ctx, event.ChatID, messageChooseRole, roleKeyboard())
}

func (m *Manager) backToRoles(ctx context.Context, sess *session.Session, event telegram.CallbackEvent) {
	if !m.fire(ctx, sess, event, session.EventBackToRoles) {
		return
	}
	sess.SelectChannel("")
	m.answer(ctx, event, "", false)
	m.edit(ctx, event, messageChooseRole, roleKeyboard())
}

func (m *Manager) chooseRole(ctx context.Context, sess *session.Session, event telegram.CallbackEvent, role repository.Role) {
	if !session.Allowed(sess.State, session.EventRoleChosen) {
		m.answer(ctx, event, messageUnavailable, false)
		return
	}
	channels, err := m.repo.GetUserChannels(ctx, event.UserID, role)
	if err != nil {
		slog.Error("failed to list user channels", "error", err, "user_id", event.UserID, "role", role)
		m.answer(ctx, event, messageInternalError, true)
		return
	}
	if len(channels) == 0 {
		_ = sess.Fire(session.EventNoChannels)
		m.answer(ctx, event, "", false)
		m.edit(ctx, event, noChannelsMessage(role), backToRolesKeyboard())
		return
	}
	_ = sess.Fire(session.EventRoleChosen)
	sess.Role = role
	m.answer(ctx, event, "", false)
	m.edit(ctx, event, channelsMessage(role), channelsKeyboard(channels))
}

// chooseChannel re-checks the user's rights live before opening the channel.
// Stale rows are removed on the way.
func (m *Manager) chooseChannel(ctx context.Context, sess *session.Session, event telegram.CallbackEvent, channelID string) {
	if !session.Allowed(sess.State, session.EventChannelConfirmed) {
		m.answer(ctx, event, messageUnavailable, false)
		return
	}

	member, err := m.client.GetChatMember(ctx, channelID, event.UserID)
	switch {
	case err != nil && telegram.IsChatGone(err):
		slog.Info("channel is gone, deleting", "channel_id", channelID, "error", err)
		if err := m.repo.DeleteChannel(ctx, channelID); err != nil {
			slog.Error("failed to delete channel", "error", err, "channel_id", channelID)
			m.answer(ctx, event, messageInternalError, true)
			return
		}
		m.rejectChannel(ctx, sess, event, messageChannelGone)
		return
	case err != nil:
		slog.Warn("failed to check channel member", "error", err, "channel_id", channelID, "user_id", event.UserID)
		m.answer(ctx, event, fmt.Sprintf(messageAccessErrorFmt, errorDetailOrGeneric(err)), true)
		return
	case !member.CanPublish():
		slog.Info("user rights revoked, removing permission", "channel_id", channelID, "user_id", event.UserID, "status", member.Status)
		if err := m.repo.RemoveUserPermission(ctx, event.UserID, channelID); err != nil {
			slog.Error("failed to remove permission", "error", err, "channel_id", channelID, "user_id", event.UserID)
			m.answer(ctx, event, messageInternalError, true)
			return
		}
		m.rejectChannel(ctx, sess, event, messageRightsRevoked)
		return
	}

	isOwner, err := m.repo.IsUserOwner(ctx, event.UserID, channelID)
	if err != nil {
		slog.Error("failed to check owner", "error", err, "channel_id", channelID, "user_id", event.UserID)
		m.answer(ctx, event, messageInternalError, true)
		return
	}
	title, err := m.repo.GetChannelTitle(ctx, channelID)
	if err != nil {
		slog.Error("failed to get channel title", "error", err, "channel_id", channelID)
		m.answer(ctx, event, messageInternalError, true)
		return
	}

	_ = sess.Fire(session.EventChannelConfirmed)
	sess.SelectChannel(channelID)
	m.answer(ctx, event, "", false)
	m.edit(ctx, event, channelSelectedMessage(channelID, title), actionKeyboard(isOwner))
}

func (m *Manager) rejectChannel(ctx context.Context, sess *session.Session, event telegram.CallbackEvent, alert string) {
	_ = sess.Fire(session.EventChannelRejected)
	m.answer(ctx, event, alert, true)
	m.edit(ctx, event, messageChooseRole, roleKeyboard())
}

func (m *Manager) refreshAdmins(ctx context.Context, sess *session.Session, event telegram.CallbackEvent) {
	if !sess.CanPublish() {
		m.answer(ctx, event, messageSessionExpired, false)
		return
	}
	if !m.fire(ctx, sess, event, session.EventRefreshAdmins) {
		return
	}
	count, err := m.roster.Refresh(ctx, event.UserID, sess.SelectedChannel)
	switch {
	case errors.Is(err, roster.ErrNotOwner):
		m.answer(ctx, event, messageOnlyOwnerRefresh, true)
	case err != nil:
		slog.Error("failed to refresh admins", "error", err, "channel_id", sess.SelectedChannel)
		m.answer(ctx, event, fmt.Sprintf(messageRefreshFailedFmt, errorDetailOrGeneric(err)), true)
	default:
		m.answer(ctx, event, fmt.Sprintf(messageAdminsSynced, count), true)
	}
}

func (m *Manager) askText(ctx context.Context, sess *session.Session, event telegram.CallbackEvent) {
	if !m.fire(ctx, sess, event, session.EventTextAction) {
		return
	}
	m.answer(ctx, event, "", false)
	m.edit(ctx, event, messageAskText, telegram.Keyboard{})
}

func (m *Manager) receiveText(ctx context.Context, sess *session.Session, event telegram.MessageEvent) {
	if event.Text == "" {
		m.reply(ctx, event.ChatID, messageSendTextOnly, telegram.Keyboard{})
		return
	}
	body, isHTML := post.ClassifyText(event.Text, event.HTMLText)
	sess.SetText(body, isHTML)
	_ = sess.Fire(session.EventTextReceived)
	m.reply(ctx, event.ChatID, textAcceptedMessage(isHTML), postOptionsKeyboard())
}

func (m *Manager) askMedia(ctx context.Context, sess *session.Session, event telegram.CallbackEvent, mode post.Mode) {
	if !m.fire(ctx, sess, event, session.EventMediaAction) {
		return
	}
	sess.StartMedia(mode)
	m.answer(ctx, event, "", false)
	m.edit(ctx, event, askMediaMessage(mode), telegram.Keyboard{})
}

func (m *Manager) collectMedia(ctx context.Context, sess *session.Session, event telegram.MessageEvent) {
	if event.Attachment == nil {
		m.reply(ctx, event.ChatID, messageSendFile, telegram.Keyboard{})
		return
	}
	if _, err := sess.AddMedia(*event.Attachment); err != nil {
		m.reply(ctx, event.ChatID, mediaErrorMessage(err), telegram.Keyboard{})
		return
	}
	_ = sess.Fire(session.EventMediaReceived)
	m.reply(ctx, event.ChatID, mediaAddedMessage(sess.Media.Len()), mediaReceivedKeyboard())
}

func mediaErrorMessage(err error) string {
	switch {
	case errors.Is(err, post.ErrMediaLimit):
		return fmt.Sprintf(messageMediaLimit, post.MaxMedia)
	case errors.Is(err, post.ErrAudioOnly):
		return messageAudioOnly
	case errors.Is(err, post.ErrVisualOnly), errors.Is(err, post.ErrUnsupportedMedia):
		return messageVisualOnly
	default:
		return messageInternalError
	}
}

// publish sends the post once. The session is cleared whatever the result.
func (m *Manager) publish(ctx context.Context, sess *session.Session, event telegram.CallbackEvent) {
	if !sess.CanPublish() {
		m.answer(ctx, event, messageSessionExpired, false)
		m.deleteMessage(ctx, event)
		return
	}
	if !m.fire(ctx, sess, event, session.EventPublish) {
		return
	}
	draft := publish.Draft{
		ChannelID: sess.SelectedChannel,
		Text:      sess.PostText,
		IsHTML:    sess.IsHTML,
		Media:     sess.Media.Items(),
		AuthorID:  event.UserID,
	}
	m.sessions.Clear(event.UserID)
	m.answer(ctx, event, "", false)

	outcome, err := m.publisher.Publish(ctx, draft)
	if err != nil {
		slog.Error("failed to publish post", "error", err, "channel_id", draft.ChannelID, "user_id", event.UserID)
		m.reply(ctx, event.ChatID, fmt.Sprintf(messagePublishFailedFmt, html.EscapeString(errorDetailOrGeneric(err))), mainMenu())
		return
	}
	slog.Info("post published", "channel_id", draft.ChannelID, "user_id", event.UserID, "outcome", outcome, "media", len(draft.Media))
	m.edit(ctx, event, outcomeMessage(outcome), telegram.Keyboard{})
}

func (m *Manager) reset(ctx context.Context, event telegram.CallbackEvent) {
	m.sessions.Clear(event.UserID)
	m.answer(ctx, event, "", false)
	m.deleteMessage(ctx, event)
	m.reply(ctx, event.ChatID, messageCancelled, mainMenu())
}

func errorDetailOrGeneric(err error) string {
	if detail := errorDetail(err); detail != "" {
		return detail
	}
	return messageInternalError
}
