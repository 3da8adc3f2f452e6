package telegram

import (
	"github.com/foxseedlab/chanpost/internal/post"
	tgpkg "github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/go-telegram/bot/models"
)

func toMessageEvent(m *models.Message) tgpkg.MessageEvent {
	text, entities := m.Text, m.Entities
	if text == "" && m.Caption != "" {
		text, entities = m.Caption, m.CaptionEntities
	}
	event := tgpkg.MessageEvent{
		ChatID:         m.Chat.ID,
		MessageID:      m.ID,
		Text:           text,
		HTMLText:       renderHTML(text, entities),
		CustomEmojiIDs: customEmojiIDs(entities),
		Attachment:     toAttachment(m),
	}
	if m.From != nil {
		event.UserID = m.From.ID
		event.Username = m.From.Username
	}
	return event
}

func toAttachment(m *models.Message) *post.Attachment {
	switch {
	case len(m.Photo) > 0:
		// Sizes are ordered from smallest to largest.
		return &post.Attachment{FileID: m.Photo[len(m.Photo)-1].FileID, Kind: post.KindPhoto}
	case m.Video != nil:
		return &post.Attachment{FileID: m.Video.FileID, Kind: post.KindVideo}
	case m.Animation != nil:
		return &post.Attachment{FileID: m.Animation.FileID, Kind: post.KindAnimation}
	case m.Audio != nil:
		return &post.Attachment{FileID: m.Audio.FileID, Kind: post.KindAudio}
	default:
		return nil
	}
}

func toCallbackEvent(q *models.CallbackQuery) tgpkg.CallbackEvent {
	event := tgpkg.CallbackEvent{
		CallbackID: q.ID,
		UserID:     q.From.ID,
		ChatID:     q.From.ID,
		Data:       q.Data,
	}
	switch {
	case q.Message.Message != nil:
		event.ChatID = q.Message.Message.Chat.ID
		event.MessageID = q.Message.Message.ID
	case q.Message.InaccessibleMessage != nil:
		event.ChatID = q.Message.InaccessibleMessage.Chat.ID
		event.MessageID = q.Message.InaccessibleMessage.MessageID
	}
	return event
}

func toMembershipEvent(u *models.ChatMemberUpdated) tgpkg.MembershipEvent {
	return tgpkg.MembershipEvent{
		ChannelID:       tgpkg.ChatID(u.Chat.ID),
		ChannelTitle:    u.Chat.Title,
		ChannelUsername: u.Chat.Username,
		ActorID:         u.From.ID,
		ActorUsername:   u.From.Username,
		OldStatus:       tgpkg.MemberStatus(u.OldChatMember.Type),
		NewStatus:       tgpkg.MemberStatus(u.NewChatMember.Type),
	}
}

func toChatMember(m models.ChatMember) tgpkg.ChatMember {
	out := tgpkg.ChatMember{Status: tgpkg.MemberStatus(m.Type)}
	switch m.Type {
	case "creator":
		if m.Owner != nil && m.Owner.User != nil {
			out.UserID = m.Owner.User.ID
			out.DisplayName = displayName(*m.Owner.User)
		}
	case "administrator":
		if m.Administrator != nil {
			out.UserID = m.Administrator.User.ID
			out.DisplayName = displayName(m.Administrator.User)
			out.CanPostMessages = m.Administrator.CanPostMessages
		}
	}
	return out
}

func displayName(u models.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
