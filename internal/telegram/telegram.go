package telegram

import (
	"context"
	"strings"

	"github.com/foxseedlab/chanpost/internal/post"
)

type ParseMode string

const (
	ParseModeNone ParseMode = ""
	ParseModeHTML ParseMode = "HTML"
)

type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

type ChatMember struct {
	UserID          int64
	DisplayName     string
	Status          MemberStatus
	CanPostMessages bool
}

// CanPublish reports whether the member may post to the channel.
func (m ChatMember) CanPublish() bool {
	return m.Status == StatusCreator || (m.Status == StatusAdministrator && m.CanPostMessages)
}

type CommandDefinition struct {
	Name        string
	Description string
}

type Button struct {
	Text string
	Data string
}

// Keyboard is either an inline keyboard attached to a message or a persistent
// reply menu. The zero value means no keyboard.
type Keyboard struct {
	Inline          [][]Button
	Menu            [][]string
	MenuPlaceholder string
}

type TextMessage struct {
	ChatID         int64
	Text           string
	Keyboard       Keyboard
	Plain          bool
	DisablePreview bool
}

type MessageEvent struct {
	ChatID         int64
	MessageID      int
	UserID         int64
	Username       string
	Text           string
	HTMLText       string
	CustomEmojiIDs []string
	Attachment     *post.Attachment
}

func (e MessageEvent) HasCustomEmoji() bool {
	return len(e.CustomEmojiIDs) > 0
}

// Command returns the bot command name without the slash and bot suffix, or ""
// if the message is not a command.
func (e MessageEvent) Command() string {
	if !strings.HasPrefix(e.Text, "/") {
		return ""
	}
	name := strings.TrimPrefix(strings.Fields(e.Text)[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return name
}

type CallbackEvent struct {
	CallbackID string
	UserID     int64
	ChatID     int64
	MessageID  int
	Data       string
}

// MembershipEvent reports a change of the bot's own status in a chat.
type MembershipEvent struct {
	ChannelID       string
	ChannelTitle    string
	ChannelUsername string
	ActorID         int64
	ActorUsername   string
	OldStatus       MemberStatus
	NewStatus       MemberStatus
}

// Promoted reports whether the bot just became an administrator.
func (e MembershipEvent) Promoted() bool {
	return e.NewStatus == StatusAdministrator && isOutsider(e.OldStatus)
}

// Demoted reports whether the bot just lost administrator rights.
func (e MembershipEvent) Demoted() bool {
	return e.OldStatus == StatusAdministrator && isOutsider(e.NewStatus)
}

func isOutsider(s MemberStatus) bool {
	switch s {
	case StatusMember, StatusLeft, StatusKicked, StatusRestricted:
		return true
	default:
		return false
	}
}

// ActorName is the @username of the actor, or the numeric id.
func (e MembershipEvent) ActorName() string {
	if e.ActorUsername != "" {
		return "@" + e.ActorUsername
	}
	return "@" + formatID(e.ActorID)
}

type RosterReader interface {
	GetChatAdministrators(ctx context.Context, channelID string) ([]ChatMember, error)
	GetChatMember(ctx context.Context, channelID string, userID int64) (ChatMember, error)
	GetChatTitle(ctx context.Context, channelID string) (string, error)
}

// Messenger talks to users in private chats.
type Messenger interface {
	SendText(ctx context.Context, msg TextMessage) (int, error)
	EditText(ctx context.Context, messageID int, msg TextMessage) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// ChannelSender posts to channels.
type ChannelSender interface {
	SendMessage(ctx context.Context, channelID, text string, mode ParseMode) error
	SendPhoto(ctx context.Context, channelID, fileID, caption string, mode ParseMode) error
	SendVideo(ctx context.Context, channelID, fileID, caption string, mode ParseMode) error
	SendAudio(ctx context.Context, channelID, fileID, caption string, mode ParseMode) error
	// SendMediaGroup sends one album; only the first item carries the caption
	// and the parse mode.
	SendMediaGroup(ctx context.Context, channelID string, items []post.Media, caption string, mode ParseMode) error
}

type Client interface {
	RosterReader
	Messenger
	ChannelSender
	Connect(ctx context.Context) error
	Run(ctx context.Context) error
	RegisterCommands(ctx context.Context, defs []CommandDefinition) error
	RegisterMessageHandler(handler func(context.Context, MessageEvent))
	RegisterCallbackHandler(handler func(context.Context, CallbackEvent))
	RegisterMembershipHandler(handler func(context.Context, MembershipEvent))
}
