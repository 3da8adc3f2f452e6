// Package telegramtest provides an in-memory telegram.Client for tests.
package telegramtest

import (
	"context"
	"sync"

	"github.com/foxseedlab/chanpost/internal/post"
	"github.com/foxseedlab/chanpost/internal/telegram"
)

// Sent is one channel post attempt.
type Sent struct {
	Method    string
	ChannelID string
	Text      string
	FileID    string
	Media     []post.Media
	Mode      telegram.ParseMode
}

type Edit struct {
	MessageID int
	Message   telegram.TextMessage
}

type Answer struct {
	CallbackID string
	Text       string
	Alert      bool
}

type Fake struct {
	mu sync.Mutex

	Admins     map[string][]telegram.ChatMember
	Members    map[string]map[int64]telegram.ChatMember
	Titles     map[string]string
	AdminsErr  error
	MemberErrs map[string]error
	TitleErr   error

	// SendErrs is consumed in order by channel sends; a nil entry or an
	// exhausted slice means success.
	SendErrs    []error
	SendTextErr error

	Sent     []Sent
	Texts    []telegram.TextMessage
	Edits    []Edit
	Deleted  []int
	Answers  []Answer
	Commands []telegram.CommandDefinition

	nextMessageID int
}

func New() *Fake {
	return &Fake{
		Admins:     map[string][]telegram.ChatMember{},
		Members:    map[string]map[int64]telegram.ChatMember{},
		Titles:     map[string]string{},
		MemberErrs: map[string]error{},
	}
}

func (f *Fake) GetChatAdministrators(_ context.Context, channelID string) ([]telegram.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AdminsErr != nil {
		return nil, f.AdminsErr
	}
	return append([]telegram.ChatMember(nil), f.Admins[channelID]...), nil
}

func (f *Fake) GetChatMember(_ context.Context, channelID string, userID int64) (telegram.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.MemberErrs[channelID]; err != nil {
		return telegram.ChatMember{}, err
	}
	if m, ok := f.Members[channelID][userID]; ok {
		return m, nil
	}
	return telegram.ChatMember{UserID: userID, Status: telegram.StatusLeft}, nil
}

func (f *Fake) GetChatTitle(_ context.Context, channelID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TitleErr != nil {
		return "", f.TitleErr
	}
	return f.Titles[channelID], nil
}

func (f *Fake) SendText(_ context.Context, msg telegram.TextMessage) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendTextErr != nil {
		return 0, f.SendTextErr
	}
	f.Texts = append(f.Texts, msg)
	f.nextMessageID++
	return f.nextMessageID, nil
}

func (f *Fake) EditText(_ context.Context, messageID int, msg telegram.TextMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edits = append(f.Edits, Edit{MessageID: messageID, Message: msg})
	return nil
}

func (f *Fake) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, messageID)
	return nil
}

func (f *Fake) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Answers = append(f.Answers, Answer{CallbackID: callbackID, Text: text, Alert: alert})
	return nil
}

func (f *Fake) SendMessage(_ context.Context, channelID, text string, mode telegram.ParseMode) error {
	return f.send(Sent{Method: "sendMessage", ChannelID: channelID, Text: text, Mode: mode})
}

func (f *Fake) SendPhoto(_ context.Context, channelID, fileID, caption string, mode telegram.ParseMode) error {
	return f.send(Sent{Method: "sendPhoto", ChannelID: channelID, FileID: fileID, Text: caption, Mode: mode})
}

func (f *Fake) SendVideo(_ context.Context, channelID, fileID, caption string, mode telegram.ParseMode) error {
	return f.send(Sent{Method: "sendVideo", ChannelID: channelID, FileID: fileID, Text: caption, Mode: mode})
}

func (f *Fake) SendAudio(_ context.Context, channelID, fileID, caption string, mode telegram.ParseMode) error {
	return f.send(Sent{Method: "sendAudio", ChannelID: channelID, FileID: fileID, Text: caption, Mode: mode})
}

func (f *Fake) SendMediaGroup(_ context.Context, channelID string, items []post.Media, caption string, mode telegram.ParseMode) error {
	return f.send(Sent{Method: "sendMediaGroup", ChannelID: channelID, Media: append([]post.Media(nil), items...), Text: caption, Mode: mode})
}

func (f *Fake) send(s Sent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, s)
	if len(f.SendErrs) == 0 {
		return nil
	}
	err := f.SendErrs[0]
	f.SendErrs = f.SendErrs[1:]
	return err
}

// Sends returns every channel send attempt in order.
func (f *Fake) Sends() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Sent(nil), f.Sent...)
}

// TextsTo returns the private messages sent to one chat.
func (f *Fake) TextsTo(chatID int64) []telegram.TextMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []telegram.TextMessage
	for _, m := range f.Texts {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *Fake) Connect(context.Context) error { return nil }

func (f *Fake) Run(context.Context) error { return nil }

func (f *Fake) RegisterCommands(_ context.Context, defs []telegram.CommandDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Commands = append(f.Commands, defs...)
	return nil
}

func (f *Fake) RegisterMessageHandler(func(context.Context, telegram.MessageEvent)) {}

func (f *Fake) RegisterCallbackHandler(func(context.Context, telegram.CallbackEvent)) {}

func (f *Fake) RegisterMembershipHandler(func(context.Context, telegram.MembershipEvent)) {}
