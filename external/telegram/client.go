package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/chanpost/internal/post"
	tgpkg "github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

var allowedUpdates = bot.AllowedUpdates{"message", "callback_query", "my_chat_member"}

type Client struct {
	bot       *bot.Bot
	token     string
	serverURL string
	workers   int

	onMessage    func(context.Context, tgpkg.MessageEvent)
	onCallback   func(context.Context, tgpkg.CallbackEvent)
	onMembership func(context.Context, tgpkg.MembershipEvent)
}

// NewClient builds a client that handles up to workers updates at once. A
// single slow handler (the roster settle delay, an audit webhook) then only
// holds up its own update.
func NewClient(token, serverURL string, workers int) tgpkg.Client {
	return &Client{
		token:     token,
		serverURL: serverURL,
		workers:   workers,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	opts := []bot.Option{
		bot.WithDefaultHandler(c.dispatch),
		bot.WithAllowedUpdates(allowedUpdates),
	}
	if c.workers > 0 {
		opts = append(opts, bot.WithWorkers(c.workers))
	}
	if c.serverURL != "" {
		opts = append(opts, bot.WithServerURL(c.serverURL))
	}
	b, err := bot.New(c.token, opts...)
	if err != nil {
		return err
	}
	c.bot = b
	// Updates queued while the bot was offline are dropped.
	if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		return classify("deleteWebhook", err)
	}
	return nil
}

// Run polls for updates until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	if c.bot == nil {
		return fmt.Errorf("telegram client is not connected")
	}
	c.bot.Start(ctx)
	return nil
}

func (c *Client) RegisterCommands(ctx context.Context, defs []tgpkg.CommandDefinition) error {
	commands := make([]models.BotCommand, 0, len(defs))
	for _, d := range defs {
		commands = append(commands, models.BotCommand{Command: d.Name, Description: d.Description})
	}
	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands})
	return classify("setMyCommands", err)
}

func (c *Client) RegisterMessageHandler(handler func(context.Context, tgpkg.MessageEvent)) {
	c.onMessage = handler
}

func (c *Client) RegisterCallbackHandler(handler func(context.Context, tgpkg.CallbackEvent)) {
	c.onCallback = handler
}

func (c *Client) RegisterMembershipHandler(handler func(context.Context, tgpkg.MembershipEvent)) {
	c.onMembership = handler
}

func (c *Client) dispatch(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil {
		return
	}
	switch {
	case update.Message != nil:
		if update.Message.Chat.Type != "private" || c.onMessage == nil {
			return
		}
		c.onMessage(ctx, toMessageEvent(update.Message))
	case update.CallbackQuery != nil:
		if c.onCallback == nil {
			return
		}
		c.onCallback(ctx, toCallbackEvent(update.CallbackQuery))
	case update.MyChatMember != nil:
		if c.onMembership == nil {
			return
		}
		event := toMembershipEvent(update.MyChatMember)
		slog.Debug("bot membership update received", "channel_id", event.ChannelID, "old_status", event.OldStatus, "new_status", event.NewStatus)
		c.onMembership(ctx, event)
	}
}

func (c *Client) GetChatAdministrators(ctx context.Context, channelID string) ([]tgpkg.ChatMember, error) {
	members, err := c.bot.GetChatAdministrators(ctx, &bot.GetChatAdministratorsParams{ChatID: channelID})
	if err != nil {
		return nil, classify("getChatAdministrators", err)
	}
	out := make([]tgpkg.ChatMember, 0, len(members))
	for _, m := range members {
		out = append(out, toChatMember(m))
	}
	return out, nil
}

func (c *Client) GetChatMember(ctx context.Context, channelID string, userID int64) (tgpkg.ChatMember, error) {
	m, err := c.bot.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: channelID, UserID: userID})
	if err != nil {
		return tgpkg.ChatMember{}, classify("getChatMember", err)
	}
	member := toChatMember(*m)
	if member.UserID == 0 {
		member.UserID = userID
	}
	return member, nil
}

func (c *Client) GetChatTitle(ctx context.Context, channelID string) (string, error) {
	chat, err := c.bot.GetChat(ctx, &bot.GetChatParams{ChatID: channelID})
	if err != nil {
		return "", classify("getChat", err)
	}
	return chat.Title, nil
}

func (c *Client) SendText(ctx context.Context, msg tgpkg.TextMessage) (int, error) {
	params := &bot.SendMessageParams{
		ChatID:      msg.ChatID,
		Text:        msg.Text,
		ParseMode:   textParseMode(msg),
		ReplyMarkup: replyMarkup(msg.Keyboard),
	}
	if msg.DisablePreview {
		params.LinkPreviewOptions = &models.LinkPreviewOptions{IsDisabled: bot.True()}
	}
	sent, err := c.bot.SendMessage(ctx, params)
	if err != nil {
		return 0, classify("sendMessage", err)
	}
	return sent.ID, nil
}

func (c *Client) EditText(ctx context.Context, messageID int, msg tgpkg.TextMessage) error {
	params := &bot.EditMessageTextParams{
		ChatID:    msg.ChatID,
		MessageID: messageID,
		Text:      msg.Text,
		ParseMode: textParseMode(msg),
	}
	// Only inline keyboards can be attached to an edited message.
	if len(msg.Keyboard.Inline) > 0 {
		params.ReplyMarkup = inlineMarkup(msg.Keyboard.Inline)
	}
	if msg.DisablePreview {
		params.LinkPreviewOptions = &models.LinkPreviewOptions{IsDisabled: bot.True()}
	}
	_, err := c.bot.EditMessageText(ctx, params)
	return classify("editMessageText", err)
}

func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := c.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})
	return classify("deleteMessage", err)
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	_, err := c.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	return classify("answerCallbackQuery", err)
}

func (c *Client) SendMessage(ctx context.Context, channelID, text string, mode tgpkg.ParseMode) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    channelID,
		Text:      text,
		ParseMode: models.ParseMode(mode),
	})
	return classify("sendMessage", err)
}

func (c *Client) SendPhoto(ctx context.Context, channelID, fileID, caption string, mode tgpkg.ParseMode) error {
	_, err := c.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    channelID,
		Photo:     &models.InputFileString{Data: fileID},
		Caption:   caption,
		ParseMode: models.ParseMode(mode),
	})
	return classify("sendPhoto", err)
}

func (c *Client) SendVideo(ctx context.Context, channelID, fileID, caption string, mode tgpkg.ParseMode) error {
	_, err := c.bot.SendVideo(ctx, &bot.SendVideoParams{
		ChatID:    channelID,
		Video:     &models.InputFileString{Data: fileID},
		Caption:   caption,
		ParseMode: models.ParseMode(mode),
	})
	return classify("sendVideo", err)
}

func (c *Client) SendAudio(ctx context.Context, channelID, fileID, caption string, mode tgpkg.ParseMode) error {
	_, err := c.bot.SendAudio(ctx, &bot.SendAudioParams{
		ChatID:    channelID,
		Audio:     &models.InputFileString{Data: fileID},
		Caption:   caption,
		ParseMode: models.ParseMode(mode),
	})
	return classify("sendAudio", err)
}

func (c *Client) SendMediaGroup(ctx context.Context, channelID string, items []post.Media, caption string, mode tgpkg.ParseMode) error {
	media, err := inputMedia(items, caption, models.ParseMode(mode))
	if err != nil {
		return err
	}
	_, err = c.bot.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID: channelID,
		Media:  media,
	})
	return classify("sendMediaGroup", err)
}

// inputMedia builds an album where only the first item carries the caption
// and the parse mode.
func inputMedia(items []post.Media, caption string, mode models.ParseMode) ([]models.InputMedia, error) {
	media := make([]models.InputMedia, 0, len(items))
	for i, item := range items {
		var c string
		var pm models.ParseMode
		if i == 0 {
			c, pm = caption, mode
		}
		switch item.Kind {
		case post.KindPhoto:
			media = append(media, &models.InputMediaPhoto{Media: item.ID, Caption: c, ParseMode: pm})
		case post.KindVideo, post.KindAnimation:
			media = append(media, &models.InputMediaVideo{Media: item.ID, Caption: c, ParseMode: pm})
		case post.KindAudio:
			media = append(media, &models.InputMediaAudio{Media: item.ID, Caption: c, ParseMode: pm})
		default:
			return nil, fmt.Errorf("%w: %s", post.ErrUnsupportedMedia, item.Kind)
		}
	}
	return media, nil
}

func textParseMode(msg tgpkg.TextMessage) models.ParseMode {
	if msg.Plain {
		return ""
	}
	return models.ParseModeHTML
}

func replyMarkup(k tgpkg.Keyboard) models.ReplyMarkup {
	switch {
	case len(k.Inline) > 0:
		return inlineMarkup(k.Inline)
	case len(k.Menu) > 0:
		rows := make([][]models.KeyboardButton, 0, len(k.Menu))
		for _, row := range k.Menu {
			buttons := make([]models.KeyboardButton, 0, len(row))
			for _, text := range row {
				buttons = append(buttons, models.KeyboardButton{Text: text})
			}
			rows = append(rows, buttons)
		}
		return &models.ReplyKeyboardMarkup{
			Keyboard:              rows,
			ResizeKeyboard:        true,
			IsPersistent:          true,
			InputFieldPlaceholder: k.MenuPlaceholder,
		}
	default:
		return nil
	}
}

func inlineMarkup(rows [][]tgpkg.Button) *models.InlineKeyboardMarkup {
	keyboard := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		}
		keyboard = append(keyboard, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
