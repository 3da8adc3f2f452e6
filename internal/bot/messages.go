package bot

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/foxseedlab/chanpost/internal/post"
	"github.com/foxseedlab/chanpost/internal/publish"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/foxseedlab/chanpost/internal/template"
)

const (
	commandStartDescription = "Start the bot and open the main menu"
	commandInfoDescription  = "How to use the bot"

	menuContent     = "Content"
	menuTemplates   = "Templates"
	menuPlaceholder = "Choose a section..."

	messageGreeting = "👋 Hi! I help you publish content to your Telegram channels.\n\n" +
		"<b>How to start:</b>\n" +
		"1. Add me to your channel.\n" +
		"2. Make me an administrator with the <b>Post messages</b> right.\n" +
		"3. Press <b>Content</b> below."

	messageInfo = "ℹ️ <b>How to use the bot</b>\n\n" +
		"1️⃣ <b>Publishing:</b>\n" +
		"• Press <b>Content</b>.\n" +
		"• Choose your role (owner or admin).\n" +
		"• Pick a channel. Your rights are checked live.\n" +
		"• Send the post text. HTML tags are allowed.\n" +
		"• Attach photos, videos or audio, up to 10 files.\n" +
		"• Press <b>Publish</b>.\n\n" +
		"2️⃣ <b>Template builder:</b>\n" +
		"Builds a formatted post in <b>7 steps</b>: title, subtitle, body, note (shown as a quote), conclusion, hashtags and links.\n\n" +
		"💡 <b>Tip:</b> when the template is done you get its source. Tap it to copy, then paste it in <b>Content</b>.\n\n" +
		"⚠️ <b>Premium emoji</b> are only shown in channels with <b>boost level 2</b>."

	messageChooseRole       = "👋 <b>Content</b>\n\nChoose your role in the channel:"
	messageOwnerChannels    = "👑 <b>Channels you own</b>\nChoose a channel:"
	messageAdminChannels    = "👨‍💻 <b>Channels where you are an admin</b>\nChoose a channel:"
	messageNoOwnerChannels  = "You do not own any connected channel."
	messageNoAdminChannels  = "You are not an admin of any connected channel."
	messageNoChannelsHint   = "\n\nIf you are an owner, add the bot to your channel.\nIf you are an admin, ask the owner to press <b>Refresh admins</b>."
	messageChannelSelected  = "✅ Channel selected: <a href='%s'><b>%s</b></a>\nWhat shall we do?"
	messageRightsRevoked    = "❌ Your rights in this channel were revoked."
	messageChannelGone      = "❌ The channel no longer exists or the bot was removed.\nThe channel list is updated."
	messageAccessErrorFmt   = "⚠️ Access check failed: %s"
	messageAdminsSynced     = "✅ Admin list synchronized (%d)."
	messageOnlyOwnerRefresh = "⛔️ Only the owner can refresh the admin list."
	messageRefreshFailedFmt = "❌ Error: %s"

	messageAskText        = "✍️ <b>Send the text of the post:</b>\n<i>(HTML formatting is supported)</i>"
	messageSendTextOnly   = "✍️ Please send the post as text."
	messageMarkupAccepted = "✅ Template/HTML accepted."
	messageTextAccepted   = "📝 Text accepted."
	messageTextNextStep   = "\n\nYou can now attach files or press <b>Publish</b>."
	messageAskMedia       = "🖼 Send <b>photos or videos</b>, one at a time, up to %d:"
	messageAskAudio       = "🎵 Send <b>audio files</b>, one at a time, up to %d:"
	messageMediaAdded     = "✅ File %d/%d added."
	messageMediaLimit     = "⚠️ The limit of %d files is reached!"
	messageAudioOnly      = "❌ Only audio is accepted in this mode."
	messageVisualOnly     = "❌ Only photos and videos are accepted in this mode."
	messageSendFile       = "📎 Please send a file."

	messageSessionExpired = "⚠️ The session expired or the post is already published."
	messageUnavailable    = "⚠️ This action is not available right now."
	messageInternalError  = "⚠️ Something went wrong. Please try again."
	messageCancelled      = "🔄 Action cancelled."

	messagePublished         = "🚀 <b>Published with footer!</b>"
	messageMarkerReplaced    = "🚀 <b>Published!</b> (emoji replaced)"
	messageTextEscaped       = "⚠️ <b>Published</b> (text escaped, link kept)."
	messageTemplatePublished = "🚀 <b>Published!</b> (template)"
	messageUnformatted       = "⚠️ <b>Published without formatting</b> (invalid tags)."
	messagePublishFailedFmt  = "❌ Publishing failed: %s"

	messageTemplateIntro = "📝 <b>Post template builder</b>\n\n" +
		"I will help you build a structured post for your channel.\n\n" +
		"⚠️ <b>IMPORTANT:</b> premium emoji are only visible in channels with <b>boost level 2</b>.\n\n" +
		"Start?"
	messageTemplateCancelled = "🔄 Template cancelled."
	messageMainMenu          = "Main menu:"
	messageTemplateTextOnly  = "✍️ Please send text, or press <b>Skip</b>."
	messagePreviewTitle      = "👀 <b>Preview of your post:</b>"
	messageTemplateEmpty     = "The template is empty."
	messagePreviewFailedFmt  = "❌ The preview could not be rendered: %s"
	messageCopyReady         = "✨ <b>Ready to copy!</b>\n\n" +
		"📱 <b>Phone:</b> tap the text below to copy it.\n" +
		"💻 <b>Desktop:</b> select the text below and press <code>Ctrl+C</code>.\n\n" +
		"<code>%s</code>"
	messagePremiumWarning = "\n\n⚠️ <b>NOTE:</b> the text contains premium emoji. They are only shown in channels with <b>boost level 2+</b>."

	messageEmojiIDFmt = "Emoji id for <code>FOOTER_CUSTOM_EMOJI_ID</code>:\n<code>%s</code>"
)

var templatePrompts = [template.StepCount]string{
	template.StepTitle:      "1️⃣ Enter the <b>title</b> of the post:",
	template.StepSubtitle:   "2️⃣ Enter the <b>subtitle</b>:",
	template.StepBody:       "3️⃣ Enter the <b>body</b>:",
	template.StepNote:       "4️⃣ Enter a <b>note</b> (shown as a quote):",
	template.StepConclusion: "5️⃣ Enter the <b>conclusion</b>:",
	template.StepHashtags:   "6️⃣ Enter the <b>hashtags</b>:",
	template.StepLinks:      "7️⃣ Enter the <b>links</b>:",
}

func channelsMessage(role repository.Role) string {
	if role == repository.RoleOwner {
		return messageOwnerChannels
	}
	return messageAdminChannels
}

func noChannelsMessage(role repository.Role) string {
	empty := messageNoAdminChannels
	if role == repository.RoleOwner {
		empty = messageNoOwnerChannels
	}
	return "❌ <b>" + empty + "</b>" + messageNoChannelsHint
}

func channelSelectedMessage(channelID, title string) string {
	return fmt.Sprintf(messageChannelSelected, telegram.ChannelLink(channelID, ""), html.EscapeString(title))
}

func textAcceptedMessage(isHTML bool) string {
	if isHTML {
		return messageMarkupAccepted + messageTextNextStep
	}
	return messageTextAccepted + messageTextNextStep
}

func askMediaMessage(mode post.Mode) string {
	if mode == post.ModeAudio {
		return fmt.Sprintf(messageAskAudio, post.MaxMedia)
	}
	return fmt.Sprintf(messageAskMedia, post.MaxMedia)
}

func mediaAddedMessage(count int) string {
	return fmt.Sprintf(messageMediaAdded, count, post.MaxMedia)
}

func outcomeMessage(o publish.Outcome) string {
	switch o {
	case publish.OutcomeMarkerReplaced:
		return messageMarkerReplaced
	case publish.OutcomeTextEscaped:
		return messageTextEscaped
	case publish.OutcomeTemplate:
		return messageTemplatePublished
	case publish.OutcomeUnformatted:
		return messageUnformatted
	default:
		return messagePublished
	}
}

func copyReadyMessage(result template.Result) string {
	msg := fmt.Sprintf(messageCopyReady, result.CopyText)
	if result.HasPremium {
		msg += messagePremiumWarning
	}
	return msg
}

func emojiIDMessage(ids []string) string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf(messageEmojiIDFmt, html.EscapeString(id)))
	}
	return strings.Join(lines, "\n\n")
}

// errorDetail is shown to users for transport failures only. Anything else
// is internal and stays in the logs.
func errorDetail(err error) string {
	var tgErr *telegram.Error
	if errors.As(err, &tgErr) {
		return tgErr.Err.Error()
	}
	return ""
}
