package publish

import (
	"html"

	"github.com/foxseedlab/chanpost/internal/telegram"
)

// Footer renders the branded channel link appended to plain-text posts.
type Footer struct {
	Emoji         string
	CustomEmojiID string
}

// HasFancy reports whether a premium marker is configured.
func (f Footer) HasFancy() bool {
	return f.CustomEmojiID != ""
}

func (f Footer) Plain(channelID, title string) string {
	return f.render(f.Emoji, channelID, title)
}

func (f Footer) Fancy(channelID, title string) string {
	marker := `<tg-emoji emoji-id="` + html.EscapeString(f.CustomEmojiID) + `">` + f.Emoji + `</tg-emoji>`
	return f.render(marker, channelID, title)
}

func (f Footer) render(marker, channelID, title string) string {
	link := telegram.ChannelLink(channelID, "")
	return "\n\n" + marker + " <a href='" + link + "'>" + html.EscapeString(title) + "</a>"
}
