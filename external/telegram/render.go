package telegram

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-telegram/bot/models"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// renderHTML rebuilds the HTML form of a message from its entities. Entity
// offsets count UTF-16 code units.
func renderHTML(text string, entities []models.MessageEntity) string {
	if len(entities) == 0 {
		return textEscaper.Replace(text)
	}
	units := utf16.Encode([]rune(text))
	sorted := append([]models.MessageEntity(nil), entities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Offset != sorted[j].Offset {
			return sorted[i].Offset < sorted[j].Offset
		}
		return sorted[i].Length > sorted[j].Length
	})
	return renderRange(units, sorted, 0, len(units))
}

func renderRange(units []uint16, entities []models.MessageEntity, start, end int) string {
	var b strings.Builder
	pos := start
	for i := 0; i < len(entities); i++ {
		e := entities[i]
		if e.Offset < pos || e.Offset >= end {
			continue
		}
		entityEnd := min(e.Offset+e.Length, end)
		j := i + 1
		for j < len(entities) && entities[j].Offset < entityEnd {
			j++
		}
		b.WriteString(escapeUnits(units[pos:e.Offset]))
		b.WriteString(wrapEntity(e, renderRange(units, entities[i+1:j], e.Offset, entityEnd)))
		pos = entityEnd
		i = j - 1
	}
	b.WriteString(escapeUnits(units[pos:end]))
	return b.String()
}

func escapeUnits(units []uint16) string {
	return textEscaper.Replace(string(utf16.Decode(units)))
}

func wrapEntity(e models.MessageEntity, inner string) string {
	switch string(e.Type) {
	case "bold":
		return "<b>" + inner + "</b>"
	case "italic":
		return "<i>" + inner + "</i>"
	case "underline":
		return "<u>" + inner + "</u>"
	case "strikethrough":
		return "<s>" + inner + "</s>"
	case "spoiler":
		return "<tg-spoiler>" + inner + "</tg-spoiler>"
	case "code":
		return "<code>" + inner + "</code>"
	case "pre":
		if e.Language != "" {
			return `<pre><code class="language-` + textEscaper.Replace(e.Language) + `">` + inner + "</code></pre>"
		}
		return "<pre>" + inner + "</pre>"
	case "text_link":
		return `<a href="` + quoteAttr(e.URL) + `">` + inner + "</a>"
	case "text_mention":
		if e.User == nil {
			return inner
		}
		return `<a href="tg://user?id=` + strconv.FormatInt(e.User.ID, 10) + `">` + inner + "</a>"
	case "custom_emoji":
		return `<tg-emoji emoji-id="` + quoteAttr(e.CustomEmojiID) + `">` + inner + "</tg-emoji>"
	case "blockquote":
		return "<blockquote>" + inner + "</blockquote>"
	case "expandable_blockquote":
		return "<blockquote expandable>" + inner + "</blockquote>"
	default:
		return inner
	}
}

func quoteAttr(s string) string {
	return strings.ReplaceAll(textEscaper.Replace(s), `"`, "&quot;")
}

func customEmojiIDs(entities []models.MessageEntity) []string {
	var ids []string
	for _, e := range entities {
		if e.Type == "custom_emoji" && e.CustomEmojiID != "" {
			ids = append(ids, e.CustomEmojiID)
		}
	}
	return ids
}
