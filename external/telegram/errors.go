package telegram

import (
	"errors"
	"strings"

	tgpkg "github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/go-telegram/bot"
)

var (
	chatGoneMarkers = []string{"chat not found", "chat_id_invalid", "peer_id_invalid", "channel_private"}
	markupMarkers   = []string{"can't parse entities", "custom emoji", "entities", "entity"}
)

// classify wraps a Bot API failure so callers can branch on its kind without
// reading the description.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return &tgpkg.Error{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) tgpkg.ErrorKind {
	desc := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, bot.ErrorForbidden):
		return tgpkg.ErrorKindChatGone
	case errors.Is(err, bot.ErrorBadRequest):
		if containsAny(desc, chatGoneMarkers) {
			return tgpkg.ErrorKindChatGone
		}
		if containsAny(desc, markupMarkers) {
			return tgpkg.ErrorKindMarkupRejected
		}
	}
	return tgpkg.ErrorKindOther
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
