package telegram

import (
	"strconv"
	"strings"
)

const linkBase = "https://t.me/"

// ChannelLink builds a public link for a channel. Public channels link by
// username; private ones link to their first message.
func ChannelLink(channelID, username string) string {
	if username != "" {
		return linkBase + username
	}
	if strings.HasPrefix(channelID, "@") {
		return linkBase + channelID[1:]
	}
	return linkBase + "c/" + strings.TrimPrefix(channelID, "-100") + "/1"
}

// ChatID converts a numeric chat id to the string form used for channels.
func ChatID(id int64) string {
	return formatID(id)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
