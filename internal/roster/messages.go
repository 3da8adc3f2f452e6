package roster

import (
	"fmt"
	"html"

	"github.com/foxseedlab/chanpost/internal/telegram"
)

const (
	messageConnectedOwnerFormat    = "➕ <b>The bot is connected to your channel!</b>\nChannel: %s"
	messageConnectedByFormat       = "\nConnected by: %s"
	messageConnectedActorFormat    = "✅ You connected the channel %s to the bot."
	messageDisconnectedOwnerFormat = "❌ <b>The bot was removed from your channel!</b>\nChannel: %s"
	messageDisconnectedByFormat    = "\nRemoved by: %s"
	messageDisconnectedActorFormat = "❌ You removed the bot from the channel %s."
)

func channelAnchor(event telegram.MembershipEvent) string {
	link := telegram.ChannelLink(event.ChannelID, event.ChannelUsername)
	return fmt.Sprintf("<a href='%s'>%s</a>", link, html.EscapeString(event.ChannelTitle))
}

func connectedOwnerMessage(event telegram.MembershipEvent, byOther bool) string {
	msg := fmt.Sprintf(messageConnectedOwnerFormat, channelAnchor(event))
	if byOther {
		msg += fmt.Sprintf(messageConnectedByFormat, html.EscapeString(event.ActorName()))
	}
	return msg
}

func connectedActorMessage(event telegram.MembershipEvent) string {
	return fmt.Sprintf(messageConnectedActorFormat, channelAnchor(event))
}

func disconnectedOwnerMessage(event telegram.MembershipEvent, byOther bool) string {
	msg := fmt.Sprintf(messageDisconnectedOwnerFormat, channelAnchor(event))
	if byOther {
		msg += fmt.Sprintf(messageDisconnectedByFormat, html.EscapeString(event.ActorName()))
	}
	return msg
}

func disconnectedActorMessage(event telegram.MembershipEvent) string {
	return fmt.Sprintf(messageDisconnectedActorFormat, channelAnchor(event))
}
