package bot

import (
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/telegram"
)

const (
	callbackRolePrefix    = "role:"
	callbackChannelPrefix = "chan:"
	callbackBackToRoles   = "back_to_roles"
	callbackActionText    = "action_text"
	callbackAddMedia      = "add_media"
	callbackAddAudio      = "add_audio"
	callbackRefreshAdmins = "refresh_admins"
	callbackPublish       = "publish"
	callbackReset         = "reset"
	callbackTemplateStart = "tpl_start"
	callbackTemplateSkip  = "tpl_skip"
	callbackTemplateStop  = "tpl_cancel"
)

func mainMenu() telegram.Keyboard {
	return telegram.Keyboard{
		Menu:            [][]string{{menuContent}, {menuTemplates}},
		MenuPlaceholder: menuPlaceholder,
	}
}

func inline(rows ...[]telegram.Button) telegram.Keyboard {
	return telegram.Keyboard{Inline: rows}
}

func row(buttons ...telegram.Button) []telegram.Button {
	return buttons
}

func button(text, data string) telegram.Button {
	return telegram.Button{Text: text, Data: data}
}

func roleKeyboard() telegram.Keyboard {
	return inline(
		row(button("👑 I own the channel", callbackRolePrefix+string(repository.RoleOwner))),
		row(button("👨‍💻 I am a channel admin", callbackRolePrefix+string(repository.RoleAdmin))),
	)
}

func channelsKeyboard(channels []repository.ChannelRef) telegram.Keyboard {
	rows := make([][]telegram.Button, 0, len(channels)+1)
	for _, c := range channels {
		rows = append(rows, row(button(c.Title, callbackChannelPrefix+c.ChannelID)))
	}
	rows = append(rows, row(button("⬅️ Back", callbackBackToRoles)))
	return inline(rows...)
}

func backToRolesKeyboard() telegram.Keyboard {
	return inline(row(button("⬅️ Back to roles", callbackBackToRoles)))
}

// actionKeyboard offers admin refresh to owners only; the handler checks
// ownership again.
func actionKeyboard(isOwner bool) telegram.Keyboard {
	rows := [][]telegram.Button{
		row(button("✍️ Text", callbackActionText)),
		row(button("🖼 Photo/Video", callbackAddMedia), button("🎵 Audio", callbackAddAudio)),
	}
	if isOwner {
		rows = append(rows, row(button("🔄 Refresh admins", callbackRefreshAdmins)))
	}
	rows = append(rows, row(button("❌ Reset", callbackReset)))
	return inline(rows...)
}

func postOptionsKeyboard() telegram.Keyboard {
	return inline(
		row(button("🖼 Photo/Video", callbackAddMedia), button("🎵 Audio", callbackAddAudio)),
		row(button("🚀 Publish", callbackPublish)),
		row(button("❌ Reset", callbackReset)),
	)
}

func mediaReceivedKeyboard() telegram.Keyboard {
	return inline(
		row(button("🚀 Publish", callbackPublish)),
		row(button("❌ Reset", callbackReset)),
	)
}

func templateStartKeyboard() telegram.Keyboard {
	return inline(
		row(button("🚀 Start", callbackTemplateStart)),
		row(button("❌ Cancel", callbackTemplateStop)),
	)
}

func stepControlsKeyboard() telegram.Keyboard {
	return inline(row(button("⏭ Skip", callbackTemplateSkip), button("❌ Cancel", callbackTemplateStop)))
}

// CommandDefinitions lists the commands shown in the client's command menu.
func CommandDefinitions() []telegram.CommandDefinition {
	return []telegram.CommandDefinition{
		{Name: "start", Description: commandStartDescription},
		{Name: "info", Description: commandInfoDescription},
	}
}
