package telegram

import (
	"github.com/foxseedlab/chanpost/internal/config"
	tgpkg "github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (tgpkg.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(c.TelegramBotToken, c.TelegramAPIURL, c.TelegramWorkers), nil
	})
}
