package publish

import (
	"github.com/foxseedlab/chanpost/internal/audit"
	"github.com/foxseedlab/chanpost/internal/config"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Publisher, error) {
		c := do.MustInvoke[*config.Config](i)
		footer := Footer{Emoji: c.FooterEmoji, CustomEmojiID: c.FooterCustomEmojiID}
		return NewPublisher(
			do.MustInvoke[telegram.Client](i),
			do.MustInvoke[repository.Repository](i),
			footer,
			do.MustInvoke[audit.Sink](i),
		), nil
	})
}
