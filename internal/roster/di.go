package roster

import (
	"github.com/foxseedlab/chanpost/internal/audit"
	"github.com/foxseedlab/chanpost/internal/config"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Synchronizer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewSynchronizer(
			do.MustInvoke[repository.Repository](i),
			do.MustInvoke[telegram.Client](i),
			do.MustInvoke[audit.Sink](i),
			c.RosterSyncDelay,
		), nil
	})
}
