package bot

import (
	"github.com/foxseedlab/chanpost/internal/publish"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/roster"
	"github.com/foxseedlab/chanpost/internal/session"
	"github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		return NewManager(
			do.MustInvoke[telegram.Client](i),
			do.MustInvoke[repository.Repository](i),
			do.MustInvoke[*session.Store](i),
			do.MustInvoke[*roster.Synchronizer](i),
			do.MustInvoke[*publish.Publisher](i),
		), nil
	})
}
