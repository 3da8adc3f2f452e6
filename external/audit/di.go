package audit

import (
	"github.com/foxseedlab/chanpost/internal/audit"
	"github.com/foxseedlab/chanpost/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audit.Sink, error) {
		c := do.MustInvoke[*config.Config](i)
		var sinks audit.Fanout
		if c.AuditWebhookURL != "" {
			sinks = append(sinks, NewHTTPSink(c.AuditWebhookURL))
		}
		if c.AuditDiscordWebhookURL != "" {
			s, err := NewDiscordSink(c.AuditDiscordWebhookURL)
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, s)
		}
		if len(sinks) == 0 {
			return audit.Noop{}, nil
		}
		return sinks, nil
	})
}
