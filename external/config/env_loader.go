package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/chanpost/internal/config"
)

type envConfig struct {
	Env                    string        `env:"ENV" envDefault:"production"`
	TelegramBotToken       string        `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramAPIURL         string        `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	TelegramWorkers        int           `env:"TELEGRAM_WORKERS" envDefault:"8"`
	DatabaseURL            string        `env:"DATABASE_URL,required"`
	DatabaseMaxConns       int32         `env:"DATABASE_MAX_CONNS" envDefault:"4"`
	FooterEmoji            string        `env:"FOOTER_EMOJI" envDefault:"⛺️"`
	FooterCustomEmojiID    string        `env:"FOOTER_CUSTOM_EMOJI_ID"`
	SessionTTL             time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	SessionCacheSize       int           `env:"SESSION_CACHE_SIZE" envDefault:"10000"`
	RosterSyncDelay        time.Duration `env:"ROSTER_SYNC_DELAY" envDefault:"1s"`
	AuditWebhookURL        string        `env:"AUDIT_WEBHOOK_URL"`
	AuditDiscordWebhookURL string        `env:"AUDIT_DISCORD_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                    raw.Env,
		TelegramBotToken:       raw.TelegramBotToken,
		TelegramAPIURL:         raw.TelegramAPIURL,
		TelegramWorkers:        raw.TelegramWorkers,
		DatabaseURL:            raw.DatabaseURL,
		DatabaseMaxConns:       raw.DatabaseMaxConns,
		FooterEmoji:            raw.FooterEmoji,
		FooterCustomEmojiID:    strings.TrimSpace(raw.FooterCustomEmojiID),
		SessionTTL:             raw.SessionTTL,
		SessionCacheSize:       raw.SessionCacheSize,
		RosterSyncDelay:        raw.RosterSyncDelay,
		AuditWebhookURL:        raw.AuditWebhookURL,
		AuditDiscordWebhookURL: raw.AuditDiscordWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
