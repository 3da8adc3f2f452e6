package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Env                    string
	TelegramBotToken       string
	TelegramAPIURL         string
	TelegramWorkers        int
	DatabaseURL            string
	DatabaseMaxConns       int32
	FooterEmoji            string
	FooterCustomEmojiID    string
	SessionTTL             time.Duration
	SessionCacheSize       int
	RosterSyncDelay        time.Duration
	AuditWebhookURL        string
	AuditDiscordWebhookURL string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.TelegramWorkers <= 0 {
		return fmt.Errorf("TELEGRAM_WORKERS must be positive, got %d", c.TelegramWorkers)
	}
	if c.DatabaseMaxConns <= 0 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be positive, got %d", c.DatabaseMaxConns)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.SessionCacheSize <= 0 {
		return fmt.Errorf("SESSION_CACHE_SIZE must be positive, got %d", c.SessionCacheSize)
	}
	if c.RosterSyncDelay < 0 {
		return fmt.Errorf("ROSTER_SYNC_DELAY must not be negative, got %s", c.RosterSyncDelay)
	}
	if c.AuditWebhookURL != "" {
		if _, err := url.ParseRequestURI(c.AuditWebhookURL); err != nil {
			return fmt.Errorf("AUDIT_WEBHOOK_URL is invalid: %w", err)
		}
	}
	if c.AuditDiscordWebhookURL != "" && !strings.Contains(c.AuditDiscordWebhookURL, "/api/webhooks/") {
		return fmt.Errorf("AUDIT_DISCORD_WEBHOOK_URL must be a discord webhook url")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "TELEGRAM_BOT_TOKEN", value: c.TelegramBotToken},
		{name: "TELEGRAM_API_URL", value: c.TelegramAPIURL},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "FOOTER_EMOJI", value: c.FooterEmoji},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// PremiumFooterEnabled reports whether a custom emoji is configured for the
// channel footer.
func (c *Config) PremiumFooterEnabled() bool {
	return c.FooterCustomEmojiID != ""
}
