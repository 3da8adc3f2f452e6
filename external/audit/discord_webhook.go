package audit

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/chanpost/internal/audit"
)

// DiscordSink posts audit events into a Discord channel through an incoming
// webhook.
type DiscordSink struct {
	session *discordgo.Session
	id      string
	token   string
}

func NewDiscordSink(webhookURL string) (*DiscordSink, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	s, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	return &DiscordSink{session: s, id: id, token: token}, nil
}

func (s *DiscordSink) Record(ctx context.Context, event audit.Event) error {
	_, err := s.session.WebhookExecute(s.id, s.token, false, &discordgo.WebhookParams{
		Content: formatDiscordContent(event),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("execute discord webhook: %w", err)
	}
	return nil
}

func formatDiscordContent(event audit.Event) string {
	content := "**" + string(event.Kind) + "** `" + event.ChannelID + "`"
	if event.ChannelTitle != "" {
		content += " " + event.ChannelTitle
	}
	if event.AdminCount > 0 {
		content += fmt.Sprintf(" (%d admins)", event.AdminCount)
	}
	if event.Detail != "" {
		content += "\n" + event.Detail
	}
	return content
}

// parseWebhookURL extracts id and token from
// https://discord.com/api/webhooks/<id>/<token>.
func parseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse discord webhook url: %w", err)
	}
	_, rest, ok := strings.Cut(u.Path, "/api/webhooks/")
	if !ok {
		return "", "", fmt.Errorf("discord webhook url has no /api/webhooks/ path")
	}
	id, token, ok := strings.Cut(strings.Trim(rest, "/"), "/")
	if !ok || id == "" || token == "" {
		return "", "", fmt.Errorf("discord webhook url must contain id and token")
	}
	return id, token, nil
}
