package audit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/chanpost/internal/audit"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestParseWebhookURL(t *testing.T) {
	id, token, err := parseWebhookURL("https://discord.com/api/webhooks/123/abc-def")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "123" || token != "abc-def" {
		t.Fatalf("unexpected id/token: %q %q", id, token)
	}
	for _, raw := range []string{"https://discord.com/api/other/1/2", "https://discord.com/api/webhooks/123"} {
		if _, _, err := parseWebhookURL(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestDiscordSinkRecord_ExecutesWebhook(t *testing.T) {
	var gotPath string
	var gotParams discordgo.WebhookParams
	sink, err := NewDiscordSink("https://discord.com/api/webhooks/123/tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sink.session.Client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		if err := json.NewDecoder(req.Body).Decode(&gotParams); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusNoContent,
			Status:     "204 No Content",
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     make(http.Header),
		}, nil
	})}

	event := audit.Event{Kind: audit.KindChannelDisconnected, ChannelID: "-100555", ChannelTitle: "News"}
	if err := sink.Record(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/webhooks/123/tok") {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if gotParams.Content != "**channel_disconnected** `-100555` News" {
		t.Fatalf("unexpected content: %q", gotParams.Content)
	}
}

func TestDiscordSinkRecord_ReturnsErrorOnFailure(t *testing.T) {
	sink, err := NewDiscordSink("https://discord.com/api/webhooks/123/tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sink.session.Client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Status:     "401 Unauthorized",
			Body:       io.NopCloser(strings.NewReader(`{"message":"401: Unauthorized","code":0}`)),
			Header:     make(http.Header),
		}, nil
	})}
	if err := sink.Record(context.Background(), audit.Event{Kind: audit.KindPostFailed}); err == nil {
		t.Fatal("expected error")
	}
}
