package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/foxseedlab/chanpost/internal/audit"
)

const (
	httpSinkTimeout = 10 * time.Second
	eventKindHeader = "X-Chanpost-Event"
	// Enough of a rejected response body to tell what went wrong.
	maxErrorBody = 512
)

// HTTPSink posts every audit event as JSON to a generic webhook.
type HTTPSink struct {
	url    string
	client *http.Client
}

func NewHTTPSink(url string) *HTTPSink {
	return &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: httpSinkTimeout},
	}
}

func (s *HTTPSink) Record(ctx context.Context, event audit.Event) error {
	if s.url == "" {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(eventKindHeader, string(event.Kind))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post audit event %s: %w", event.Kind, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("audit webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
