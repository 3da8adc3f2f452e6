package bot

import (
	"strings"
	"testing"

	"github.com/foxseedlab/chanpost/internal/session"
	"github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/foxseedlab/chanpost/internal/template"
)

func TestTemplateFlow_TitleOnly(t *testing.T) {
	h := newHarness(t)

	h.text(ownerID, menuTemplates)
	h.callback(ownerID, callbackTemplateStart)
	if got := h.state(ownerID); got != session.StateWaitingForTitle {
		t.Fatalf("expected waiting for title, got %s", got)
	}
	h.text(ownerID, "Hello")
	for i := 1; i < template.StepCount; i++ {
		h.callback(ownerID, callbackTemplateSkip)
	}

	texts := h.tg.TextsTo(ownerID)
	var preview, copyText string
	for i, m := range texts {
		if m.Text == messagePreviewTitle && i+2 < len(texts) {
			preview = texts[i+1].Text
			copyText = texts[i+2].Text
		}
	}
	if preview != "<b>Hello</b>" {
		t.Fatalf("unexpected preview: %q", preview)
	}
	if !strings.Contains(copyText, "<code>&lt;b&gt;Hello&lt;/b&gt;</code>") {
		t.Fatalf("unexpected copy text: %q", copyText)
	}
	if strings.Contains(copyText, messagePremiumWarning) {
		t.Fatal("no premium warning expected")
	}
	if _, ok := h.sessions.Peek(ownerID); ok {
		t.Fatal("expected session to be cleared")
	}
}

func TestTemplateFlow_AllSkippedIsEmpty(t *testing.T) {
	h := newHarness(t)

	h.text(ownerID, menuTemplates)
	h.callback(ownerID, callbackTemplateStart)
	for i := 0; i < template.StepCount; i++ {
		h.callback(ownerID, callbackTemplateSkip)
	}

	if got := h.lastText(ownerID).Text; got != messageTemplateEmpty {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestTemplateFlow_PremiumWarning(t *testing.T) {
	h := newHarness(t)

	h.text(ownerID, menuTemplates)
	h.callback(ownerID, callbackTemplateStart)
	h.manager.HandleMessage(t.Context(), messageWithEmoji(ownerID))
	for i := 1; i < template.StepCount; i++ {
		h.callback(ownerID, callbackTemplateSkip)
	}

	if got := h.lastText(ownerID).Text; !strings.HasSuffix(got, messagePremiumWarning) {
		t.Fatalf("expected premium warning, got %q", got)
	}
}

func TestTemplateFlow_CancelReturnsToMenu(t *testing.T) {
	h := newHarness(t)

	h.text(ownerID, menuTemplates)
	h.callback(ownerID, callbackTemplateStart)
	h.text(ownerID, "Hello")
	h.callback(ownerID, callbackTemplateStop)

	if _, ok := h.sessions.Peek(ownerID); ok {
		t.Fatal("expected session to be cleared")
	}
	if got := h.lastText(ownerID).Text; got != messageMainMenu {
		t.Fatalf("unexpected reply: %q", got)
	}
}

func TestTemplateFlow_SkipOutsideTemplateIsRejected(t *testing.T) {
	h := newHarness(t)

	h.callback(ownerID, callbackTemplateSkip)

	if ans := h.lastAnswer(); ans.Text != messageUnavailable {
		t.Fatalf("unexpected answer: %+v", ans)
	}
}

func messageWithEmoji(user int64) telegram.MessageEvent {
	return telegram.MessageEvent{
		ChatID:         user,
		UserID:         user,
		Text:           "⛺ Hello",
		HTMLText:       `<tg-emoji emoji-id="1">⛺</tg-emoji> Hello`,
		CustomEmojiIDs: []string{"1"},
	}
}
