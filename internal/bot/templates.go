package bot

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/foxseedlab/chanpost/internal/session"
	"github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/foxseedlab/chanpost/internal/template"
)

func (m *Manager) openTemplates(ctx context.Context, event telegram.MessageEvent) {
	sess := m.sessions.Get(event.UserID)
	sess.Reset()
	_ = sess.Fire(session.EventOpenTemplates)
	m.reply(ctx, event.ChatID, messageTemplateIntro, templateStartKeyboard())
}

func (m *Manager) startTemplate(ctx context.Context, sess *session.Session, event telegram.CallbackEvent) {
	if !m.fire(ctx, sess, event, session.EventTemplateStart) {
		return
	}
	m.answer(ctx, event, "", false)
	m.edit(ctx, event, templatePrompts[template.StepTitle], stepControlsKeyboard())
}

func (m *Manager) receiveTemplateInput(ctx context.Context, sess *session.Session, event telegram.MessageEvent) {
	if event.Text == "" {
		m.reply(ctx, event.ChatID, messageTemplateTextOnly, stepControlsKeyboard())
		return
	}
	step, err := sess.RecordTemplateStep(event.HTMLText, event.HasCustomEmoji())
	if err != nil {
		slog.Error("failed to record template step", "error", err, "user_id", event.UserID, "state", sess.State)
		return
	}
	_ = sess.Fire(session.EventTemplateInput)
	m.advanceTemplate(ctx, sess, event.ChatID, step)
}

func (m *Manager) skipTemplateStep(ctx context.Context, sess *session.Session, event telegram.CallbackEvent) {
	if !sess.State.IsTemplate() {
		m.answer(ctx, event, messageUnavailable, false)
		return
	}
	step, err := sess.RecordTemplateStep("", false)
	if err != nil {
		slog.Error("failed to skip template step", "error", err, "user_id", event.UserID, "state", sess.State)
		m.answer(ctx, event, messageInternalError, false)
		return
	}
	_ = sess.Fire(session.EventTemplateSkip)
	m.answer(ctx, event, "", false)
	m.deleteMessage(ctx, event)
	m.advanceTemplate(ctx, sess, event.ChatID, step)
}

func (m *Manager) advanceTemplate(ctx context.Context, sess *session.Session, chatID int64, done template.Step) {
	if done.Last() {
		m.finalizeTemplate(ctx, sess, chatID)
		return
	}
	m.reply(ctx, chatID, templatePrompts[done+1], stepControlsKeyboard())
}

// finalizeTemplate shows a preview of the assembled post and its copyable
// source, then ends the flow.
func (m *Manager) finalizeTemplate(ctx context.Context, sess *session.Session, chatID int64) {
	result := sess.FinalizeTemplate()
	m.sessions.Clear(sess.UserID)

	m.reply(ctx, chatID, messagePreviewTitle, telegram.Keyboard{})
	if result.Document == "" {
		m.reply(ctx, chatID, messageTemplateEmpty, mainMenu())
		return
	}
	preview := telegram.TextMessage{ChatID: chatID, Text: result.Document, DisablePreview: true}
	if _, err := m.client.SendText(ctx, preview); err != nil {
		slog.Warn("failed to send template preview", "error", err, "user_id", sess.UserID)
		m.reply(ctx, chatID, fmt.Sprintf(messagePreviewFailedFmt, html.EscapeString(errorDetailOrGeneric(err))), telegram.Keyboard{})
	}
	m.reply(ctx, chatID, copyReadyMessage(result), mainMenu())
}

func (m *Manager) cancelTemplate(ctx context.Context, sess *session.Session, event telegram.CallbackEvent) {
	if sess.State.IsTemplate() {
		_ = sess.Fire(session.EventTemplateCancel)
	}
	m.sessions.Clear(event.UserID)
	m.answer(ctx, event, "", false)
	m.edit(ctx, event, messageTemplateCancelled, telegram.Keyboard{})
	m.reply(ctx, event.ChatID, messageMainMenu, mainMenu())
}
