package session

import (
	"errors"
	"testing"
	"time"

	"github.com/foxseedlab/chanpost/internal/post"
)

func TestSession_ResetClearsEverything(t *testing.T) {
	s := New(7)
	s.State = StateConfirmation
	s.SelectChannel("-100555")
	s.SetText("Hi", false)
	s.StartMedia(post.ModeMedia)
	if _, err := s.AddMedia(post.Attachment{FileID: "p1", Kind: post.KindPhoto}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Template.Title = "T"
	s.Premium.Observe(true)

	s.Reset()

	if s.UserID != 7 || s.State != StateIdle {
		t.Fatalf("unexpected identity after reset: %+v", s)
	}
	if s.SelectedChannel != "" || s.PostText != "" || s.Media.Len() != 0 || s.Mode != post.ModeNone {
		t.Fatalf("expected post data to be cleared: %+v", s)
	}
	if s.Template.Title != "" || s.Premium.Seen() {
		t.Fatal("expected template data to be cleared")
	}
	if s.CanPublish() {
		t.Fatal("expected reset session to be unpublishable")
	}
}

func TestSession_StartMediaDropsOtherMode(t *testing.T) {
	s := New(1)
	s.StartMedia(post.ModeMedia)
	_, _ = s.AddMedia(post.Attachment{FileID: "p1", Kind: post.KindPhoto})
	s.StartMedia(post.ModeMedia)
	if s.Media.Len() != 1 {
		t.Fatal("expected same-mode restart to keep media")
	}
	s.StartMedia(post.ModeAudio)
	if s.Media.Len() != 0 {
		t.Fatal("expected mode switch to drop media")
	}
	if _, err := s.AddMedia(post.Attachment{FileID: "p2", Kind: post.KindPhoto}); !errors.Is(err, post.ErrAudioOnly) {
		t.Fatalf("expected ErrAudioOnly, got %v", err)
	}
}

func TestSession_FireRejectsInvalid(t *testing.T) {
	s := New(1)
	if err := s.Fire(EventPublish); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if s.State != StateIdle {
		t.Fatalf("expected idle, got %s", s.State)
	}
}

func TestSession_TemplateFlowTracksPremium(t *testing.T) {
	s := New(1)
	if err := s.Fire(EventTemplateStart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inputs := []struct {
		value   string
		premium bool
	}{
		{"Hello", true},
		{"", false},
		{"", false},
		{"", false},
		{"", false},
		{"", false},
		{"", false},
	}
	for _, in := range inputs {
		if _, err := s.RecordTemplateStep(in.value, in.premium); err != nil {
			t.Fatalf("unexpected error in %s: %v", s.State, err)
		}
		ev := EventTemplateInput
		if in.value == "" {
			ev = EventTemplateSkip
		}
		if err := s.Fire(ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if s.State != StateIdle {
		t.Fatalf("expected idle after links step, got %s", s.State)
	}
	res := s.FinalizeTemplate()
	if res.Document != "<b>Hello</b>" {
		t.Fatalf("unexpected document: %q", res.Document)
	}
	if !res.HasPremium {
		t.Fatal("expected premium flag to stick")
	}
}

func TestSession_RecordTemplateStepOutsideBuilder(t *testing.T) {
	s := New(1)
	if _, err := s.RecordTemplateStep("x", false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStore_GetCreatesAndClear(t *testing.T) {
	store := NewStore(10, time.Hour)
	s := store.Get(42)
	if s.UserID != 42 || s.State != StateIdle {
		t.Fatalf("unexpected new session: %+v", s)
	}
	s.State = StateSelectingRole
	if again := store.Get(42); again != s {
		t.Fatal("expected the same session instance")
	}
	store.Clear(42)
	if _, ok := store.Peek(42); ok {
		t.Fatal("expected session to be cleared")
	}
	if fresh := store.Get(42); fresh.State != StateIdle {
		t.Fatalf("expected fresh idle session, got %s", fresh.State)
	}
}

func TestStore_EvictsBeyondCapacity(t *testing.T) {
	store := NewStore(2, time.Hour)
	store.Get(1)
	store.Get(2)
	store.Get(3)
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
	if _, ok := store.Peek(1); ok {
		t.Fatal("expected least recently used session to be evicted")
	}
}

func TestStore_ExpiresIdleSessions(t *testing.T) {
	store := NewStore(10, 20*time.Millisecond)
	store.Get(1).State = StateConfirmation
	time.Sleep(60 * time.Millisecond)
	if s := store.Get(1); s.State != StateIdle {
		t.Fatalf("expected expired session to be replaced, got %s", s.State)
	}
}
