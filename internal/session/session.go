package session

import (
	"github.com/foxseedlab/chanpost/internal/post"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/template"
)

// Session is the in-progress composition of one user.
type Session struct {
	UserID int64
	State  State

	Role            repository.Role
	SelectedChannel string
	PostText        string
	IsHTML          bool
	Mode            post.Mode
	Media           post.MediaList

	Template template.Fields
	Premium  template.PremiumTracker
}

func New(userID int64) *Session {
	return &Session{UserID: userID, State: StateIdle}
}

// Fire moves the session along the transition table.
func (s *Session) Fire(ev Event) error {
	next, err := Next(s.State, ev)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}

// Reset drops all composition data and returns to idle.
func (s *Session) Reset() {
	*s = Session{UserID: s.UserID, State: StateIdle}
}

// SelectChannel starts a fresh post for channelID.
func (s *Session) SelectChannel(channelID string) {
	s.SelectedChannel = channelID
	s.PostText = ""
	s.IsHTML = false
	s.Mode = post.ModeNone
	s.Media.Reset()
}

func (s *Session) SetText(body string, isHTML bool) {
	s.PostText = body
	s.IsHTML = isHTML
}

// StartMedia switches the collection mode. Files already collected in another
// mode are dropped so a post never mixes audio with photos or videos.
func (s *Session) StartMedia(mode post.Mode) {
	if s.Mode != mode {
		s.Media.Reset()
	}
	s.Mode = mode
}

func (s *Session) AddMedia(a post.Attachment) (post.Media, error) {
	return post.Accept(s.Mode, &s.Media, a)
}

// CanPublish reports whether a channel is still attached to the session.
func (s *Session) CanPublish() bool {
	return s.SelectedChannel != ""
}

// RecordTemplateStep stores value for the current builder step (an empty
// value means skipped) and remembers premium emoji usage.
func (s *Session) RecordTemplateStep(value string, hasPremium bool) (template.Step, error) {
	step, ok := TemplateStep(s.State)
	if !ok {
		return 0, ErrInvalidTransition
	}
	s.Template.Set(step, value)
	s.Premium.Observe(hasPremium)
	return step, nil
}

// FinalizeTemplate assembles the builder fields.
func (s *Session) FinalizeTemplate() template.Result {
	return template.Finalize(s.Template, s.Premium.Seen())
}
