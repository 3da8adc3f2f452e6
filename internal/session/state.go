package session

import (
	"errors"
	"fmt"

	"github.com/foxseedlab/chanpost/internal/template"
)

type State string

const (
	StateIdle             State = "idle"
	StateSelectingRole    State = "selecting_role"
	StateSelectingChannel State = "selecting_channel"
	StateChoosingAction   State = "choosing_action"
	StateWaitingForText   State = "waiting_for_text"
	StateWaitingForMedia  State = "waiting_for_media"
	StateConfirmation     State = "confirmation"

	StateWaitingForTitle      State = "waiting_for_title"
	StateWaitingForSubtitle   State = "waiting_for_subtitle"
	StateWaitingForBody       State = "waiting_for_body"
	StateWaitingForNote       State = "waiting_for_note"
	StateWaitingForConclusion State = "waiting_for_conclusion"
	StateWaitingForHashtags   State = "waiting_for_hashtags"
	StateWaitingForLinks      State = "waiting_for_links"
)

type Event string

const (
	EventOpenContent      Event = "open_content"
	EventRoleChosen       Event = "role_chosen"
	EventNoChannels       Event = "no_channels"
	EventChannelConfirmed Event = "channel_confirmed"
	EventChannelRejected  Event = "channel_rejected"
	EventBackToRoles      Event = "back_to_roles"
	EventRefreshAdmins    Event = "refresh_admins"
	EventTextAction       Event = "text_action"
	EventMediaAction      Event = "media_action"
	EventTextReceived     Event = "text_received"
	EventMediaReceived    Event = "media_received"
	EventPublish          Event = "publish"
	EventReset            Event = "reset"

	EventOpenTemplates  Event = "open_templates"
	EventTemplateStart  Event = "template_start"
	EventTemplateInput  Event = "template_input"
	EventTemplateSkip   Event = "template_skip"
	EventTemplateCancel Event = "template_cancel"
)

var ErrInvalidTransition = errors.New("invalid session transition")

// templateStates lists the builder states in step order.
var templateStates = [template.StepCount]State{
	template.StepTitle:      StateWaitingForTitle,
	template.StepSubtitle:   StateWaitingForSubtitle,
	template.StepBody:       StateWaitingForBody,
	template.StepNote:       StateWaitingForNote,
	template.StepConclusion: StateWaitingForConclusion,
	template.StepHashtags:   StateWaitingForHashtags,
	template.StepLinks:      StateWaitingForLinks,
}

// Events accepted in every state.
var globalTransitions = map[Event]State{
	EventReset:         StateIdle,
	EventOpenContent:   StateSelectingRole,
	EventOpenTemplates: StateIdle,
}

var transitions = buildTransitions()

func buildTransitions() map[State]map[Event]State {
	t := map[State]map[Event]State{
		StateIdle: {
			EventTemplateStart: StateWaitingForTitle,
		},
		StateSelectingRole: {
			EventRoleChosen:  StateSelectingChannel,
			EventNoChannels:  StateSelectingRole,
			EventBackToRoles: StateSelectingRole,
		},
		StateSelectingChannel: {
			EventChannelConfirmed: StateChoosingAction,
			EventChannelRejected:  StateSelectingRole,
			EventBackToRoles:      StateSelectingRole,
		},
		StateChoosingAction: {
			EventTextAction:    StateWaitingForText,
			EventMediaAction:   StateWaitingForMedia,
			EventRefreshAdmins: StateChoosingAction,
			EventBackToRoles:   StateSelectingRole,
		},
		StateWaitingForText: {
			EventTextReceived: StateConfirmation,
		},
		StateConfirmation: {
			EventMediaAction: StateWaitingForMedia,
			EventPublish:     StateIdle,
		},
		StateWaitingForMedia: {
			EventMediaReceived: StateWaitingForMedia,
			EventPublish:       StateIdle,
		},
	}
	for i, st := range templateStates {
		next := StateIdle
		if i+1 < len(templateStates) {
			next = templateStates[i+1]
		}
		t[st] = map[Event]State{
			EventTemplateInput:  next,
			EventTemplateSkip:   next,
			EventTemplateCancel: StateIdle,
		}
	}
	return t
}

// Next returns the state reached from `from` on ev.
func Next(from State, ev Event) (State, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	if to, ok := globalTransitions[ev]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
}

// Allowed reports whether ev is valid in state from.
func Allowed(from State, ev Event) bool {
	_, err := Next(from, ev)
	return err == nil
}

// TemplateStep returns the builder step a template state collects.
func TemplateStep(s State) (template.Step, bool) {
	for i, st := range templateStates {
		if st == s {
			return template.Step(i), true
		}
	}
	return 0, false
}

// IsTemplate reports whether s belongs to the template builder.
func (s State) IsTemplate() bool {
	_, ok := TemplateStep(s)
	return ok
}

// States returns every state that has outgoing transitions of its own.
func States() []State {
	states := make([]State, 0, len(transitions))
	for st := range transitions {
		states = append(states, st)
	}
	return states
}
