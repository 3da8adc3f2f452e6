package telegram

import "errors"

type ErrorKind int

const (
	ErrorKindOther ErrorKind = iota
	// ErrorKindChatGone: the chat does not exist or the bot has no access.
	ErrorKindChatGone
	// ErrorKindMarkupRejected: the HTML or an inline entity (custom emoji)
	// could not be rendered.
	ErrorKindMarkupRejected
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindChatGone:
		return "chat_gone"
	case ErrorKindMarkupRejected:
		return "markup_rejected"
	default:
		return "other"
	}
}

// Error is a classified Bot API failure.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) ErrorKind {
	var tgErr *Error
	if errors.As(err, &tgErr) {
		return tgErr.Kind
	}
	return ErrorKindOther
}

func IsChatGone(err error) bool {
	return KindOf(err) == ErrorKindChatGone
}

func IsMarkupRejected(err error) bool {
	return KindOf(err) == ErrorKindMarkupRejected
}
