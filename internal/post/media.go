package post

import "errors"

// MaxMedia is the most items a single post can carry.
const MaxMedia = 10

type MediaKind string

const (
	KindPhoto     MediaKind = "photo"
	KindVideo     MediaKind = "video"
	KindAudio     MediaKind = "audio"
	KindAnimation MediaKind = "animation"
)

// Mode is the kind of files a session is collecting.
type Mode string

const (
	ModeNone  Mode = ""
	ModeMedia Mode = "media"
	ModeAudio Mode = "audio"
)

var (
	ErrMediaLimit       = errors.New("media limit reached")
	ErrAudioOnly        = errors.New("only audio is accepted in audio mode")
	ErrVisualOnly       = errors.New("only photos and videos are accepted in media mode")
	ErrUnsupportedMedia = errors.New("unsupported media kind")
	ErrNoMode           = errors.New("no media mode selected")
)

// Media is a file already uploaded to the platform, referenced by its id.
type Media struct {
	ID   string
	Kind MediaKind
}

// MediaList is an ordered list that never holds more than MaxMedia items.
type MediaList struct {
	items []Media
}

func (l *MediaList) Len() int {
	return len(l.items)
}

func (l *MediaList) Full() bool {
	return len(l.items) >= MaxMedia
}

// Append adds m at the end. A full list is left untouched.
func (l *MediaList) Append(m Media) error {
	if l.Full() {
		return ErrMediaLimit
	}
	l.items = append(l.items, m)
	return nil
}

// Items returns a copy of the list.
func (l *MediaList) Items() []Media {
	out := make([]Media, len(l.items))
	copy(out, l.items)
	return out
}

func (l *MediaList) Reset() {
	l.items = nil
}
