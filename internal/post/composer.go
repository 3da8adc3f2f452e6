package post

import "strings"

// Attachment is a file received from the user.
type Attachment struct {
	FileID string
	Kind   MediaKind
}

// Accept validates a against the active mode and appends it to list.
// Animations are stored as videos.
func Accept(mode Mode, list *MediaList, a Attachment) (Media, error) {
	if list.Full() {
		return Media{}, ErrMediaLimit
	}
	kind, err := kindForMode(mode, a.Kind)
	if err != nil {
		return Media{}, err
	}
	m := Media{ID: a.FileID, Kind: kind}
	if err := list.Append(m); err != nil {
		return Media{}, err
	}
	return m, nil
}

func kindForMode(mode Mode, kind MediaKind) (MediaKind, error) {
	switch mode {
	case ModeAudio:
		if kind != KindAudio {
			return "", ErrAudioOnly
		}
		return KindAudio, nil
	case ModeMedia:
		switch kind {
		case KindPhoto, KindVideo:
			return kind, nil
		case KindAnimation:
			return KindVideo, nil
		case KindAudio:
			return "", ErrVisualOnly
		default:
			return "", ErrUnsupportedMedia
		}
	default:
		return "", ErrNoMode
	}
}

// ClassifyText decides whether a post body is markup. text is what the user
// typed, htmlText the transport's HTML rendering of the same message.
func ClassifyText(text, htmlText string) (body string, isHTML bool) {
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		return text, true
	}
	if htmlText != "" && htmlText != text {
		return htmlText, true
	}
	return text, false
}
