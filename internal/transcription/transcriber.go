// Package transcription converts recorded speech into text for resolution.
package transcription

import (
	"context"
	"strings"

	"github.com/eslbridge/sign-translator/internal/logger"
)

// Audio is one recorded utterance.
type Audio struct {
	Data     []byte
	Filename string
	MimeType string
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio, locale string) (string, error)
}

// TextOrEmpty runs t and turns every failure into empty text, which callers
// treat like an empty sentence.
func TextOrEmpty(ctx context.Context, t Transcriber, audio Audio, locale string, log *logger.Logger) string {
	if t == nil || len(audio.Data) == 0 {
		return ""
	}
	text, err := t.Transcribe(ctx, audio, locale)
	if err != nil {
		log.Warn("speech transcription failed, no text produced", "locale", locale, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// lemonfoxLanguage maps a BCP-47 locale such as "ar-SA" to the language name
// the Lemonfox API expects.
func lemonfoxLanguage(locale string) string {
	base := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	switch base {
	case "ar":
		return "arabic"
	case "en", "":
		return "english"
	default:
		return base
	}
}
