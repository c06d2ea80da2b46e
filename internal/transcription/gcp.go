package transcription

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

// GoogleSpeech uses synchronous Cloud Speech recognition, which suits the
// short utterances captured from a microphone.
type GoogleSpeech struct {
	client *speech.Client
}

// NewGoogleSpeech authenticates with Application Default Credentials.
func NewGoogleSpeech(ctx context.Context) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &GoogleSpeech{client: c}, nil
}

func (g *GoogleSpeech) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio Audio, locale string) (string, error) {
	resp, err := g.client.Recognize(ctx, recognizeRequest(audio, locale))
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	var parts []string
	for _, res := range resp.GetResults() {
		alts := res.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

func recognizeRequest(audio Audio, locale string) *speechpb.RecognizeRequest {
	if locale == "" {
		locale = "en-US"
	}
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   inferEncoding(audio.MimeType, audio.Filename),
			LanguageCode:               locale,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio.Data},
		},
	}
}

func inferEncoding(mimeType, filename string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case strings.Contains(m, "wav") || ext == ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac") || ext == ".flac":
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg") || ext == ".mp3":
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg") || ext == ".ogg" || ext == ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	case strings.Contains(m, "webm") || ext == ".webm":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
