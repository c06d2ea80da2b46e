package transcription

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/eslbridge/sign-translator/internal/logger"
)

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(context.Context, Audio, string) (string, error) {
	return s.text, s.err
}

func TestTextOrEmpty(t *testing.T) {
	audio := Audio{Data: []byte("RIFF")}
	tests := []struct {
		name  string
		tr    Transcriber
		audio Audio
		want  string
	}{
		{name: "success", tr: stubTranscriber{text: " good morning "}, audio: audio, want: "good morning"},
		{name: "failure is empty", tr: stubTranscriber{err: errors.New("unintelligible")}, audio: audio, want: ""},
		{name: "no audio", tr: stubTranscriber{text: "ignored"}, audio: Audio{}, want: ""},
		{name: "no transcriber", tr: nil, audio: audio, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextOrEmpty(context.Background(), tt.tr, tt.audio, "ar-SA", logger.Nop()); got != tt.want {
				t.Errorf("TextOrEmpty() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLemonfoxLanguage(t *testing.T) {
	tests := map[string]string{
		"ar-SA": "arabic",
		"ar_AE": "arabic",
		"en-US": "english",
		"":      "english",
		"fr-FR": "fr",
	}
	for in, want := range tests {
		if got := lemonfoxLanguage(in); got != want {
			t.Errorf("lemonfoxLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLemonfoxTranscribe(t *testing.T) {
	var gotLanguage, gotFormat, gotAuth, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotLanguage = r.FormValue("language")
		gotFormat = r.FormValue("response_format")
		gotAuth = r.Header.Get("Authorization")
		f, _, err := r.FormFile("file")
		if err == nil {
			b, _ := io.ReadAll(f)
			gotFile = string(b)
		}
		w.Write([]byte("WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHow are you\n\n00:00:01.000 --> 00:00:02.000\nfriend\n"))
	}))
	defer srv.Close()

	l := NewLemonfox("secret").WithEndpoint(srv.URL)
	text, err := l.Transcribe(context.Background(), Audio{Data: []byte("audio-bytes"), Filename: "mic.wav"}, "ar-SA")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "How are you friend" {
		t.Errorf("Transcribe() = %q", text)
	}
	if gotLanguage != "arabic" || gotFormat != "vtt" || gotAuth != "Bearer secret" || gotFile != "audio-bytes" {
		t.Errorf("request fields = %q %q %q %q", gotLanguage, gotFormat, gotAuth, gotFile)
	}
}

func TestLemonfoxTranscribeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewLemonfox("k").WithEndpoint(srv.URL).Transcribe(context.Background(), Audio{Data: []byte("x")}, "en-US")
	if err == nil {
		t.Fatal("Transcribe() error = nil, want status error")
	}
}

func TestRecognizeRequest(t *testing.T) {
	req := recognizeRequest(Audio{Data: []byte("pcm"), Filename: "clip.flac"}, "ar-SA")
	if req.GetConfig().GetLanguageCode() != "ar-SA" {
		t.Errorf("LanguageCode = %q", req.GetConfig().GetLanguageCode())
	}
	if req.GetConfig().GetEncoding() != speechpb.RecognitionConfig_FLAC {
		t.Errorf("Encoding = %v", req.GetConfig().GetEncoding())
	}
	if string(req.GetAudio().GetContent()) != "pcm" {
		t.Errorf("Content = %q", req.GetAudio().GetContent())
	}
	if got := recognizeRequest(Audio{}, "").GetConfig().GetLanguageCode(); got != "en-US" {
		t.Errorf("default LanguageCode = %q", got)
	}
}

func TestInferEncoding(t *testing.T) {
	tests := []struct {
		mime, file string
		want       speechpb.RecognitionConfig_AudioEncoding
	}{
		{mime: "audio/wav", want: speechpb.RecognitionConfig_LINEAR16},
		{file: "a.mp3", want: speechpb.RecognitionConfig_MP3},
		{mime: "audio/webm;codecs=opus", want: speechpb.RecognitionConfig_WEBM_OPUS},
		{mime: "audio/ogg", want: speechpb.RecognitionConfig_OGG_OPUS},
		{mime: "application/octet-stream", file: "blob", want: speechpb.RecognitionConfig_ENCODING_UNSPECIFIED},
	}
	for _, tt := range tests {
		if got := inferEncoding(tt.mime, tt.file); got != tt.want {
			t.Errorf("inferEncoding(%q, %q) = %v, want %v", tt.mime, tt.file, got, tt.want)
		}
	}
}
