package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eslbridge/sign-translator/internal/llm"
	"github.com/eslbridge/sign-translator/internal/logger"
)

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) ToEnglish(context.Context, string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "how are you", want: English},
		{text: "كيف حالك", want: Arabic},
		{text: "مرحبا John", want: Arabic},
		{text: "123 ?!", want: English},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: Auto},
		{in: "English", want: English},
		{in: "ar-SA", want: Arabic},
		{in: "french", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLanguage(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestPrepare(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		lang      string
		tr        *stubTranslator
		want      string
		wantCalls int
		wantErr   bool
	}{
		{name: "english passthrough", text: "hello", lang: "english", tr: &stubTranslator{}, want: "hello"},
		{name: "auto english", text: "hello", lang: "auto", tr: &stubTranslator{}, want: "hello"},
		{name: "explicit arabic", text: "مرحبا", lang: "arabic", tr: &stubTranslator{out: "hello"}, want: "hello", wantCalls: 1},
		{name: "auto arabic", text: "مرحبا", lang: "", tr: &stubTranslator{out: "hello"}, want: "hello", wantCalls: 1},
		{name: "empty arabic skips translator", text: " ", lang: "arabic", tr: &stubTranslator{}, want: " "},
		{name: "translator failure", text: "مرحبا", lang: "arabic", tr: &stubTranslator{err: errors.New("down")}, wantCalls: 1, wantErr: true},
		{name: "bad language", text: "hi", lang: "klingon", tr: &stubTranslator{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Prepare(context.Background(), tt.tr, tt.text, tt.lang)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Prepare() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Prepare() = %q, want %q", got, tt.want)
			}
			if tt.tr.calls != tt.wantCalls {
				t.Errorf("translator calls = %d, want %d", tt.tr.calls, tt.wantCalls)
			}
		})
	}
}

func TestPrepareWithoutTranslator(t *testing.T) {
	if _, err := Prepare(context.Background(), nil, "مرحبا", "arabic"); err == nil {
		t.Error("Prepare() error = nil, want error")
	}
}

func TestOpenAIToEnglish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "  How are you?\n"}},
			},
		})
	}))
	defer srv.Close()

	tests := []struct {
		name string
		log  *logger.Logger
	}{
		{"with logger", logger.Nop()},
		{"nil logger", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewOpenAI(llm.NewClient(llm.ClientConfig{APIKey: "test", BaseURL: srv.URL}), "", tt.log)
			got, err := tr.ToEnglish(context.Background(), "كيف حالك")
			if err != nil {
				t.Fatalf("ToEnglish() error = %v", err)
			}
			if got != "How are you?" {
				t.Errorf("ToEnglish() = %q", got)
			}
		})
	}
}
