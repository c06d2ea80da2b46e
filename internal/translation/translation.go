// Package translation turns Arabic input into English before sign resolution.
package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sashabaranov/go-openai"

	"github.com/eslbridge/sign-translator/internal/logger"
)

const (
	English = "english"
	Arabic  = "arabic"
	Auto    = "auto"
)

type Translator interface {
	ToEnglish(ctx context.Context, text string) (string, error)
}

// ParseLanguage accepts the language names and codes clients send.
func ParseLanguage(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", Auto:
		return Auto, nil
	case English, "en", "en-us", "en-gb":
		return English, nil
	case Arabic, "ar", "ar-sa", "ar-ae":
		return Arabic, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}

// DetectLanguage reports Arabic when Arabic-script letters outnumber the rest.
func DetectLanguage(text string) string {
	var arabic, other int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		} else {
			other++
		}
	}
	if arabic > other {
		return Arabic
	}
	return English
}

// Prepare returns English text for the resolver, translating when the input
// language (explicit or detected) is Arabic.
func Prepare(ctx context.Context, tr Translator, text, language string) (string, error) {
	lang, err := ParseLanguage(language)
	if err != nil {
		return "", err
	}
	if lang == Auto {
		lang = DetectLanguage(text)
	}
	if lang == English || strings.TrimSpace(text) == "" {
		return text, nil
	}
	if tr == nil {
		return "", errors.New("no translator configured for Arabic input")
	}
	return tr.ToEnglish(ctx, text)
}

type OpenAI struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

func NewOpenAI(client *openai.Client, model string, log *logger.Logger) *OpenAI {
	if model == "" {
		model = openai.GPT4
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OpenAI{client: client, model: model, log: log.With("service", "translation.OpenAI")}
}

func (t *OpenAI) ToEnglish(ctx context.Context, text string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Translate the user's Arabic text into plain English. Reply with the translation only.",
			},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translate to English: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("translate to English: no choices returned")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	t.log.Debug("translated input", "source", text, "english", out)
	return out, nil
}
