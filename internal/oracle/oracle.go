// Package oracle asks a chat model whether two words are interchangeable.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/eslbridge/sign-translator/internal/logger"
)

const promptTemplate = "Are the words '%s' and '%s' semantically similar or interchangeable in context? " +
	"Respond with 'yes' if they are similar or interchangeable, and 'no' if they are not."

// Func adapts a plain function, mostly for tests and canned answers.
type Func func(ctx context.Context, word, label string) bool

func (f Func) ConfirmEquivalence(ctx context.Context, word, label string) bool {
	return f(ctx, word, label)
}

// Static answers every question the same way.
func Static(answer bool) Func {
	return func(context.Context, string, string) bool { return answer }
}

type Config struct {
	Model       string
	Temperature float32
}

// OpenAI is the chat-completion backed oracle.
type OpenAI struct {
	client *openai.Client
	cfg    Config
	log    *logger.Logger
}

func NewOpenAI(client *openai.Client, cfg Config, log *logger.Logger) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OpenAI{client: client, cfg: cfg, log: log.With("service", "oracle.OpenAI")}
}

// ConfirmEquivalence never fails: transport and parsing errors are logged and
// read as "not equivalent".
func (o *OpenAI) ConfirmEquivalence(ctx context.Context, word, label string) bool {
	ok, err := o.Ask(ctx, word, label)
	if err != nil {
		o.log.Error("semantic similarity check failed", "word", word, "label", label, "error", err)
		return false
	}
	o.log.Debug("semantic similarity verdict", "word", word, "label", label, "equivalent", ok)
	return ok
}

// Ask performs one chat call and reports failures to the caller.
func (o *OpenAI) Ask(ctx context.Context, word, label string) (bool, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(promptTemplate, word, label)},
		},
		Temperature: requestTemperature(o.cfg.Temperature),
	})
	if err != nil {
		return false, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return false, errors.New("chat completion returned no choices")
	}
	return IsAffirmative(resp.Choices[0].Message.Content), nil
}

// requestTemperature keeps a configured zero from being dropped: the client
// omits a zero temperature and the API then applies its default of 1.
func requestTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// IsAffirmative accepts exactly "yes", ignoring case and surrounding space.
func IsAffirmative(reply string) bool {
	return strings.EqualFold(strings.TrimSpace(reply), "yes")
}
