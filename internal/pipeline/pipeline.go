// Package pipeline runs one translation request end to end: language
// pre-pass, sign resolution, video assembly.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/eslbridge/sign-translator/internal/logger"
	"github.com/eslbridge/sign-translator/internal/resolver"
	"github.com/eslbridge/sign-translator/internal/transcription"
	"github.com/eslbridge/sign-translator/internal/translation"
	"github.com/eslbridge/sign-translator/internal/video"
)

// ErrNoSignContent means nothing in the input mapped to a playable sign.
var ErrNoSignContent = errors.New("could not translate")

type Resolver interface {
	ResolveTrace(ctx context.Context, sentence string) ([]string, []resolver.Step, error)
}

type Assembler interface {
	Assemble(ctx context.Context, clipIDs []string) (video.Result, error)
}

type Request struct {
	Text     string
	Language string
}

type Result struct {
	Text    string
	English string
	Clips   []string
	Missing []string
	Video   string
	Path    string
	Trace   []resolver.Step
}

type Config struct {
	Translator  translation.Translator
	Resolver    Resolver
	Assembler   Assembler
	Transcriber transcription.Transcriber
	Locale      string
}

type Pipeline struct {
	translator  translation.Translator
	resolver    Resolver
	assembler   Assembler
	transcriber transcription.Transcriber
	locale      string
	log         *logger.Logger
}

func New(cfg Config, log *logger.Logger) (*Pipeline, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("pipeline requires a resolver")
	}
	if cfg.Locale == "" {
		cfg.Locale = "ar-SA"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		translator:  cfg.Translator,
		resolver:    cfg.Resolver,
		assembler:   cfg.Assembler,
		transcriber: cfg.Transcriber,
		locale:      cfg.Locale,
		log:         log.With("service", "pipeline.Pipeline"),
	}, nil
}

// Translate maps text to a clip sequence and, when an assembler is
// configured, to one concatenated video. An empty resolution is reported as
// ErrNoSignContent alongside the partial result.
func (p *Pipeline) Translate(ctx context.Context, req Request) (Result, error) {
	res := Result{Text: req.Text}

	english, err := translation.Prepare(ctx, p.translator, req.Text, req.Language)
	if err != nil {
		return res, fmt.Errorf("prepare input: %w", err)
	}
	res.English = english

	clips, trace, err := p.resolver.ResolveTrace(ctx, english)
	if err != nil {
		return res, fmt.Errorf("resolve signs: %w", err)
	}
	res.Clips = clips
	res.Trace = trace

	if len(clips) == 0 {
		p.log.Info("no sign content for input", "text", req.Text, "english", english)
		return res, ErrNoSignContent
	}
	if p.assembler == nil {
		return res, nil
	}

	out, err := p.assembler.Assemble(ctx, clips)
	res.Missing = out.Missing
	if errors.Is(err, video.ErrNoClips) {
		return res, fmt.Errorf("%w: %w", ErrNoSignContent, err)
	}
	if err != nil {
		return res, fmt.Errorf("assemble video: %w", err)
	}
	res.Video = out.Name
	res.Path = out.Path

	p.log.Info("translated to sign video", "clips", len(clips), "missing", len(out.Missing), "video", out.Name)
	return res, nil
}

// TranslateSpeech transcribes audio and translates the transcript. A failed
// transcription yields empty text and therefore ErrNoSignContent.
func (p *Pipeline) TranslateSpeech(ctx context.Context, audio transcription.Audio, locale, language string) (Result, error) {
	if locale == "" {
		locale = p.locale
	}
	text := transcription.TextOrEmpty(ctx, p.transcriber, audio, locale, p.log)
	return p.Translate(ctx, Request{Text: text, Language: language})
}
