// Package resolver turns a sentence into an ordered list of sign clip ids:
// phrase overrides first, then one nearest-neighbour lookup per remaining word
// with a three-band accept / escalate / reject decision.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eslbridge/sign-translator/internal/catalog"
	"github.com/eslbridge/sign-translator/internal/logger"
)

// Index finds the best catalog entry for one word.
type Index interface {
	Nearest(ctx context.Context, word string) (catalog.Match, bool, error)
}

// Oracle judges whether a word and a catalog label are interchangeable.
// Implementations absorb their own failures and answer false.
type Oracle interface {
	ConfirmEquivalence(ctx context.Context, word, label string) bool
}

type rejectAll struct{}

func (rejectAll) ConfirmEquivalence(context.Context, string, string) bool { return false }

// Step records how one phrase or token was handled.
type Step struct {
	Token    string
	Phrase   bool
	Match    catalog.Match
	Found    bool
	Outcome  Outcome
	Accepted bool
	Err      error
}

type Resolver struct {
	index   Index
	oracle  Oracle
	phrases PhraseTable
	bands   Bands
	log     *logger.Logger
}

// New validates the bands. A nil oracle rejects every escalation.
func New(index Index, oracle Oracle, phrases PhraseTable, bands Bands, log *logger.Logger) (*Resolver, error) {
	if index == nil {
		return nil, errors.New("resolver: index is required")
	}
	if err := bands.Validate(); err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	if oracle == nil {
		oracle = rejectAll{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		index:   index,
		oracle:  oracle,
		phrases: normalizePhrases(phrases),
		bands:   bands,
		log:     log.With("service", "resolver"),
	}, nil
}

func (r *Resolver) Bands() Bands { return r.bands }

// normalizePhrases applies the sentence normalization to every phrase so
// tables built in code match the same way as loaded ones. Phrases that
// normalize to nothing are dropped.
func normalizePhrases(phrases PhraseTable) PhraseTable {
	out := make(PhraseTable, 0, len(phrases))
	for _, p := range phrases {
		p.Text = strings.Join(strings.Fields(Normalize(p.Text)), " ")
		if p.Text == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Resolve returns the clip ids for sentence. The result is never nil; an empty
// slice means nothing in the sentence could be signed.
func (r *Resolver) Resolve(ctx context.Context, sentence string) ([]string, error) {
	ids, _, err := r.ResolveTrace(ctx, sentence)
	return ids, err
}

// ResolveTrace is Resolve plus a record of every decision. Only context
// cancellation is returned as an error; per-token failures drop the token.
func (r *Resolver) ResolveTrace(ctx context.Context, sentence string) ([]string, []Step, error) {
	ids := []string{}
	var steps []Step

	remaining := Normalize(sentence)

	for _, p := range r.phrases {
		if p.Text == "" || !strings.Contains(remaining, p.Text) {
			continue
		}
		ids = append(ids, p.ClipID)
		remaining = strings.Replace(remaining, p.Text, "", 1)
		steps = append(steps, Step{
			Token:    p.Text,
			Phrase:   true,
			Match:    catalog.Match{Label: p.Text, ClipID: p.ClipID, Score: 1},
			Found:    true,
			Outcome:  Accept,
			Accepted: true,
		})
		r.log.Debug("matched phrase", "phrase", p.Text, "clip", p.ClipID)
	}

	for _, token := range strings.Fields(remaining) {
		if err := ctx.Err(); err != nil {
			return nil, steps, err
		}
		step := r.resolveToken(ctx, token)
		if step.Err != nil && ctx.Err() != nil {
			return nil, steps, ctx.Err()
		}
		steps = append(steps, step)
		if step.Accepted {
			ids = append(ids, step.Match.ClipID)
		}
	}
	return ids, steps, nil
}

func (r *Resolver) resolveToken(ctx context.Context, token string) Step {
	step := Step{Token: token, Outcome: Reject}

	match, found, err := r.index.Nearest(ctx, token)
	if err != nil {
		r.log.Error("nearest clip lookup failed, dropping word", "word", token, "error", err)
		step.Err = err
		return step
	}
	if !found {
		r.log.Debug("no catalog entries, dropping word", "word", token)
		return step
	}
	step.Match, step.Found = match, true
	step.Outcome = r.bands.Decide(match.Score)

	switch step.Outcome {
	case Accept:
		step.Accepted = true
	case Escalate:
		step.Accepted = r.oracle.ConfirmEquivalence(ctx, token, match.Label)
	}

	if step.Accepted {
		r.log.Debug("matched word", "word", token, "label", match.Label, "clip", match.ClipID,
			"similarity", match.Score, "outcome", step.Outcome.String())
	} else {
		r.log.Debug("no suitable clip for word", "word", token, "label", match.Label,
			"similarity", match.Score, "outcome", step.Outcome.String())
	}
	return step
}
