package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/eslbridge/sign-translator/internal/embeddings"
)

// Match is the best catalog entry for a query word.
type Match struct {
	Label  string
	ClipID string
	Score  float64
}

// Nearest embeds word and linearly scans the catalog for the entry with the
// highest cosine similarity. Ties keep the entry seen first. An empty word or
// an empty catalog yields (Match{}, false, nil) without calling the embedder.
func Nearest(ctx context.Context, emb embeddings.Embedder, c *Catalog, word string) (Match, bool, error) {
	if strings.TrimSpace(word) == "" || c.Len() == 0 {
		return Match{}, false, nil
	}

	query, err := emb.Embed(ctx, word)
	if err != nil {
		return Match{}, false, fmt.Errorf("embed %q: %w", word, err)
	}
	best, found := scan(c, query)
	return best, found, nil
}

func scan(c *Catalog, query []float32) (Match, bool) {
	var best Match
	found := false
	for _, e := range c.entries {
		score := CosineSimilarity(query, e.Embedding)
		if !found || score > best.Score {
			best = Match{Label: e.Label, ClipID: e.ClipID, Score: score}
			found = true
		}
	}
	return best, found
}

// CosineSimilarity returns 0 when the vectors differ in length or either has
// zero norm.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Index binds a catalog to the embedder that produced it.
type Index struct {
	Catalog  *Catalog
	Embedder embeddings.Embedder
}

func (ix Index) Nearest(ctx context.Context, word string) (Match, bool, error) {
	return Nearest(ctx, ix.Embedder, ix.Catalog, word)
}
