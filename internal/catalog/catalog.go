// Package catalog holds the clip catalog: one embedding per recorded sign clip,
// built offline from the clip directory and searched by cosine similarity.
package catalog

import (
	"fmt"
	"strings"
)

type Entry struct {
	Label     string
	ClipID    string
	AssetPath string
	Embedding []float32
}

// Catalog is an immutable, ordered set of entries with unique labels.
// The zero value is an empty catalog.
type Catalog struct {
	entries []Entry
	byLabel map[string]int
	byClip  map[string]int
	model   string
}

// New copies entries into a catalog. Labels must be non-empty and unique and
// every embedding must have the same dimension.
func New(model string, entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byLabel: make(map[string]int, len(entries)),
		byClip:  make(map[string]int, len(entries)),
		model:   model,
	}
	dim := -1
	for i, e := range entries {
		if strings.TrimSpace(e.Label) == "" {
			return nil, fmt.Errorf("entry %d: empty label", i)
		}
		if e.ClipID == "" {
			return nil, fmt.Errorf("entry %q: empty clip id", e.Label)
		}
		if _, dup := c.byLabel[e.Label]; dup {
			return nil, fmt.Errorf("entry %q: duplicate label", e.Label)
		}
		if len(e.Embedding) == 0 {
			return nil, fmt.Errorf("entry %q: empty embedding", e.Label)
		}
		if dim == -1 {
			dim = len(e.Embedding)
		} else if len(e.Embedding) != dim {
			return nil, fmt.Errorf("entry %q: embedding dimension %d, want %d", e.Label, len(e.Embedding), dim)
		}

		vec := make([]float32, len(e.Embedding))
		copy(vec, e.Embedding)
		e.Embedding = vec
		c.byLabel[e.Label] = len(c.entries)
		if _, seen := c.byClip[e.ClipID]; !seen {
			c.byClip[e.ClipID] = len(c.entries)
		}
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func (c *Catalog) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// Dimension is the embedding width, 0 for an empty catalog.
func (c *Catalog) Dimension() int {
	if c.Len() == 0 {
		return 0
	}
	return len(c.entries[0].Embedding)
}

// Entries returns a copy of the entries in catalog order. The embedding
// slices are shared and must not be modified.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Lookup(label string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.byLabel[label]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// ClipAsset returns the recorded asset path for a clip id.
func (c *Catalog) ClipAsset(clipID string) (string, bool) {
	if c == nil {
		return "", false
	}
	i, ok := c.byClip[clipID]
	if !ok || c.entries[i].AssetPath == "" {
		return "", false
	}
	return c.entries[i].AssetPath, true
}

// Labels lists the canonical labels in catalog order.
func (c *Catalog) Labels() []string {
	out := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		out = append(out, c.entries[i].Label)
	}
	return out
}

// LabelFromStem derives the canonical label for a clip file stem:
// lowercase, '_' and '-' read as spaces, whitespace collapsed.
func LabelFromStem(stem string) string {
	s := strings.ToLower(stem)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
