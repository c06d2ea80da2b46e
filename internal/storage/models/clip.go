package models

import (
	"time"

	"github.com/eslbridge/sign-translator/internal/catalog"
)

// Clip is one persisted catalog row.
type Clip struct {
	Position  int
	Label     string
	ClipID    string
	AssetPath string
	Model     string
	Embedding []float32
	UpdatedAt time.Time
}

func ClipsFromCatalog(c *catalog.Catalog) []Clip {
	entries := c.Entries()
	clips := make([]Clip, len(entries))
	for i, e := range entries {
		clips[i] = Clip{
			Position:  i,
			Label:     e.Label,
			ClipID:    e.ClipID,
			AssetPath: e.AssetPath,
			Model:     c.Model(),
			Embedding: e.Embedding,
		}
	}
	return clips
}

func (c Clip) Entry() catalog.Entry {
	return catalog.Entry{
		Label:     c.Label,
		ClipID:    c.ClipID,
		AssetPath: c.AssetPath,
		Embedding: c.Embedding,
	}
}
