package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const artifactVersion = 1

// ErrMalformedArtifact wraps every decoding or validation failure in Load.
var ErrMalformedArtifact = errors.New("malformed catalog artifact")

type artifact struct {
	Version   int             `json:"version"`
	Model     string          `json:"model"`
	Dimension int             `json:"dimension"`
	Entries   []artifactEntry `json:"entries"`
}

type artifactEntry struct {
	Label     string    `json:"label"`
	ClipID    string    `json:"clip_id"`
	AssetPath string    `json:"asset_path"`
	Embedding []float32 `json:"embedding"`
}

// WriteArtifact encodes the catalog. float32 values are written in their
// shortest round-tripping form, so ReadArtifact recovers identical bits.
func WriteArtifact(w io.Writer, c *Catalog) error {
	a := artifact{
		Version:   artifactVersion,
		Model:     c.Model(),
		Dimension: c.Dimension(),
		Entries:   make([]artifactEntry, 0, c.Len()),
	}
	for _, e := range c.Entries() {
		a.Entries = append(a.Entries, artifactEntry{
			Label:     e.Label,
			ClipID:    e.ClipID,
			AssetPath: e.AssetPath,
			Embedding: e.Embedding,
		})
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode catalog artifact: %w", err)
	}
	return nil
}

func ReadArtifact(r io.Reader) (*Catalog, error) {
	var a artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedArtifact, a.Version)
	}

	entries := make([]Entry, 0, len(a.Entries))
	for _, e := range a.Entries {
		if a.Dimension != 0 && len(e.Embedding) != a.Dimension {
			return nil, fmt.Errorf("%w: entry %q has dimension %d, header says %d",
				ErrMalformedArtifact, e.Label, len(e.Embedding), a.Dimension)
		}
		entries = append(entries, Entry{
			Label:     e.Label,
			ClipID:    e.ClipID,
			AssetPath: e.AssetPath,
			Embedding: e.Embedding,
		})
	}
	c, err := New(a.Model, entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	return c, nil
}

// Save writes the artifact atomically next to path.
func Save(path string, c *Catalog) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteArtifact(tmp, c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// Load reads the artifact at path. Callers treat any error as fatal.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog artifact: %w", err)
	}
	defer f.Close()
	return ReadArtifact(f)
}
