package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/eslbridge/sign-translator/internal/embeddings"
	"github.com/eslbridge/sign-translator/internal/logger"
)

type BuildOptions struct {
	Extensions []string // accepted clip extensions, default ".mp4"
	BatchSize  int      // labels per embedding request, default 64
	Workers    int      // concurrent embedding requests, default 4
}

func (o BuildOptions) withDefaults() BuildOptions {
	if len(o.Extensions) == 0 {
		o.Extensions = []string{".mp4"}
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 64
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	return o
}

// Build scans dir for clip files and embeds one label per clip. A missing
// directory is logged and produces an empty catalog.
func Build(ctx context.Context, dir string, emb embeddings.Embedder, opts BuildOptions, log *logger.Logger) (*Catalog, error) {
	opts = opts.withDefaults()
	log = log.With("service", "catalog.Build", "dir", dir)

	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("clip directory not found, catalog will be empty")
			return New(emb.Model(), nil)
		}
		return nil, fmt.Errorf("read clip directory: %w", err)
	}

	entries := collectEntries(dir, files, opts.Extensions, log)
	if len(entries) == 0 {
		log.Warn("no clip files found")
		return New(emb.Model(), nil)
	}

	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	vectors, err := embedAll(ctx, emb, labels, opts)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Embedding = vectors[i]
	}

	log.Info("catalog built", "entries", len(entries), "model", emb.Model())
	return New(emb.Model(), entries)
}

// collectEntries walks directory listings in name order and keeps the first
// file for each label.
func collectEntries(dir string, files []os.DirEntry, exts []string, log *logger.Logger) []Entry {
	seen := make(map[string]string)
	var entries []Entry
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		ext := filepath.Ext(name)
		if !hasExtension(ext, exts) {
			continue
		}
		stem := strings.TrimSuffix(name, ext)
		label := LabelFromStem(stem)
		if label == "" {
			log.Warn("skipping clip with empty label", "file", name)
			continue
		}
		if prev, dup := seen[label]; dup {
			log.Warn("duplicate clip label, keeping first", "label", label, "kept", prev, "skipped", name)
			continue
		}
		seen[label] = name
		entries = append(entries, Entry{
			Label:     label,
			ClipID:    stem,
			AssetPath: filepath.Join(dir, name),
		})
	}
	return entries
}

func hasExtension(ext string, exts []string) bool {
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// embedAll embeds labels in fixed batches, running up to opts.Workers batches
// at once. Results are written by index so order never depends on scheduling.
func embedAll(ctx context.Context, emb embeddings.Embedder, labels []string, opts BuildOptions) ([][]float32, error) {
	out := make([][]float32, len(labels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for start := 0; start < len(labels); start += opts.BatchSize {
		start := start
		end := min(start+opts.BatchSize, len(labels))
		g.Go(func() error {
			vecs, err := emb.EmbedBatch(gctx, labels[start:end])
			if err != nil {
				return fmt.Errorf("embed labels %d-%d: %w", start, end-1, err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embed labels %d-%d: got %d vectors", start, end-1, len(vecs))
			}
			copy(out[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
