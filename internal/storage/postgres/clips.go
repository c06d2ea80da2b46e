package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/eslbridge/sign-translator/internal/catalog"
	"github.com/eslbridge/sign-translator/internal/storage/models"
)

const clipSchema = `
	CREATE EXTENSION IF NOT EXISTS vector;
	CREATE TABLE IF NOT EXISTS esl_clip (
		label        TEXT PRIMARY KEY,
		position     INTEGER NOT NULL,
		clip_id      TEXT NOT NULL,
		asset_path   TEXT NOT NULL DEFAULT '',
		model        TEXT NOT NULL DEFAULT '',
		embedding    vector NOT NULL,
		"updatedAt"  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS esl_clip_position_idx ON esl_clip (position);
`

// ClipRepository stores the clip catalog in a pgvector table.
type ClipRepository struct {
	db *sql.DB
}

func NewClipRepository(db *sql.DB) *ClipRepository {
	return &ClipRepository{db: db}
}

func (r *ClipRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, clipSchema); err != nil {
		return fmt.Errorf("create clip schema: %w", err)
	}
	return nil
}

// ReplaceAll makes the table hold exactly the given catalog, in order.
func (r *ClipRepository) ReplaceAll(ctx context.Context, c *catalog.Catalog) error {
	clips := models.ClipsFromCatalog(c)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO esl_clip (label, position, clip_id, asset_path, model, embedding, "updatedAt")
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		ON CONFLICT (label) DO UPDATE SET
			position = EXCLUDED.position,
			clip_id = EXCLUDED.clip_id,
			asset_path = EXCLUDED.asset_path,
			model = EXCLUDED.model,
			embedding = EXCLUDED.embedding,
			"updatedAt" = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare statement failed: %w", err)
	}
	defer stmt.Close()

	labels := make([]string, len(clips))
	for i, clip := range clips {
		labels[i] = clip.Label
		_, err := stmt.ExecContext(ctx,
			clip.Label,
			clip.Position,
			clip.ClipID,
			clip.AssetPath,
			clip.Model,
			pgvector.NewVector(clip.Embedding),
		)
		if err != nil {
			return fmt.Errorf("clip insert failed for %q: %w", clip.Label, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM esl_clip WHERE NOT (label = ANY($1))`, pq.Array(labels)); err != nil {
		return fmt.Errorf("prune stale clips: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}

// List returns every stored clip ordered by catalog position.
func (r *ClipRepository) List(ctx context.Context) ([]models.Clip, error) {
	const query = `
		SELECT label, position, clip_id, asset_path, model, embedding, "updatedAt"
		FROM esl_clip
		ORDER BY position, label
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query clips: %w", err)
	}
	defer rows.Close()

	var clips []models.Clip
	for rows.Next() {
		var (
			clip models.Clip
			vec  pgvector.Vector
		)
		if err := rows.Scan(
			&clip.Label,
			&clip.Position,
			&clip.ClipID,
			&clip.AssetPath,
			&clip.Model,
			&vec,
			&clip.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clip.Embedding = vec.Slice()
		clips = append(clips, clip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clips: %w", err)
	}
	return clips, nil
}

// LoadCatalog rebuilds an immutable catalog from the table.
func (r *ClipRepository) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	clips, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return CatalogFromClips(clips)
}

func CatalogFromClips(clips []models.Clip) (*catalog.Catalog, error) {
	model := ""
	entries := make([]catalog.Entry, len(clips))
	for i, clip := range clips {
		if model == "" {
			model = clip.Model
		} else if clip.Model != "" && clip.Model != model {
			return nil, fmt.Errorf("clip %q embedded with %q, catalog uses %q", clip.Label, clip.Model, model)
		}
		entries[i] = clip.Entry()
	}
	c, err := catalog.New(model, entries)
	if err != nil {
		return nil, fmt.Errorf("rebuild catalog: %w", err)
	}
	return c, nil
}
