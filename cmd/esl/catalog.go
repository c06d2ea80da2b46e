package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslbridge/sign-translator/internal/app"
	"github.com/eslbridge/sign-translator/internal/catalog"
)

func newBuildCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-catalog",
		Short: "Embed every clip label and write the catalog artifact",
		Args:  cobra.NoArgs,
		RunE:  buildCatalog,
	}
	cmd.Flags().String("dir", "", "Clip directory (default ESL_CLIP_DIR)")
	cmd.Flags().String("out", "", "Artifact path (default ESL_CATALOG_PATH)")
	cmd.Flags().Int("workers", 0, "Concurrent embedding requests (default ESL_BUILD_WORKERS)")
	cmd.Flags().Int("batch", 0, "Labels per embedding request (default ESL_BUILD_BATCH_SIZE)")
	cmd.Flags().Bool("publish", false, "Also replace the Postgres catalog")
	return cmd
}

func buildCatalog(cmd *cobra.Command, args []string) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	dir, _ := cmd.Flags().GetString("dir")
	out, _ := cmd.Flags().GetString("out")
	workers, _ := cmd.Flags().GetInt("workers")
	batch, _ := cmd.Flags().GetInt("batch")
	publish, _ := cmd.Flags().GetBool("publish")
	if dir == "" {
		dir = cfg.ClipDir
	}
	if out == "" {
		out = cfg.CatalogPath
	}
	if workers <= 0 {
		workers = cfg.BuildWorkers
	}
	if batch <= 0 {
		batch = cfg.BuildBatchSize
	}

	ctx := cmd.Context()
	a, err := app.NewBase(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := catalog.Build(ctx, dir, a.Embedder, catalog.BuildOptions{
		Extensions: cfg.ClipExtensions,
		BatchSize:  batch,
		Workers:    workers,
	}, lg)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	if err := catalog.Save(out, c); err != nil {
		return err
	}
	lg.Info("catalog written", "path", out, "entries", c.Len(), "model", c.Model())

	if publish {
		repo, err := a.ClipRepository(ctx)
		if err != nil {
			return err
		}
		if err := repo.ReplaceAll(ctx, c); err != nil {
			return err
		}
		lg.Info("catalog published to postgres", "entries", c.Len())
	}

	if jsonMode(cmd) {
		return printJSON(cmd, map[string]interface{}{"path": out, "entries": c.Len(), "model": c.Model()})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d clips to %s\n", c.Len(), out)
	return nil
}

func newPublishCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish-catalog",
		Short: "Copy a catalog artifact into the Postgres clip table",
		Args:  cobra.NoArgs,
		RunE:  publishCatalog,
	}
	cmd.Flags().String("in", "", "Artifact path (default ESL_CATALOG_PATH)")
	return cmd
}

func publishCatalog(cmd *cobra.Command, args []string) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	in, _ := cmd.Flags().GetString("in")
	if in == "" {
		in = cfg.CatalogPath
	}
	c, err := catalog.Load(in)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.NewBase(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := a.ClipRepository(ctx)
	if err != nil {
		return err
	}
	if err := repo.ReplaceAll(ctx, c); err != nil {
		return err
	}

	if jsonMode(cmd) {
		return printJSON(cmd, map[string]interface{}{"source": in, "entries": c.Len()})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d clips from %s\n", c.Len(), in)
	return nil
}
