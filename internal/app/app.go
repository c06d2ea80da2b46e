// Package app wires configuration into the running components shared by the
// service and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/eslbridge/sign-translator/internal/catalog"
	"github.com/eslbridge/sign-translator/internal/config"
	"github.com/eslbridge/sign-translator/internal/embeddings"
	"github.com/eslbridge/sign-translator/internal/llm"
	"github.com/eslbridge/sign-translator/internal/logger"
	"github.com/eslbridge/sign-translator/internal/oracle"
	"github.com/eslbridge/sign-translator/internal/pipeline"
	"github.com/eslbridge/sign-translator/internal/resolver"
	"github.com/eslbridge/sign-translator/internal/storage/db"
	"github.com/eslbridge/sign-translator/internal/storage/postgres"
	"github.com/eslbridge/sign-translator/internal/transcription"
	"github.com/eslbridge/sign-translator/internal/translation"
	"github.com/eslbridge/sign-translator/internal/video"
)

const embeddingCacheTTL = 30 * 24 * time.Hour

type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Client    *openai.Client
	Embedder  embeddings.Embedder
	Catalog   *catalog.Catalog
	Resolver  *resolver.Resolver
	Assembler *video.Assembler
	Pipeline  *pipeline.Pipeline

	closers []func() error
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

// NewBase sets up the OpenAI client and the embedder, with the Redis cache in
// front when REDIS_ADDR is set.
func NewBase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}
	a.Client = llm.NewClient(llm.ClientConfig{
		APIKey:     cfg.OpenAIAPIKey,
		APIType:    cfg.OpenAIAPIType,
		BaseURL:    cfg.OpenAIBaseURL,
		APIVersion: cfg.AzureAPIVersion,
	})

	var emb embeddings.Embedder = embeddings.NewOpenAI(a.Client, cfg.EmbeddingModel)
	if cfg.RedisAddr != "" {
		rdb, err := embeddings.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("embedding cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			a.closers = append(a.closers, rdb.Close)
			emb = embeddings.NewCached(emb, rdb, embeddingCacheTTL, log)
			log.Info("embedding cache enabled", "addr", cfg.RedisAddr)
		}
	}
	a.Embedder = emb
	return a, nil
}

// New builds the full translation stack. Failing to load the catalog is an
// error; callers treat it as fatal.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a, err := NewBase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a.Catalog, err = a.LoadCatalog(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	if m := a.Catalog.Model(); m != "" && m != a.Embedder.Model() {
		a.Close()
		return nil, fmt.Errorf("catalog embedded with %q but EMBEDDING_MODEL is %q", m, a.Embedder.Model())
	}
	log.Info("catalog loaded", "source", cfg.CatalogSource, "entries", a.Catalog.Len(), "model", a.Catalog.Model())

	phrases := resolver.DefaultPhraseTable()
	if cfg.PhraseTablePath != "" {
		phrases, err = resolver.LoadPhraseTable(cfg.PhraseTablePath)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	var orc resolver.Oracle
	if cfg.OracleEnabled {
		orc = oracle.NewOpenAI(a.Client, oracle.Config{
			Model:       cfg.OracleModel,
			Temperature: float32(cfg.OracleTemp),
		}, log)
	} else {
		log.Info("semantic oracle disabled, escalated words are rejected")
	}

	a.Resolver, err = resolver.New(catalog.Index{Catalog: a.Catalog, Embedder: a.Embedder}, orc, phrases, cfg.Bands(), log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Assembler = video.New(video.Config{
		Assets:     a.Catalog,
		ClipDir:    cfg.ClipDir,
		OutputDir:  cfg.OutputDir,
		Extensions: cfg.ClipExtensions,
		FFmpegPath: cfg.FFmpegPath,
		Timeout:    cfg.FFmpegTimeout,
	}, log)

	transcriber, err := a.newTranscriber(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Pipeline, err = pipeline.New(pipeline.Config{
		Translator:  translation.NewOpenAI(a.Client, cfg.TranslationModel, log),
		Resolver:    a.Resolver,
		Assembler:   a.Assembler,
		Transcriber: transcriber,
		Locale:      cfg.SpeechLocale,
	}, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// LoadCatalog reads the catalog from the configured source.
func (a *App) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	switch a.Config.CatalogSource {
	case config.CatalogSourcePostgres:
		repo, err := a.ClipRepository(ctx)
		if err != nil {
			return nil, err
		}
		c, err := repo.LoadCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog from postgres: %w", err)
		}
		return c, nil
	default:
		return catalog.Load(a.Config.CatalogPath)
	}
}

// ClipRepository connects to Postgres and makes sure the clip table exists.
func (a *App) ClipRepository(ctx context.Context) (*postgres.ClipRepository, error) {
	database, err := a.openDB(ctx)
	if err != nil {
		return nil, err
	}
	repo := postgres.NewClipRepository(database)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (a *App) openDB(ctx context.Context) (*sql.DB, error) {
	if a.Config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable must be set")
	}
	database, err := db.NewConnection(ctx, db.Config{URL: a.Config.DatabaseURL}, a.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, database.Close)
	return database, nil
}

func (a *App) newTranscriber(ctx context.Context) (transcription.Transcriber, error) {
	switch a.Config.SpeechProvider {
	case "gcp", "google":
		g, err := transcription.NewGoogleSpeech(ctx)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, g.Close)
		return g, nil
	case "lemonfox", "":
		if a.Config.LemonfoxAPIKey == "" {
			a.Log.Warn("LEMONFOX_API_KEY not set, speech input disabled")
			return nil, nil
		}
		return transcription.NewLemonfox(a.Config.LemonfoxAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown SPEECH_PROVIDER %q", a.Config.SpeechProvider)
	}
}
