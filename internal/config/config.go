package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/eslbridge/sign-translator/internal/resolver"
)

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	ClipDir         string
	ClipExtensions  []string
	CatalogPath     string
	CatalogSource   string
	PhraseTablePath string
	OutputDir       string

	AcceptThreshold float64
	EscalateFloor   float64

	OpenAIAPIKey     string
	OpenAIAPIType    string
	OpenAIBaseURL    string
	AzureAPIVersion  string
	EmbeddingModel   string
	OracleModel      string
	OracleTemp       float64
	OracleEnabled    bool
	TranslationModel string

	SpeechProvider string
	LemonfoxAPIKey string
	SpeechLocale   string

	RedisAddr     string
	DatabaseURL   string
	ServiceAPIKey string
	HTTPAddr      string
	FFmpegPath    string
	FFmpegTimeout time.Duration
	LogMode       string

	BuildWorkers   int
	BuildBatchSize int
}

// Load reads the process environment. Call godotenv.Load first if a .env
// file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		ClipDir:         String("ESL_CLIP_DIR", "ESL_Processed"),
		ClipExtensions:  List("ESL_CLIP_EXTENSIONS", []string{".mp4"}),
		CatalogPath:     String("ESL_CATALOG_PATH", "video_embeddings_main.json"),
		CatalogSource:   strings.ToLower(String("ESL_CATALOG_SOURCE", CatalogSourceFile)),
		PhraseTablePath: String("ESL_PHRASE_TABLE", ""),
		OutputDir:       String("ESL_OUTPUT_DIR", "output"),

		AcceptThreshold: Float("ESL_ACCEPT_THRESHOLD", resolver.DefaultAcceptThreshold),
		EscalateFloor:   Float("ESL_ESCALATE_FLOOR", resolver.DefaultEscalateFloor),

		OpenAIAPIKey:     String("OPENAI_API_KEY", ""),
		OpenAIAPIType:    strings.ToLower(String("OPENAI_API_TYPE", "openai")),
		OpenAIBaseURL:    String("OPENAI_BASE_URL", ""),
		AzureAPIVersion:  String("AZURE_OPENAI_API_VERSION", ""),
		EmbeddingModel:   String("EMBEDDING_MODEL", "text-embedding-ada-002"),
		OracleModel:      String("ORACLE_MODEL", "gpt-4"),
		OracleTemp:       Float("ORACLE_TEMPERATURE", 0.5),
		OracleEnabled:    Bool("ORACLE_ENABLED", true),
		TranslationModel: String("TRANSLATION_MODEL", "gpt-4"),

		SpeechProvider: strings.ToLower(String("SPEECH_PROVIDER", "lemonfox")),
		LemonfoxAPIKey: String("LEMONFOX_API_KEY", ""),
		SpeechLocale:   String("SPEECH_LOCALE", "ar-SA"),

		RedisAddr:     String("REDIS_ADDR", ""),
		DatabaseURL:   DatabaseURL(),
		ServiceAPIKey: String("SERVICE_API_KEY", ""),
		HTTPAddr:      String("HTTP_ADDR", ":8080"),
		FFmpegPath:    String("FFMPEG_PATH", "ffmpeg"),
		FFmpegTimeout: time.Duration(Int("FFMPEG_TIMEOUT_SECONDS", 300)) * time.Second,
		LogMode:       String("LOG_MODE", "dev"),

		BuildWorkers:   Int("ESL_BUILD_WORKERS", 4),
		BuildBatchSize: Int("ESL_BUILD_BATCH_SIZE", 64),
	}

	switch cfg.CatalogSource {
	case CatalogSourceFile:
	case CatalogSourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("ESL_CATALOG_SOURCE=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown ESL_CATALOG_SOURCE %q", cfg.CatalogSource)
	}

	switch cfg.OpenAIAPIType {
	case "openai", "azure":
	default:
		return nil, fmt.Errorf("unknown OPENAI_API_TYPE %q", cfg.OpenAIAPIType)
	}
	if cfg.OpenAIAPIType == "azure" && cfg.OpenAIBaseURL == "" {
		return nil, fmt.Errorf("OPENAI_API_TYPE=azure requires OPENAI_BASE_URL")
	}

	// ORACLE_TEMPERATURE=0 is honoured: the oracle sends the smallest positive
	// float32 because the OpenAI client omits a zero temperature.
	if cfg.OracleTemp < 0 || cfg.OracleTemp > 2 {
		return nil, fmt.Errorf("ORACLE_TEMPERATURE must be within [0, 2], got %v", cfg.OracleTemp)
	}
	if cfg.FFmpegTimeout <= 0 {
		return nil, fmt.Errorf("FFMPEG_TIMEOUT_SECONDS must be positive")
	}
	if cfg.BuildWorkers <= 0 || cfg.BuildBatchSize <= 0 {
		return nil, fmt.Errorf("ESL_BUILD_WORKERS and ESL_BUILD_BATCH_SIZE must be positive")
	}

	if err := cfg.Bands().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Bands() resolver.Bands {
	return resolver.Bands{Accept: c.AcceptThreshold, EscalateFloor: c.EscalateFloor}
}
