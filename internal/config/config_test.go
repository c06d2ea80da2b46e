package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ESL_CLIP_DIR", "ESL_CLIP_EXTENSIONS", "ESL_CATALOG_PATH", "ESL_CATALOG_SOURCE",
		"ESL_ACCEPT_THRESHOLD", "ESL_ESCALATE_FLOOR", "OPENAI_API_TYPE", "DATABASE_URL",
		"ORACLE_TEMPERATURE", "ORACLE_ENABLED", "FFMPEG_TIMEOUT_SECONDS",
		"ESL_BUILD_WORKERS", "ESL_BUILD_BATCH_SIZE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ClipDir != "ESL_Processed" {
		t.Errorf("ClipDir = %q", cfg.ClipDir)
	}
	if !reflect.DeepEqual(cfg.ClipExtensions, []string{".mp4"}) {
		t.Errorf("ClipExtensions = %v", cfg.ClipExtensions)
	}
	if b := cfg.Bands(); b.Accept != 0.8 || b.EscalateFloor != 0.46 {
		t.Errorf("Bands() = %+v", b)
	}
	if !cfg.OracleEnabled || cfg.OracleTemp != 0.5 {
		t.Errorf("oracle = enabled %v temperature %v", cfg.OracleEnabled, cfg.OracleTemp)
	}
	if cfg.FFmpegTimeout != 5*time.Minute {
		t.Errorf("FFmpegTimeout = %v", cfg.FFmpegTimeout)
	}
	if cfg.BuildWorkers != 4 || cfg.BuildBatchSize != 64 {
		t.Errorf("build = %d workers, batch %d", cfg.BuildWorkers, cfg.BuildBatchSize)
	}
}

func TestLoadReadsTypedSettings(t *testing.T) {
	t.Setenv("ESL_CATALOG_SOURCE", "")
	t.Setenv("OPENAI_API_TYPE", "")
	t.Setenv("ORACLE_ENABLED", "off")
	t.Setenv("ORACLE_TEMPERATURE", "0")
	t.Setenv("FFMPEG_TIMEOUT_SECONDS", "30")
	t.Setenv("ESL_BUILD_WORKERS", "8")
	t.Setenv("ESL_BUILD_BATCH_SIZE", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OracleEnabled {
		t.Error("OracleEnabled = true, want false")
	}
	if cfg.OracleTemp != 0 {
		t.Errorf("OracleTemp = %v, want 0", cfg.OracleTemp)
	}
	if cfg.FFmpegTimeout != 30*time.Second {
		t.Errorf("FFmpegTimeout = %v", cfg.FFmpegTimeout)
	}
	if cfg.BuildWorkers != 8 {
		t.Errorf("BuildWorkers = %d", cfg.BuildWorkers)
	}
	if cfg.BuildBatchSize != 64 {
		t.Errorf("BuildBatchSize = %d, want default for unparseable value", cfg.BuildBatchSize)
	}
}

func TestLoadRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown catalog source",
			env:  map[string]string{"ESL_CATALOG_SOURCE": "s3"},
		},
		{
			name: "postgres without url",
			env:  map[string]string{"ESL_CATALOG_SOURCE": "postgres", "DATABASE_URL": "", "ESL_DATABASE_ID": "NOPE"},
		},
		{
			name: "floor above accept",
			env:  map[string]string{"ESL_ACCEPT_THRESHOLD": "0.4", "ESL_ESCALATE_FLOOR": "0.5"},
		},
		{
			name: "negative oracle temperature",
			env:  map[string]string{"ORACLE_TEMPERATURE": "-0.1"},
		},
		{
			name: "oracle temperature above two",
			env:  map[string]string{"ORACLE_TEMPERATURE": "2.5"},
		},
		{
			name: "zero ffmpeg timeout",
			env:  map[string]string{"FFMPEG_TIMEOUT_SECONDS": "0"},
		},
		{
			name: "zero build workers",
			env:  map[string]string{"ESL_BUILD_WORKERS": "0"},
		},
		{
			name: "azure without endpoint",
			env:  map[string]string{"OPENAI_API_TYPE": "azure", "OPENAI_BASE_URL": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Errorf("Load() error = nil, want error")
			}
		})
	}
}

func TestList(t *testing.T) {
	t.Setenv("ESL_TEST_LIST", " .mp4, ,.mov ")
	got := List("ESL_TEST_LIST", nil)
	if !reflect.DeepEqual(got, []string{".mp4", ".mov"}) {
		t.Errorf("List() = %v", got)
	}
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ESL_DATABASE_ID", "staging")
	t.Setenv("DATABASE_URL_STAGING", "postgres://example/esl")
	if got := DatabaseURL(); got != "postgres://example/esl" {
		t.Errorf("DatabaseURL() = %q", got)
	}

	t.Setenv("DATABASE_URL", "postgres://direct/esl")
	if got := DatabaseURL(); got != "postgres://direct/esl" {
		t.Errorf("DatabaseURL() = %q", got)
	}
}
