package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"

	"github.com/eslbridge/sign-translator/internal/logger"
)

type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// NewConnection creates and verifies a new database connection
func NewConnection(ctx context.Context, cfg Config, log *logger.Logger) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 5
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	log.Info("connected to database", "url", MaskDatabaseURL(cfg.URL))
	return db, nil
}

// MaskDatabaseURL hides credentials in a database URL for logging.
func MaskDatabaseURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "postgres://[masked]@[masked]"
	}
	if u.User != nil {
		u.User = url.User("masked")
	}
	u.RawQuery = ""
	return u.String()
}
