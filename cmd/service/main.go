package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eslbridge/sign-translator/internal/api"
	"github.com/eslbridge/sign-translator/internal/app"
	"github.com/eslbridge/sign-translator/internal/config"
	"github.com/eslbridge/sign-translator/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.ServiceAPIKey == "" {
		log.Fatal("SERVICE_API_KEY environment variable must be set")
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to start translator", "error", err)
	}
	defer a.Close()

	if err := a.Assembler.AssertReady(); err != nil {
		lg.Warn("video assembly unavailable", "error", err)
	}

	router := api.NewRouter(api.Deps{
		Translator: a.Pipeline,
		Videos:     a.Assembler,
		Catalog:    a.Catalog,
		APIKey:     cfg.ServiceAPIKey,
		Log:        lg,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	lg.Info("starting HTTP server", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("HTTP server error", "error", err)
	}
}
