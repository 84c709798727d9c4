package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ehz-labs/ocr-api/internal/config"
	"github.com/ehz-labs/ocr-api/internal/errorreporting"
	"github.com/ehz-labs/ocr-api/internal/logger"
	"github.com/ehz-labs/ocr-api/internal/ocr"
	"github.com/ehz-labs/ocr-api/internal/server"
	"github.com/ehz-labs/ocr-api/internal/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, falling back to system env")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	if err := errorreporting.Init(cfg.SentryEnvironment); err != nil {
		logger.Warn("Sentry initialization failed", "error", err)
	}
	defer errorreporting.Flush(2 * time.Second)

	shutdownTracing, err := tracing.Init("ocr-api")
	if err != nil {
		logger.Warn("Tracing initialization failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recognizer, err := ocr.NewVisionRecognizer(ctx, cfg.OCRTimeout)
	if err != nil {
		logger.Error("Vision client initialization failed", "error", err)
		os.Exit(1)
	}
	defer recognizer.Close()

	srv := server.NewServer(recognizer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}

	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}

	logger.Info("Server stopped")
}
