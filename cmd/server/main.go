// Package main starts the studyhall API server process lifecycle.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/louisbranch/studyhall/internal/app"
	"github.com/louisbranch/studyhall/internal/platform/config"
	"github.com/louisbranch/studyhall/internal/platform/otel"
)

func main() {
	// Missing .env files are fine; the environment may be set directly.
	_ = godotenv.Load()

	logger := slog.New(tint.NewHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	env, err := app.LoadEnv()
	if err != nil {
		config.Exitf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "studyhall")
	if err != nil {
		config.Exitf("setup tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("shutdown tracing", "error", err)
		}
	}()

	if err := app.Run(ctx, env, logger); err != nil {
		config.Exitf("serve: %v", err)
	}
}
