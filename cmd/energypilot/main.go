package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/energypilot/energypilot/pkg/devices"
	"github.com/energypilot/energypilot/pkg/evaluator"
	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/metrics"
	"github.com/energypilot/energypilot/pkg/prices"
	"github.com/energypilot/energypilot/pkg/server"
	"github.com/energypilot/energypilot/pkg/settings"
	"github.com/energypilot/energypilot/pkg/storage"
	"github.com/energypilot/energypilot/pkg/strategy"
	"github.com/energypilot/energypilot/pkg/summary"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

func main() {
	m, err := metrics.New(nil)
	if err != nil {
		panic(fmt.Errorf("failed to register metrics: %w", err))
	}

	// init packages
	feed := prices.Configured()
	sched := strategy.Configured()
	agg := summary.Configured()
	eval := evaluator.Configured(feed, sched, m)
	kv := storage.Configured()

	// init server
	srv := server.Configured(feed, devices.NewMock(), agg, eval, settings.New(kv), sched, m)

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	log.SetDefaultLogLevel(level)
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Ctx(ctx).InfoContext(
		ctx,
		"configured",
		slog.String("evaluator", string(eval.Mode())),
		slog.String("region", feed.Region()),
		slog.String("overlapPolicy", sched.Policy().Name()),
	)

	// initialization failures inside lflag.Do panic, so kv is ready here
	defer func() {
		if err := kv.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", err))
		}
	}()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
