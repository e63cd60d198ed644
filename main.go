package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	app "github.com/rocketscienceinc/tictactoe-reducer/internal"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/config"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/telemetry"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the replay.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	// .env is optional, variables may be set directly
	_ = godotenv.Load()

	conf := initConfig()
	logger := initLogger(conf)

	tracer, shutdown := initTracer(logger, conf)
	defer shutdown()

	if err := app.RunApp(logger, conf, tracer); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config.
func initConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "./config.yml"))
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	// stdout carries the final state
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// initialize tracer, falls back to noop when telemetry is off or cannot start.
func initTracer(logger *slog.Logger, conf *config.Config) (trace.Tracer, func()) {
	if !conf.Telemetry.Enabled {
		return telemetry.NoopTracer(), func() {}
	}

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, conf.Telemetry.ServiceName)
	if err != nil {
		logger.Warn("telemetry setup failed, continuing without tracing", "error", err)
		return telemetry.NoopTracer(), func() {}
	}

	return telemetry.Tracer("store"), func() {
		if err = shutdown(ctx); err != nil {
			logger.Error("could not shut down telemetry", "error", err)
		}
	}
}
