package application

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-reducer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/config"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/store"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/tictactoe"
)

const maxLineSize = 1 << 20

type dispatcher interface {
	Dispatch(ctx context.Context, action entity.Action) entity.GameState
	State() entity.GameState
}

// RunApp - replays the configured action stream and writes the final state.
func RunApp(logger *slog.Logger, conf *config.Config, tracer trace.Tracer) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	input, closeInput, err := openInput(conf.ActionsPath)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeInput(); err != nil {
			log.Error("could not close actions source", "error", err)
		}
	}()

	reducer := tictactoe.NewReducer(conf.Board.Rows, conf.Board.Cols)
	gameStore := store.New(logger, reducer, tracer)

	unsubscribe := gameStore.Subscribe(func(state entity.GameState) {
		switch {
		case state.GameOver && state.HasWinner():
			log.Info("game over", "winner", state.Winner)
		case state.GameOver:
			log.Info("game over without a winner")
		}
	})
	defer unsubscribe()

	log.Info("Starting replay", "rows", reducer.Rows(), "cols", reducer.Cols())

	count, err := Replay(ctx, logger, gameStore, input)
	switch {
	case errors.Is(err, context.Canceled):
		log.Info("Replay interrupted, shutting down", "actions", count)
	case err != nil:
		return fmt.Errorf("replay failed: %w", err)
	default:
		log.Info("Replay finished", "actions", count)
	}

	if err = writeState(conf.OutputPath, gameStore.State()); err != nil {
		return fmt.Errorf("could not write final state: %w", err)
	}

	return nil
}

// Replay - dispatches every newline-delimited JSON action read from input.
// Lines that fail to decode are logged and skipped. Returns the number of dispatched actions.
// Reading happens in its own goroutine so that cancellation is seen while input is idle;
// a reader blocked at that point is abandoned.
func Replay(ctx context.Context, logger *slog.Logger, gameStore dispatcher, input io.Reader) (int, error) {
	log := logger.With("method", "Replay")

	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

		for scanner.Scan() {
			raw := append([]byte(nil), scanner.Bytes()...)

			select {
			case lines <- raw:
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}

		readErr <- scanner.Err()
	}()

	count := 0
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, fmt.Errorf("replay interrupted after line %d: %w", line, err)
		}

		var raw []byte
		var ok bool

		select {
		case <-ctx.Done():
			return count, fmt.Errorf("replay interrupted after line %d: %w", line, ctx.Err())
		case raw, ok = <-lines:
		}

		if !ok {
			if err := <-readErr; err != nil {
				if ctx.Err() != nil {
					return count, fmt.Errorf("replay interrupted after line %d: %w", line, err)
				}
				return count, fmt.Errorf("failed to read actions: %w", err)
			}
			return count, nil
		}

		line++

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}

		action, err := entity.DecodeAction(raw)
		if err != nil {
			log.Warn("skipping action", "line", line, "error", err)
			continue
		}

		before := gameStore.State()
		if after := gameStore.Dispatch(ctx, action); after.Equal(before) {
			log.Debug("action left state unchanged", "line", line, "action", action.Type())
		}
		count++
	}
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" {
		return os.Stdin, func() error { return nil }, nil
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrActionsMissing, path)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("could not open actions file: %w", err)
	}

	return file, file.Close, nil
}

func writeState(path string, state entity.GameState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal state: %w", err)
	}

	stateJSON = append(stateJSON, '\n')

	if path == "" {
		if _, err = os.Stdout.Write(stateJSON); err != nil {
			return fmt.Errorf("could not write state: %w", err)
		}
		return nil
	}

	if err = os.WriteFile(path, stateJSON, 0o600); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}

	return nil
}
