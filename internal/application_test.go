package application

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-reducer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/config"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/store"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/telemetry"
	"github.com/rocketscienceinc/tictactoe-reducer/internal/tictactoe"
)

const winningGame = `{"type":"NEW_GAME"}
{"type":"MOVE_PLAYER","player":1,"row":1,"col":0}
{"type":"SWITCH_PLAYER","player":2}

{"type":"MOVE_PLAYER","player":2,"row":0,"col":0}
not an action
{"type":"SWITCH_PLAYER","player":1}
{"type":"MOVE_PLAYER","player":1,"row":1,"col":1}
{"type":"NOT_A_GAME_TYPE"}
{"type":"MOVE_PLAYER","player":1,"row":1,"col":2}
{"type":"WINNER","player":1}
`

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestReplay(t *testing.T) {
	t.Run("Dispatches valid lines and skips the rest", func(t *testing.T) {
		// Given: a store and a recorded game with a blank and a malformed line
		logger := newTestLogger()
		gameStore := store.New(logger, tictactoe.NewReducer(3, 3), telemetry.NoopTracer())

		// When: replaying it
		count, err := Replay(context.Background(), logger, gameStore, strings.NewReader(winningGame))

		// Then: every decodable action was dispatched
		require.NoError(t, err)
		assert.Equal(t, 9, count)

		expectedState := entity.GameState{
			Board:    entity.Board{{2, 0, 0}, {1, 1, 1}, {0, 0, 0}},
			GameOver: true,
			Player:   1,
			Winner:   1,
		}
		assert.Equal(t, expectedState, gameStore.State())
	})

	t.Run("Stops when the context is canceled", func(t *testing.T) {
		// Given: a canceled context
		logger := newTestLogger()
		gameStore := store.New(logger, tictactoe.NewReducer(3, 3), telemetry.NoopTracer())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// When: replaying
		count, err := Replay(ctx, logger, gameStore, strings.NewReader(winningGame))

		// Then: nothing is dispatched
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, count)
		assert.Equal(t, entity.InitialState(), gameStore.State())
	})

	t.Run("Returns on cancel while input is idle", func(t *testing.T) {
		// Given: a store and an input that delivers two actions and then stays open
		logger := newTestLogger()
		gameStore := store.New(logger, tictactoe.NewReducer(3, 3), telemetry.NoopTracer())

		reader, writer := io.Pipe()
		t.Cleanup(func() {
			_ = writer.Close()
		})

		switched := make(chan struct{})
		var once sync.Once
		gameStore.Subscribe(func(state entity.GameState) {
			if state.Player == entity.Player2 {
				once.Do(func() { close(switched) })
			}
		})

		go func() {
			_, _ = writer.Write([]byte("{\"type\":\"NEW_GAME\"}\n{\"type\":\"SWITCH_PLAYER\",\"player\":2}\n"))
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		type result struct {
			count int
			err   error
		}
		done := make(chan result, 1)
		go func() {
			count, err := Replay(ctx, logger, gameStore, reader)
			done <- result{count: count, err: err}
		}()

		select {
		case <-switched:
		case <-time.After(5 * time.Second):
			t.Fatal("actions were not dispatched")
		}

		// When: the context is canceled with no more input pending
		cancel()

		// Then: Replay returns promptly with the actions dispatched so far
		select {
		case res := <-done:
			require.ErrorIs(t, res.err, context.Canceled)
			assert.Equal(t, 2, res.count)
		case <-time.After(5 * time.Second):
			t.Fatal("Replay still blocked after cancel")
		}

		assert.Equal(t, entity.GameState{Board: entity.NewBoard(3, 3), Player: 2, Winner: -1}, gameStore.State())
	})
}

func TestRunApp(t *testing.T) {
	t.Run("Writes the final state to the output file", func(t *testing.T) {
		// Given: an actions file and an output path
		dir := t.TempDir()
		actionsPath := filepath.Join(dir, "actions.jsonl")
		outputPath := filepath.Join(dir, "state.json")
		require.NoError(t, os.WriteFile(actionsPath, []byte(winningGame), 0o600))

		conf := &config.Config{
			LogLevel:    "info",
			Board:       config.Board{Rows: 3, Cols: 3},
			ActionsPath: actionsPath,
			OutputPath:  outputPath,
		}

		// When: running the app
		err := RunApp(newTestLogger(), conf, telemetry.NoopTracer())

		// Then: the final state is written as JSON
		require.NoError(t, err)

		data, err := os.ReadFile(outputPath)
		require.NoError(t, err)

		var state entity.GameState
		require.NoError(t, json.Unmarshal(data, &state))
		assert.True(t, state.GameOver)
		assert.Equal(t, 1, state.Winner)
		assert.JSONEq(t, `{"board":[[2,0,0],[1,1,1],[0,0,0]],"gameover":true,"player":1,"winner":1}`, string(data))
	})

	t.Run("Fails when the actions file is missing", func(t *testing.T) {
		conf := &config.Config{
			Board:       config.Board{Rows: 3, Cols: 3},
			ActionsPath: filepath.Join(t.TempDir(), "missing.jsonl"),
		}

		err := RunApp(newTestLogger(), conf, telemetry.NoopTracer())

		assert.ErrorIs(t, err, apperror.ErrActionsMissing)
	})
}
