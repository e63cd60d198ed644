package tictactoe

import "github.com/rocketscienceinc/tictactoe-reducer/internal/entity"

const (
	DefaultRows = 3
	DefaultCols = 3
)

var defaultReducer = NewReducer(DefaultRows, DefaultCols)

// Reducer - maps (state, action) to a new state without side effects.
type Reducer struct {
	rows int
	cols int
}

// NewReducer - rows and cols set the shape of the board produced by NewGame.
func NewReducer(rows, cols int) *Reducer {
	if rows <= 0 || cols <= 0 {
		rows, cols = DefaultRows, DefaultCols
	}

	return &Reducer{rows: rows, cols: cols}
}

// Reduce - applies action with the default 3x3 reducer.
func Reduce(state *entity.GameState, action entity.Action) entity.GameState {
	return defaultReducer.Reduce(state, action)
}

func (that *Reducer) Rows() int {
	return that.rows
}

func (that *Reducer) Cols() int {
	return that.cols
}

// Reduce - a nil state selects entity.InitialState. The result never shares a board with the input.
func (that *Reducer) Reduce(state *entity.GameState, action entity.Action) entity.GameState {
	var next entity.GameState
	if state == nil {
		next = entity.InitialState()
	} else {
		next = state.Clone()
	}

	switch act := action.(type) {
	case entity.NewGame:
		next.Board = entity.NewBoard(that.rows, that.cols)
		next.GameOver = false
	case entity.GameOver:
		next.GameOver = true
	case entity.MovePlayer:
		// out-of-range moves leave the board as it was
		if next.Board.InBounds(act.Row, act.Col) {
			next.Board[act.Row][act.Col] = act.Player
		}
	case entity.Winner:
		next.GameOver = true
		next.Winner = act.Player
	case entity.SwitchPlayer:
		next.Player = act.Player
	}

	return next
}
