package entity

const (
	EmptyCell = 0
	Player1   = 1
	Player2   = 2

	NoWinner = -1
)

// Board - rows of cell marks, indexed as Board[row][col].
type Board [][]int

// NewBoard - returns a zero-filled board of the given shape.
func NewBoard(rows, cols int) Board {
	board := make(Board, rows)
	for i := range board {
		board[i] = make([]int, cols)
	}

	return board
}

// Clone - returns a deep copy, so rows never alias the receiver.
func (that Board) Clone() Board {
	if that == nil {
		return nil
	}

	board := make(Board, len(that))
	for i, row := range that {
		board[i] = append(make([]int, 0, len(row)), row...)
	}

	return board
}

func (that Board) InBounds(row, col int) bool {
	if row < 0 || row >= len(that) {
		return false
	}

	return col >= 0 && col < len(that[row])
}

func (that Board) Equal(other Board) bool {
	if len(that) != len(other) {
		return false
	}

	for i := range that {
		if len(that[i]) != len(other[i]) {
			return false
		}

		for j := range that[i] {
			if that[i][j] != other[i][j] {
				return false
			}
		}
	}

	return true
}

type GameState struct {
	Board    Board `json:"board"`
	GameOver bool  `json:"gameover"`
	Player   int   `json:"player"`
	Winner   int   `json:"winner"`
}

// InitialState - the state used when no prior state exists.
// The board is a single empty row, not a full grid.
func InitialState() GameState {
	return GameState{
		Board:    Board{{}},
		GameOver: false,
		Player:   Player1,
		Winner:   NoWinner,
	}
}

func (that GameState) Clone() GameState {
	that.Board = that.Board.Clone()
	return that
}

func (that GameState) Equal(other GameState) bool {
	return that.GameOver == other.GameOver &&
		that.Player == other.Player &&
		that.Winner == other.Winner &&
		that.Board.Equal(other.Board)
}

func (that GameState) HasWinner() bool {
	return that.Winner != NoWinner
}
