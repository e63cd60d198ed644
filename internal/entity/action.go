package entity

const (
	TypeNewGame      = "NEW_GAME"
	TypeGameOver     = "GAMEOVER"
	TypeMovePlayer   = "MOVE_PLAYER"
	TypeWinner       = "WINNER"
	TypeSwitchPlayer = "SWITCH_PLAYER"
)

// Action - a requested state transition. Only the variants below implement it.
type Action interface {
	Type() string
	isAction()
}

type NewGame struct{}

type GameOver struct{}

type MovePlayer struct {
	Player int
	Row    int
	Col    int
}

type Winner struct {
	Player int
}

type SwitchPlayer struct {
	Player int
}

// Unknown - any action whose type is not handled by the reducer.
type Unknown struct {
	Tag string
}

func (NewGame) Type() string      { return TypeNewGame }
func (GameOver) Type() string     { return TypeGameOver }
func (MovePlayer) Type() string   { return TypeMovePlayer }
func (Winner) Type() string       { return TypeWinner }
func (SwitchPlayer) Type() string { return TypeSwitchPlayer }
func (that Unknown) Type() string { return that.Tag }

func (NewGame) isAction()      {}
func (GameOver) isAction()     {}
func (MovePlayer) isAction()   {}
func (Winner) isAction()       {}
func (SwitchPlayer) isAction() {}
func (Unknown) isAction()      {}

func NewGameAction() Action {
	return NewGame{}
}

func GameOverAction() Action {
	return GameOver{}
}

func MovePlayerAction(player, row, col int) Action {
	return MovePlayer{Player: player, Row: row, Col: col}
}

func WinnerAction(player int) Action {
	return Winner{Player: player}
}

func SwitchPlayerAction(player int) Action {
	return SwitchPlayer{Player: player}
}
