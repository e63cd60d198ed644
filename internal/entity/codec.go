package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-reducer/internal/apperror"
)

// wireAction - JSON shape of an action, e.g. {"type":"MOVE_PLAYER","player":1,"row":2,"col":2}.
type wireAction struct {
	Type   string `json:"type"`
	Player *int   `json:"player,omitempty"`
	Row    *int   `json:"row,omitempty"`
	Col    *int   `json:"col,omitempty"`
}

// DecodeAction - parses a JSON action. Unhandled types decode to Unknown.
func DecodeAction(data []byte) (Action, error) {
	var wire wireAction
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidAction, err)
	}

	if wire.Type == "" {
		return nil, fmt.Errorf("%w: missing type", apperror.ErrInvalidAction)
	}

	switch wire.Type {
	case TypeNewGame:
		return NewGame{}, nil
	case TypeGameOver:
		return GameOver{}, nil
	case TypeMovePlayer:
		if wire.Player == nil || wire.Row == nil || wire.Col == nil {
			return nil, fmt.Errorf("%w: %s requires player, row and col", apperror.ErrInvalidAction, wire.Type)
		}
		return MovePlayer{Player: *wire.Player, Row: *wire.Row, Col: *wire.Col}, nil
	case TypeWinner:
		if wire.Player == nil {
			return nil, fmt.Errorf("%w: %s requires player", apperror.ErrInvalidAction, wire.Type)
		}
		return Winner{Player: *wire.Player}, nil
	case TypeSwitchPlayer:
		if wire.Player == nil {
			return nil, fmt.Errorf("%w: %s requires player", apperror.ErrInvalidAction, wire.Type)
		}
		return SwitchPlayer{Player: *wire.Player}, nil
	default:
		return Unknown{Tag: wire.Type}, nil
	}
}

func EncodeAction(action Action) ([]byte, error) {
	wire := wireAction{}

	switch act := action.(type) {
	case NewGame, GameOver:
		wire.Type = act.Type()
	case Unknown:
		if act.Tag == "" || isKnownType(act.Tag) {
			return nil, fmt.Errorf("%w: unknown action tag %q", apperror.ErrInvalidAction, act.Tag)
		}
		wire.Type = act.Tag
	case MovePlayer:
		wire.Type = act.Type()
		wire.Player, wire.Row, wire.Col = &act.Player, &act.Row, &act.Col
	case Winner:
		wire.Type = act.Type()
		wire.Player = &act.Player
	case SwitchPlayer:
		wire.Type = act.Type()
		wire.Player = &act.Player
	default:
		return nil, fmt.Errorf("%w: %T", apperror.ErrUnknownAction, action)
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("could not marshal action: %w", err)
	}

	return data, nil
}

func isKnownType(tag string) bool {
	switch tag {
	case TypeNewGame, TypeGameOver, TypeMovePlayer, TypeWinner, TypeSwitchPlayer:
		return true
	default:
		return false
	}
}
