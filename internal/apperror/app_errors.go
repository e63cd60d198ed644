package apperror

import "errors"

var (
	ErrInvalidAction  = errors.New("invalid action")
	ErrUnknownAction  = errors.New("unknown action type")
	ErrInvalidBoard   = errors.New("invalid board dimensions")
	ErrActionsMissing = errors.New("actions source not found")
)
