package rules

import "errors"

var (
	// ErrInvalidMove reports move text that is not among the currently
	// legal moves: illegal destinations, moving into check, wrong-turn
	// moves, malformed castling, or an illegal promotion. It is always
	// caused by caller input; the engine never reaches an inconsistent
	// state.
	ErrInvalidMove = errors.New("invalid move")

	// ErrInvalidPosition reports a malformed position string. It can only
	// occur during construction or reset; a move can never produce it.
	ErrInvalidPosition = errors.New("invalid position")
)
