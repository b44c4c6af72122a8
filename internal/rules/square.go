// Package rules implements a complete chess rules engine: board
// representation, incremental move-graph maintenance, legality and check
// detection, and move application. It has no search or evaluation; it is a
// pure rules model intended to sit behind any chess application.
package rules

import "fmt"

// Square indexes a board cell in raster order: 0 is a8, 7 is h8, 56 is a1,
// 63 is h1. Increasing index moves right along a rank, then down a rank.
type Square int

// NoSquare marks the absence of a square (e.g., no en-passant target).
const NoSquare Square = -1

// NewSquare builds a square from a file (0-7, a-h) and a chess rank (1-8).
func NewSquare(file, rank int) Square {
	return Square((8-rank)*8 + file)
}

// File returns the file of the square (0-7, where 0=a).
func (sq Square) File() int {
	return int(sq) % 8
}

// Rank returns the chess rank of the square (1-8).
func (sq Square) Rank() int {
	return 8 - int(sq)/8
}

// Valid reports whether the square is on the board.
func (sq Square) Valid() bool {
	return sq >= 0 && sq < 64
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.File(), sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}

	return NewSquare(file, rank+1), nil
}
