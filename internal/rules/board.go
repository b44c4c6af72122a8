package rules

import (
	"fmt"
	"strings"
)

// boardStore is the 64-cell piece placement: pure storage, no rules logic.
type boardStore struct {
	cells [64]Piece
}

func newBoardStore() boardStore {
	var b boardStore
	for i := range b.cells {
		b.cells[i] = Empty
	}
	return b
}

func (b *boardStore) piece(sq Square) Piece {
	return b.cells[sq]
}

func (b *boardStore) owner(sq Square) Color {
	return b.cells[sq].Color()
}

func (b *boardStore) set(sq Square, p Piece) {
	b.cells[sq] = p
}

// find returns the first square holding the given token, or NoSquare.
func (b *boardStore) find(p Piece) Square {
	for i, c := range b.cells {
		if c == p {
			return Square(i)
		}
	}
	return NoSquare
}

// findAll returns every square holding the given token.
func (b *boardStore) findAll(p Piece) []Square {
	var out []Square
	for i, c := range b.cells {
		if c == p {
			out = append(out, Square(i))
		}
	}
	return out
}

// placement renders the board as the first FEN field: 8 slash-separated
// ranks with runs of empty squares collapsed to digits.
func (b *boardStore) placement() string {
	var sb strings.Builder
	for rank := 0; rank < 8; rank++ {
		if rank > 0 {
			sb.WriteByte('/')
		}
		run := 0
		for file := 0; file < 8; file++ {
			p := b.cells[rank*8+file]
			if p == Empty {
				run++
				continue
			}
			if run > 0 {
				sb.WriteByte('0' + byte(run))
				run = 0
			}
			sb.WriteByte(byte(p))
		}
		if run > 0 {
			sb.WriteByte('0' + byte(run))
		}
	}
	return sb.String()
}

// setPlacement parses the first FEN field into the position array.
func (b *boardStore) setPlacement(s string) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("placement has %d ranks, want 8", len(ranks))
	}
	for r, row := range ranks {
		file := 0
		for i := 0; i < len(row); i++ {
			c := row[i]
			switch {
			case c >= '1' && c <= '8':
				for n := 0; n < int(c-'0'); n++ {
					if file > 7 {
						return fmt.Errorf("rank %d overflows 8 files", 8-r)
					}
					b.cells[r*8+file] = Empty
					file++
				}
			case validPieceLetter(Piece(c).Type()):
				if file > 7 {
					return fmt.Errorf("rank %d overflows 8 files", 8-r)
				}
				b.cells[r*8+file] = Piece(c)
				file++
			default:
				return fmt.Errorf("invalid placement character %q", c)
			}
		}
		if file != 8 {
			return fmt.Errorf("rank %d has %d files, want 8", 8-r, file)
		}
	}
	return nil
}
