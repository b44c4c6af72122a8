package rules

import (
	"fmt"
	"strings"
)

// Move is a move in coordinate notation: start square, end square, and an
// optional promotion piece letter (lowercase, 0 when absent). Castling is
// the king's two-square hop, not a distinct token.
type Move struct {
	From      Square
	To        Square
	Promotion byte
}

// ParseMove parses coordinate move text such as "e2e4" or "g7h8q".
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(s)
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: malformed move text %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %s", ErrInvalidMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %s", ErrInvalidMove, err)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case Queen, Rook, Bishop, Knight:
			m.Promotion = s[4]
		default:
			return Move{}, fmt.Errorf("%w: invalid promotion piece %q", ErrInvalidMove, s[4])
		}
	}
	return m, nil
}

func (m Move) String() string {
	if m.Promotion != 0 {
		return m.From.String() + m.To.String() + string(rune(m.Promotion))
	}
	return m.From.String() + m.To.String()
}
