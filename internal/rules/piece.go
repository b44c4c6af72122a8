package rules

// Color identifies the owner of a piece, using the FEN letters.
type Color byte

const (
	White   Color = 'w'
	Black   Color = 'b'
	NoColor Color = 0
)

// Other returns the opposite color.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Piece is a single-byte piece token using FEN letters: uppercase for white,
// lowercase for black. The blank square is the space character.
type Piece byte

// Empty is the token occupying a square with no piece on it.
const Empty Piece = ' '

// Piece type letters, always lowercase.
const (
	King   byte = 'k'
	Queen  byte = 'q'
	Rook   byte = 'r'
	Bishop byte = 'b'
	Knight byte = 'n'
	Pawn   byte = 'p'
)

// IsEmpty reports whether the token is the blank square.
func (p Piece) IsEmpty() bool {
	return p == Empty
}

// Color returns the owner of the piece, or NoColor for the blank token.
func (p Piece) Color() Color {
	switch {
	case p == Empty:
		return NoColor
	case p >= 'A' && p <= 'Z':
		return White
	default:
		return Black
	}
}

// Type returns the lowercase type letter of the piece, or 0 for blank.
func (p Piece) Type() byte {
	if p == Empty {
		return 0
	}
	if p >= 'A' && p <= 'Z' {
		return byte(p) + ('a' - 'A')
	}
	return byte(p)
}

func (p Piece) String() string {
	return string(rune(p))
}

// PieceFor builds a token from a lowercase type letter and a color.
func PieceFor(letter byte, c Color) Piece {
	if c == White {
		return Piece(letter - ('a' - 'A'))
	}
	return Piece(letter)
}

// validPieceLetter reports whether b is one of the six type letters.
func validPieceLetter(b byte) bool {
	switch b {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}
