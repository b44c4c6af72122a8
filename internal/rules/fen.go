package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultFEN is the standard chess starting position.
const DefaultFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN renders the current position as a 6-field FEN string.
func (g *Game) FEN() string {
	ep := "-"
	if g.state.epTarget != NoSquare {
		ep = g.state.epTarget.String()
	}
	return fmt.Sprintf("%s %c %s %s %d %d",
		g.board.placement(), g.state.active, g.state.rights, ep,
		g.state.halfmove, g.state.fullmove)
}

// loadFEN replaces the position wholesale from a FEN string and rebuilds
// the move graph. The board is only touched once the whole string parses,
// so a failed load leaves the game untouched.
func (g *Game) loadFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return fmt.Errorf("%w: %d fields, want 6", ErrInvalidPosition, len(fields))
	}

	var board boardStore
	if err := board.setPlacement(fields[0]); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPosition, err)
	}
	if board.find('K') == NoSquare || board.find('k') == NoSquare {
		return fmt.Errorf("%w: both kings must be on the board", ErrInvalidPosition)
	}

	var active Color
	switch fields[1] {
	case "w":
		active = White
	case "b":
		active = Black
	default:
		return fmt.Errorf("%w: invalid active color %q", ErrInvalidPosition, fields[1])
	}

	rights := fields[2]
	if rights != "-" {
		for i := 0; i < len(rights); i++ {
			if !strings.ContainsRune("KQkq", rune(rights[i])) {
				return fmt.Errorf("%w: invalid castling rights %q", ErrInvalidPosition, rights)
			}
		}
	}

	epTarget := NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		// Double steps only ever land a target on rank 3 or 6.
		if err != nil || (sq.Rank() != 3 && sq.Rank() != 6) {
			return fmt.Errorf("%w: invalid en-passant target %q", ErrInvalidPosition, fields[3])
		}
		epTarget = sq
	}

	halfmove, err := strconv.Atoi(fields[4])
	if err != nil || halfmove < 0 {
		return fmt.Errorf("%w: invalid half-move clock %q", ErrInvalidPosition, fields[4])
	}
	fullmove, err := strconv.Atoi(fields[5])
	if err != nil || fullmove < 1 {
		return fmt.Errorf("%w: invalid full-move number %q", ErrInvalidPosition, fields[5])
	}

	g.board = board
	g.state = gameState{
		active:   active,
		rights:   rights,
		epTarget: epTarget,
		halfmove: halfmove,
		fullmove: fullmove,
	}
	g.rebuildGraph()
	return nil
}
