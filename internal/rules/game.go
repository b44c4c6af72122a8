package rules

import (
	"fmt"
	"strings"
)

// gameState is the non-placement half of a position: side to move, castling
// rights, en-passant target, half-move clock and full-move number.
type gameState struct {
	active   Color
	rights   string // subset of "KQkq" in FEN order, or "-"
	epTarget Square
	halfmove int
	fullmove int
}

// Game owns one chess game: board store, game state, the derived move
// graph, and the move/position history. Every instance owns its state
// outright; nothing is shared between instances. A Game is not safe for
// concurrent mutation; callers wanting shared access must serialize it.
type Game struct {
	board    boardStore
	state    gameState
	graph    moveGraph
	moveLog  []string
	fenLog   []string
	validate bool
}

// Option configures a new Game.
type Option func(*Game)

// WithoutValidation disables legality filtering: LegalMoves returns the
// pseudo-legal superset and ApplyMove applies move text without a
// membership check. Intended for tooling that replays known-good games.
func WithoutValidation() Option {
	return func(g *Game) { g.validate = false }
}

// NewGame returns a game at the standard starting position.
func NewGame(opts ...Option) *Game {
	g, err := NewGameFromFEN(DefaultFEN, opts...)
	if err != nil {
		panic(err) // DefaultFEN is a constant known-good position
	}
	return g
}

// NewGameFromFEN returns a game at the given position.
func NewGameFromFEN(fen string, opts ...Option) (*Game, error) {
	g := &Game{
		board:    newBoardStore(),
		graph:    newMoveGraph(),
		validate: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.Reset(fen); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset clears the history and loads the given position; an empty string
// loads the standard starting position.
func (g *Game) Reset(fen string) error {
	if fen == "" {
		fen = DefaultFEN
	}
	if err := g.loadFEN(fen); err != nil {
		return err
	}
	g.moveLog = nil
	g.fenLog = []string{g.FEN()}
	return nil
}

// Turn returns the color to move.
func (g *Game) Turn() Color {
	return g.state.active
}

// LegalMoves returns every legal move for the side to move.
func (g *Game) LegalMoves() []Move {
	return g.legalMoves(g.state.active, allSquares)
}

// LegalMovesFrom returns the legal moves for the side to move restricted
// to the given origin squares.
func (g *Game) LegalMovesFrom(origins ...Square) []Move {
	return g.legalMoves(g.state.active, origins)
}

// AllMoves returns the pseudo-legal superset for the side to move,
// including moves that would expose the mover's own king.
func (g *Game) AllMoves() []Move {
	return g.allMoves(g.state.active, allSquares)
}

// Find returns the first square holding the given token, or NoSquare.
func (g *Game) Find(p Piece) Square {
	return g.board.find(p)
}

// FindAll returns every square holding the given token.
func (g *Game) FindAll(p Piece) []Square {
	return g.board.findAll(p)
}

// Piece returns the token on the given square.
func (g *Game) Piece(sq Square) Piece {
	return g.board.piece(sq)
}

// MoveHistory returns the moves applied so far, oldest first.
func (g *Game) MoveHistory() []string {
	out := make([]string, len(g.moveLog))
	copy(out, g.moveLog)
	return out
}

// PositionHistory returns every position reached, starting position first.
func (g *Game) PositionHistory() []string {
	out := make([]string, len(g.fenLog))
	copy(out, g.fenLog)
	return out
}

// rightsVoidedBy maps a square to the castling rights voided by any move
// starting or ending there, regardless of which piece moves.
var rightsVoidedBy = map[Square]string{
	0: "q", 4: "kq", 7: "k",
	56: "Q", 60: "KQ", 63: "K",
}

// ApplyMove validates the move text against the current legal moves and
// applies it: board mutation, castling rook relocation, en-passant capture
// removal, rights/en-passant/clock bookkeeping, graph update, and history
// append. On error nothing is mutated.
func (g *Game) ApplyMove(moveText string) error {
	m, err := ParseMove(moveText)
	if err != nil {
		return fmt.Errorf("%w (position %s)", err, g.FEN())
	}

	p := g.board.piece(m.From)
	target := g.board.piece(m.To)

	if g.validate {
		legal := false
		for _, lm := range g.legalMoves(g.state.active, []Square{m.From}) {
			if lm == m {
				legal = true
				break
			}
		}
		if !legal {
			return fmt.Errorf("%w: %s (position %s)", ErrInvalidMove, m, g.FEN())
		}
	}

	st := g.state
	next := gameState{
		active:   st.active.Other(),
		rights:   st.rights,
		epTarget: NoSquare,
		halfmove: st.halfmove + 1,
		fullmove: st.fullmove,
	}

	// Rights voided by the squares involved, not by the piece moving:
	// capturing a rook on its corner voids that side exactly like moving it.
	if void := rightsVoidedBy[m.From] + rightsVoidedBy[m.To]; void != "" && st.rights != "-" {
		kept := make([]byte, 0, len(st.rights))
		for i := 0; i < len(st.rights); i++ {
			if !strings.ContainsRune(void, rune(st.rights[i])) {
				kept = append(kept, st.rights[i])
			}
		}
		next.rights = string(kept)
		if next.rights == "" {
			next.rights = "-"
		}
	}

	if p.Type() == Pawn && abs(int(m.To-m.From)) == 16 {
		next.epTarget = (m.From + m.To) / 2
	}
	if p.Type() == Pawn || !target.IsEmpty() {
		next.halfmove = 0
	}
	if st.active == Black {
		next.fullmove++
	}

	placed := p
	if m.Promotion != 0 {
		placed = PieceFor(m.Promotion, st.active)
	}

	changed := []Square{m.From, m.To}
	g.board.set(m.From, Empty)
	g.board.set(m.To, placed)

	// Castling: the king's two-file hop brings the rook across.
	if p.Type() == King && abs(m.To.File()-m.From.File()) == 2 {
		for _, side := range castleSides[st.active] {
			if side.kingTo == m.To {
				g.board.set(side.rookFrom, Empty)
				g.board.set(side.rookTo, PieceFor(Rook, st.active))
				changed = append(changed, side.rookFrom, side.rookTo)
			}
		}
	}

	// En passant: the captured pawn is not on the target square.
	if p.Type() == Pawn && m.To == st.epTarget && target.IsEmpty() && m.From.File() != m.To.File() {
		captured := epCapturedSquare(m.To)
		g.board.set(captured, Empty)
		changed = append(changed, captured)
	}

	// Pawn diagonals onto an en-passant target depend on game state, not
	// occupancy, so the old and new target squares count as touched.
	if st.epTarget != NoSquare {
		changed = append(changed, st.epTarget)
	}
	if next.epTarget != NoSquare {
		changed = append(changed, next.epTarget)
	}

	g.state = next
	g.updateGraph(changed...)

	g.moveLog = append(g.moveLog, m.String())
	g.fenLog = append(g.fenLog, g.FEN())
	return nil
}

// Undo pops the last move and restores the prior position wholesale, with
// a full graph rebuild. Undo is rare; simplicity beats efficiency here.
func (g *Game) Undo() error {
	if len(g.moveLog) == 0 {
		return fmt.Errorf("%w: no moves to undo", ErrInvalidMove)
	}
	g.moveLog = g.moveLog[:len(g.moveLog)-1]
	g.fenLog = g.fenLog[:len(g.fenLog)-1]
	return g.loadFEN(g.fenLog[len(g.fenLog)-1])
}

// allSquares is the default origin filter: the whole board.
var allSquares = func() []Square {
	out := make([]Square, 64)
	for i := range out {
		out[i] = Square(i)
	}
	return out
}()
