package rules

import "strings"

// Status is the game status for the side to move.
type Status int

const (
	StatusNormal Status = iota
	StatusCheck
	StatusCheckmate
	StatusStalemate
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusCheck:
		return "check"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	}
	return "unknown"
}

// isAttacked reports whether sq is attacked by any piece of the given
// color. Viewer entries are candidates only; each is verified with a fresh
// trace so stale entries cost a wasted check, never a wrong answer.
func (g *Game) isAttacked(sq Square, by Color) bool {
	for k := range g.graph.viewers[sq] {
		origin := k.origin()
		p := g.board.piece(origin)
		if p.IsEmpty() || p.Color() != by {
			continue
		}
		for _, end := range g.attacks(origin, k.slot()) {
			if end == sq {
				return true
			}
		}
	}
	return false
}

// write is a single hypothetical board mutation.
type write struct {
	sq Square
	p  Piece
}

// kingSafeAfter applies the writes to the board store only (no graph
// update), reports whether kingSq is free of attack by the given color,
// and restores the board. Candidate attackers are the current viewers of
// the king square and of every written square: the writes are the only
// occupancy changes, so any ray newly opened or blocked passes through one
// of those squares, and its owner is registered there.
func (g *Game) kingSafeAfter(writes []write, kingSq Square, by Color) bool {
	saved := make([]Piece, len(writes))
	for i, w := range writes {
		saved[i] = g.board.piece(w.sq)
		g.board.set(w.sq, w.p)
	}

	safe := true
	checked := make(map[viewerKey]struct{})
	candidates := func(vsq Square) {
		for k := range g.graph.viewers[vsq] {
			if _, done := checked[k]; done {
				continue
			}
			checked[k] = struct{}{}
			p := g.board.piece(k.origin())
			if p.IsEmpty() || p.Color() != by {
				continue
			}
			for _, end := range g.attacks(k.origin(), k.slot()) {
				if end == kingSq {
					safe = false
					return
				}
			}
		}
	}

	candidates(kingSq)
	for _, w := range writes {
		if !safe {
			break
		}
		candidates(w.sq)
	}

	for i, w := range writes {
		g.board.set(w.sq, saved[i])
	}
	return safe
}

// castleSide describes one castling option.
type castleSide struct {
	right    byte // FEN rights letter
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	gap      Square   // square the king passes through
	empty    []Square // squares that must be empty between king and rook
}

var castleSides = map[Color][2]castleSide{
	White: {
		{right: 'K', kingFrom: 60, kingTo: 62, rookFrom: 63, rookTo: 61, gap: 61, empty: []Square{61, 62}},
		{right: 'Q', kingFrom: 60, kingTo: 58, rookFrom: 56, rookTo: 59, gap: 59, empty: []Square{57, 58, 59}},
	},
	Black: {
		{right: 'k', kingFrom: 4, kingTo: 6, rookFrom: 7, rookTo: 5, gap: 5, empty: []Square{5, 6}},
		{right: 'q', kingFrom: 4, kingTo: 2, rookFrom: 0, rookTo: 3, gap: 3, empty: []Square{1, 2, 3}},
	},
}

// canCastle tests the five castling conditions directly: rights flag
// present, king and rook on their original squares, the gap empty, and the
// king neither attacked where it stands, where it passes, nor where it
// lands.
func (g *Game) canCastle(c Color, side castleSide) bool {
	if !strings.ContainsRune(g.state.rights, rune(side.right)) {
		return false
	}
	if g.board.piece(side.kingFrom) != PieceFor(King, c) ||
		g.board.piece(side.rookFrom) != PieceFor(Rook, c) {
		return false
	}
	for _, sq := range side.empty {
		if !g.board.piece(sq).IsEmpty() {
			return false
		}
	}
	opp := c.Other()
	return !g.isAttacked(side.kingFrom, opp) &&
		!g.isAttacked(side.gap, opp) &&
		!g.isAttacked(side.kingTo, opp)
}

func (g *Game) refreshCastleEdges() {
	g.graph.castle = make(map[Square][]Square)
	for _, c := range []Color{White, Black} {
		for _, side := range castleSides[c] {
			if g.canCastle(c, side) {
				g.graph.castle[side.kingFrom] = append(g.graph.castle[side.kingFrom], side.kingTo)
			}
		}
	}
}

// promotionLetters lists the pieces a pawn may promote to, in the order
// promotion moves are enumerated.
var promotionLetters = []byte{'b', 'n', 'r', 'q'}

// allMoves returns the pseudo-legal superset for the given color: every
// current edge destination plus the available castling hops, with pawn
// moves onto the last rank fanned out into the four promotions. King
// safety is not consulted.
func (g *Game) allMoves(c Color, origins []Square) []Move {
	var out []Move
	for _, from := range origins {
		if g.board.owner(from) != c {
			continue
		}
		p := g.board.piece(from)
		for slot := 0; slot < 8; slot++ {
			for _, to := range g.graph.edges[from][slot] {
				if g.board.owner(to) == c {
					continue // defended square, not a destination
				}
				if p.Type() == Pawn && (to < 8 || to > 55) {
					for _, letter := range promotionLetters {
						out = append(out, Move{From: from, To: to, Promotion: letter})
					}
				} else {
					out = append(out, Move{From: from, To: to})
				}
			}
		}
		for _, to := range g.graph.castle[from] {
			out = append(out, Move{From: from, To: to})
		}
	}
	return out
}

// legalMoves filters the pseudo-legal moves down to those that leave the
// mover's own king unattacked.
func (g *Game) legalMoves(c Color, origins []Square) []Move {
	all := g.allMoves(c, origins)
	if !g.validate {
		return all
	}
	out := make([]Move, 0, len(all))
	for _, m := range all {
		if g.moveIsSafe(m, c) {
			out = append(out, m)
		}
	}
	return out
}

// moveIsSafe tests one move hypothetically: the mover lands on its
// destination, the origin clears, en-passant victims and castling rooks
// come along, and the mover's king must not end up attacked.
func (g *Game) moveIsSafe(m Move, c Color) bool {
	p := g.board.piece(m.From)
	placed := p
	if m.Promotion != 0 {
		placed = PieceFor(m.Promotion, c)
	}
	writes := []write{{m.From, Empty}, {m.To, placed}}

	if p.Type() == Pawn && m.To == g.state.epTarget && m.From.File() != m.To.File() {
		writes = append(writes, write{epCapturedSquare(m.To), Empty})
	}
	if p.Type() == King && abs(m.To.File()-m.From.File()) == 2 {
		for _, side := range castleSides[c] {
			if side.kingTo == m.To {
				writes = append(writes,
					write{side.rookFrom, Empty},
					write{side.rookTo, PieceFor(Rook, c)})
			}
		}
	}

	kingSq := m.To
	if p.Type() != King {
		kingSq = g.board.find(PieceFor(King, c))
	}
	if !kingSq.Valid() {
		return true // no king on the board, nothing to expose
	}
	return g.kingSafeAfter(writes, kingSq, c.Other())
}

// epCapturedSquare returns the square of the pawn captured en passant when
// a capture lands on the given target square.
func epCapturedSquare(target Square) Square {
	if target < 24 {
		return target + 8
	}
	return target - 8
}

// Status derives the game status for the side to move. Having no legal
// moves is authoritative: with the king attacked it is checkmate, with the
// king safe it is stalemate.
func (g *Game) Status() Status {
	c := g.state.active
	kingSq := g.board.find(PieceFor(King, c))
	attacked := kingSq.Valid() && g.isAttacked(kingSq, c.Other())
	hasMoves := len(g.LegalMoves()) > 0
	switch {
	case attacked && hasMoves:
		return StatusCheck
	case attacked:
		return StatusCheckmate
	case !hasMoves:
		return StatusStalemate
	}
	return StatusNormal
}
