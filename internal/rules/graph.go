package rules

// The move graph is the dynamic half of move generation. For every occupied
// square it keeps, per direction slot, the current edge: the prefix of the
// static ray truncated at the first occupied square, with the pawn- and
// king-specific exceptions applied. A reverse viewer index maps each square
// to the set of (origin, slot) pairs whose ray currently reaches it, so
// check-safety queries never have to scan the whole board.
//
// The viewer index is a candidate filter, never an authority. Entries may
// be stale after an edge shrinks; every consumer re-verifies a candidate
// with a fresh trace before trusting it. Staleness only costs harmless
// extra verification, never a missed attacker: registration always covers
// the full geometric visibility of a piece, which is a superset of its
// movement edge.

// viewerKey packs an (origin square, direction slot) pair.
type viewerKey uint16

func makeKey(origin Square, slot int) viewerKey {
	return viewerKey(int(origin)<<3 | slot)
}

func (k viewerKey) origin() Square { return Square(k >> 3) }
func (k viewerKey) slot() int      { return int(k & 7) }

type moveGraph struct {
	// edges holds the movement destinations per origin and slot.
	edges [64][8][]Square
	// seen holds the geometric visibility per origin and slot; it is what
	// gets registered in (and unregistered from) the viewer index. For
	// pawns it is wider than edges: diagonals are always visible, the
	// blocked forward square stays visible.
	seen    [64][8][]Square
	viewers [64]map[viewerKey]struct{}
	// castle maps a king's square to its currently available castling
	// destinations. Rebuilt every update pass from rights, occupancy and
	// safety; never tracked through the viewer index.
	castle map[Square][]Square
	// epWatch lists pawn rays that currently end on the en-passant target;
	// they are re-traced on the next update pass so the transient
	// reachability is re-derived fresh rather than cached.
	epWatch []viewerKey
}

func newMoveGraph() moveGraph {
	var g moveGraph
	for i := range g.viewers {
		g.viewers[i] = make(map[viewerKey]struct{})
	}
	g.castle = make(map[Square][]Square)
	return g
}

// visible returns the squares geometrically visible from sq along slot: the
// ray prefix up to and including the first occupied square. Castling hops
// are resolved outside generic tracing and skipped here.
func (g *Game) visible(sq Square, slot int) []Square {
	p := g.board.piece(sq)
	if p.IsEmpty() {
		return nil
	}
	var out []Square
	for _, end := range rays(p, sq)[slot] {
		if p.Type() == King && abs(end.File()-sq.File()) == 2 {
			continue
		}
		out = append(out, end)
		if !g.board.piece(end).IsEmpty() {
			break
		}
	}
	return out
}

// trace returns the current movement edge from sq along slot: the visible
// squares filtered by the per-piece exceptions. Pawns cannot capture
// forward, and their diagonals require an enemy occupant or the en-passant
// target. A friendly occupant ends the edge but stays in it; legal-move
// enumeration filters it out.
func (g *Game) trace(sq Square, slot int) []Square {
	p := g.board.piece(sq)
	if p.IsEmpty() {
		return nil
	}
	vis := g.visible(sq, slot)
	if p.Type() != Pawn {
		return vis
	}
	var out []Square
	for _, end := range vis {
		tgt := g.board.piece(end)
		if end.File() == sq.File() {
			if !tgt.IsEmpty() {
				continue // pawns cannot capture forward
			}
			out = append(out, end)
		} else if tgt.Color() == p.Color().Other() || end == g.state.epTarget {
			out = append(out, end)
		}
	}
	return out
}

// attacks returns the squares the piece on sq currently attacks along slot.
// It differs from trace only for pawns: the forward slot never attacks, the
// diagonals always do, occupied or not.
func (g *Game) attacks(sq Square, slot int) []Square {
	p := g.board.piece(sq)
	if p.Type() == Pawn && (slot == slotNorth || slot == slotSouth) {
		return nil
	}
	return g.visible(sq, slot)
}

// retrace recomputes one (origin, slot) edge from the current board and
// registers it in the viewer index. Stale entries from a previous, longer
// edge are left behind on purpose; consumers filter them lazily.
func (g *Game) retrace(k viewerKey) {
	origin, slot := k.origin(), k.slot()
	seen := g.visible(origin, slot)
	edge := g.trace(origin, slot)
	g.graph.seen[origin][slot] = seen
	g.graph.edges[origin][slot] = edge
	for _, end := range seen {
		g.graph.viewers[end][k] = struct{}{}
	}
	if g.state.epTarget != NoSquare && g.board.piece(origin).Type() == Pawn &&
		len(edge) > 0 && edge[len(edge)-1] == g.state.epTarget {
		g.graph.epWatch = append(g.graph.epWatch, k)
	}
}

// updateGraph incrementally repairs edges and the viewer index after the
// given squares changed occupants, then refreshes the castling edges. The
// work set holds (origin, slot) pairs; re-insertion is idempotent and
// processing order does not matter.
func (g *Game) updateGraph(changed ...Square) {
	work := make(map[viewerKey]struct{})

	for _, k := range g.graph.epWatch {
		work[k] = struct{}{}
	}
	g.graph.epWatch = g.graph.epWatch[:0]

	for _, sq := range changed {
		for slot := 0; slot < 8; slot++ {
			k := makeKey(sq, slot)
			for _, end := range g.graph.seen[sq][slot] {
				delete(g.graph.viewers[end], k)
			}
			g.graph.seen[sq][slot] = nil
			g.graph.edges[sq][slot] = nil
			work[k] = struct{}{}
		}
		// anything that saw this square may now be blocked earlier, or
		// reach further
		for k := range g.graph.viewers[sq] {
			work[k] = struct{}{}
		}
	}

	for k := range work {
		g.retrace(k)
	}

	g.refreshCastleEdges()
}

// rebuildGraph recomputes the whole graph from scratch. Used on position
// load and undo, where incremental repair buys nothing.
func (g *Game) rebuildGraph() {
	g.graph = newMoveGraph()
	for sq := Square(0); sq < 64; sq++ {
		if g.board.piece(sq).IsEmpty() {
			continue
		}
		for slot := 0; slot < 8; slot++ {
			g.retrace(makeKey(sq, slot))
		}
	}
	g.refreshCastleEdges()
}
