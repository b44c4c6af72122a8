package rules

// The direction table is the static backbone of move generation: for every
// square and piece token it holds the ordered list of squares reachable in
// each of 8 direction slots on an otherwise empty board. The 8 knight leaps
// are folded onto the same 8 slots as the sliding directions, so every piece
// addresses exactly 8 slots. Each list is sorted nearest-first; edge tracing
// depends on that ordering to stop at the first occupied square.
//
// The table is computed once at package init and never mutated.

// directions holds the 16 (Δfile, Δrank) vectors: 8 sliding directions
// (E, NE, N, NW, W, SW, S, SE) followed by the 8 knight leaps. Index i maps
// to slot i%8.
var directions = [16][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{2, 1}, {1, 2}, {-1, 2}, {-2, 1},
	{-2, -1}, {-1, -2}, {1, -2}, {2, -1},
}

// Slot indices for the directions used outside generic tracing.
const (
	slotEast  = 0
	slotNorth = 2
	slotWest  = 4
	slotSouth = 6
)

type squareRays [64][8][]Square

var rayTable = buildRayTable()

// pieceReach reports whether a piece token may step by (dx files, dy ranks)
// from a square on rank y, ignoring occupancy. Pawn reach depends on color;
// every other token reaches the same squares as its lowercase twin.
func pieceReach(p Piece, y, dx, dy int) bool {
	switch p {
	case 'P':
		return y > 1 && abs(dx) <= 1 && dy == 1
	case 'p':
		return y < 8 && abs(dx) <= 1 && dy == -1
	}
	switch p.Type() {
	case King:
		return abs(dx) <= 1 && abs(dy) <= 1
	case Queen:
		return dx == 0 || dy == 0 || abs(dx) == abs(dy)
	case Rook:
		return dx == 0 || dy == 0
	case Bishop:
		return abs(dx) == abs(dy)
	case Knight:
		return abs(dx) >= 1 && abs(dy) >= 1 && abs(dx)+abs(dy) == 3
	}
	return false
}

func buildRayTable() map[Piece]*squareRays {
	tokens := []Piece{'k', 'q', 'r', 'b', 'n', 'p', 'K', 'Q', 'R', 'B', 'N', 'P'}

	table := make(map[Piece]*squareRays, len(tokens))
	for _, p := range tokens {
		rs := new(squareRays)
		for sq := Square(0); sq < 64; sq++ {
			file, rank := sq.File(), sq.Rank()
			for di, d := range directions {
				slot := di % 8
				f, r := file+d[0], rank+d[1]
				for f >= 0 && f < 8 && r >= 1 && r <= 8 {
					if pieceReach(p, rank, f-file, r-rank) {
						rs[sq][slot] = append(rs[sq][slot], NewSquare(f, r))
					}
					if di >= 8 {
						break // leaps are single jumps, not walks
					}
					f, r = f+d[0], r+d[1]
				}
			}
		}
		table[p] = rs
	}

	// Castling hops for kings on their original squares, appended after the
	// single step in the same slot so the nearest-first ordering holds.
	table['k'][4][slotEast] = append(table['k'][4][slotEast], 6)
	table['k'][4][slotWest] = append(table['k'][4][slotWest], 2)
	table['K'][60][slotEast] = append(table['K'][60][slotEast], 62)
	table['K'][60][slotWest] = append(table['K'][60][slotWest], 58)

	// Pawn double steps from the home rank, appended to the forward slot.
	for i := Square(0); i < 8; i++ {
		table['p'][8+i][slotSouth] = append(table['p'][8+i][slotSouth], 24+i)
		table['P'][48+i][slotNorth] = append(table['P'][48+i][slotNorth], 32+i)
	}

	return table
}

var noRays [8][]Square

// rays returns the empty-board reach of piece p from sq, one ordered list
// per direction slot.
func rays(p Piece, sq Square) *[8][]Square {
	rs, ok := rayTable[p]
	if !ok {
		return &noRays
	}
	return &rs[sq]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
