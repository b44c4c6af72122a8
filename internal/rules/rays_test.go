package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQueenCornerRays(t *testing.T) {
	// Queen on h8 can only head West, Southwest, and South.
	rs := rays('q', 7)

	want := map[int][]Square{
		slotEast:  nil,
		1:         nil, // NE
		slotNorth: nil,
		3:         nil, // NW
		slotWest:  {6, 5, 4, 3, 2, 1, 0},
		5:         {14, 21, 28, 35, 42, 49, 56}, // SW
		slotSouth: {15, 23, 31, 39, 47, 55, 63},
		7:         nil, // SE
	}

	for slot, squares := range want {
		if diff := cmp.Diff(squares, rs[slot]); diff != "" {
			t.Errorf("queen h8 slot %d mismatch (-want +got):\n%s", slot, diff)
		}
	}
}

func TestKnightLeapsFoldIntoSlots(t *testing.T) {
	// Knight on b1 reaches d2, c3 and a3, each leap in its own slot.
	rs := rays('n', 57)

	var got []Square
	for slot := 0; slot < 8; slot++ {
		if len(rs[slot]) > 1 {
			t.Errorf("knight slot %d has %d squares, leaps are single jumps", slot, len(rs[slot]))
		}
		got = append(got, rs[slot]...)
	}

	want := []Square{51, 42, 40} // d2, c3, a3
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("knight b1 targets mismatch (-want +got):\n%s", diff)
	}
}

func TestPawnRays(t *testing.T) {
	// White pawn on e2: single and double step forward, two diagonals.
	rs := rays('P', 52)
	if diff := cmp.Diff([]Square{44, 36}, rs[slotNorth]); diff != "" {
		t.Errorf("white pawn e2 forward slot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Square{45}, rs[1]); diff != "" {
		t.Errorf("white pawn e2 NE slot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Square{43}, rs[3]); diff != "" {
		t.Errorf("white pawn e2 NW slot (-want +got):\n%s", diff)
	}

	// Black pawn on e7 walks the other way.
	rs = rays('p', 12)
	if diff := cmp.Diff([]Square{20, 28}, rs[slotSouth]); diff != "" {
		t.Errorf("black pawn e7 forward slot (-want +got):\n%s", diff)
	}

	// No double step off the home rank.
	rs = rays('P', 44) // e3
	if diff := cmp.Diff([]Square{36}, rs[slotNorth]); diff != "" {
		t.Errorf("white pawn e3 forward slot (-want +got):\n%s", diff)
	}
}

func TestKingCastlingHops(t *testing.T) {
	rs := rays('K', 60)
	if diff := cmp.Diff([]Square{61, 62}, rs[slotEast]); diff != "" {
		t.Errorf("white king east slot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Square{59, 58}, rs[slotWest]); diff != "" {
		t.Errorf("white king west slot (-want +got):\n%s", diff)
	}

	rs = rays('k', 4)
	if diff := cmp.Diff([]Square{5, 6}, rs[slotEast]); diff != "" {
		t.Errorf("black king east slot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Square{3, 2}, rs[slotWest]); diff != "" {
		t.Errorf("black king west slot (-want +got):\n%s", diff)
	}

	// Kings off their original square carry no hop.
	rs = rays('K', 52)
	if len(rs[slotEast]) != 1 || len(rs[slotWest]) != 1 {
		t.Error("king off e1 should have single-step rays only")
	}
}

func TestRaysSortedNearestFirst(t *testing.T) {
	for _, p := range []Piece{'q', 'r', 'b'} {
		for sq := Square(0); sq < 64; sq++ {
			rs := rays(p, sq)
			for slot := 0; slot < 8; slot++ {
				prev := -1
				for _, end := range rs[slot] {
					d := abs(end.File()-sq.File()) + abs(end.Rank()-sq.Rank())
					if d <= prev {
						t.Fatalf("%c %s slot %d not sorted by distance", p, sq, slot)
					}
					prev = d
				}
			}
		}
	}
}
