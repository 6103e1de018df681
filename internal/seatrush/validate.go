package seatrush

import (
	"fmt"
	"sort"
)

// Reason codes surfaced with a cart verdict.
const (
	ReasonValid       = "valid"
	ReasonNotAdjacent = "not-adjacent"
)

// ReasonNeedsCount is the reason code for a count mismatch; it carries the
// target so the UI can render "Need N tickets".
func ReasonNeedsCount(target int) string {
	return fmt.Sprintf("needs-more:%d", target)
}

// Verdict is the validation result for the current cart.
type Verdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// GridPos is a seat's position in the current display grid, recomputed from
// its creation-order index and the current column count. The grid reflows
// responsively, so adjacency must be judged against what the player sees,
// not the generation-time row/col.
type GridPos struct {
	Row int
	Col int
}

// DisplayPositions maps cart items onto current display positions. Items
// whose seat id is unknown are skipped.
func (m *Market) DisplayPositions(items []CartItem, columns int) []GridPos {
	positions := make([]GridPos, 0, len(items))
	for _, item := range items {
		for idx, seat := range m.seats {
			if seat.ID == item.SeatID {
				positions = append(positions, GridPos{Row: idx / columns, Col: idx % columns})
				break
			}
		}
	}
	return positions
}

// Adjacent reports whether the selection forms a permitted block. Empty
// selections are invalid; a single seat is trivially adjacent. Up to three
// seats must sit consecutively in one row. Four or more seats may instead
// span two consecutive rows when each row holds a consecutive run of at
// least two seats and the runs share a column. More than two rows is never
// allowed.
func Adjacent(positions []GridPos) bool {
	if len(positions) == 0 {
		return false
	}
	if len(positions) == 1 {
		return true
	}

	byRow := make(map[int][]int)
	for _, p := range positions {
		byRow[p.Row] = append(byRow[p.Row], p.Col)
	}
	rows := make([]int, 0, len(byRow))
	for row := range byRow {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	if len(positions) <= 3 {
		return len(rows) == 1 && consecutive(byRow[rows[0]])
	}

	switch len(rows) {
	case 1:
		return consecutive(byRow[rows[0]])
	case 2:
		if rows[1]-rows[0] != 1 {
			return false
		}
		top, bottom := byRow[rows[0]], byRow[rows[1]]
		if len(top) < 2 || len(bottom) < 2 {
			return false
		}
		if !consecutive(top) || !consecutive(bottom) {
			return false
		}
		return overlaps(top, bottom)
	default:
		return false
	}
}

// consecutive reports whether the columns, sorted, are pairwise adjacent.
func consecutive(cols []int) bool {
	sorted := append([]int(nil), cols...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] != 1 {
			return false
		}
	}
	return true
}

// overlaps reports whether the two runs share at least one column.
func overlaps(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// CountMatches reports whether the selection size hits the target.
func CountMatches(items []CartItem, target int) bool {
	return len(items) == target
}

// Evaluate combines both predicates into the verdict the UI renders. The
// count check wins ties so the reason always names the next actionable fix.
func Evaluate(positions []GridPos, items []CartItem, target int) Verdict {
	if !CountMatches(items, target) {
		return Verdict{Reason: ReasonNeedsCount(target)}
	}
	if !Adjacent(positions) {
		return Verdict{Reason: ReasonNotAdjacent}
	}
	return Verdict{Valid: true, Reason: ReasonValid}
}
