package fold

import "sort"

// surface is the pairing score surface of one window: the per-diagonal
// aggregate scores from the correlation, used to rank diagonals, plus
// exact per-(i, j) scores read straight off the encoding. Read-only
// once built
type surface struct {
	win  *window
	diag []float64
}

// newSurface runs the pairing-score engine on the window
func newSurface(win *window) *surface {
	return &surface{
		win:  win,
		diag: correlate(win),
	}
}

// topDiagonals returns the indices of the up-to-max highest scoring
// diagonals, ties broken toward the lower diagonal index. Diagonals
// with no pairing signal are dropped
func (s *surface) topDiagonals(max int) []int {
	order := make([]int, 0, len(s.diag))
	for d, score := range s.diag {
		if score > 0 {
			order = append(order, d)
		}
	}

	sort.Slice(order, func(a, b int) bool {
		da, db := order[a], order[b]
		if s.diag[da] != s.diag[db] {
			return s.diag[da] > s.diag[db]
		}
		return da < db
	})

	if max > 0 && len(order) > max {
		order = order[:max]
	}
	return order
}
