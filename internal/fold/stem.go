package fold

import "sort"

// helix is a maximal run of consecutive nested pairs found on one
// diagonal of a score surface. Coordinates are window positions of the
// outermost pair; the k-th pair of the run is (i+k, j-k)
type helix struct {
	i, j   int
	length int

	// cumulative pairing score of the run
	score float64
}

// pairGap returns the number of positions between the two sides of the
// innermost pair, measured on the parent sequence. For a pair that
// encloses a window junction the gap spans the already-committed helix
// and is therefore always large enough
func pairGap(w *window, i, j int) int {
	p, q := w.parent[i], w.parent[j]
	if p > q {
		p, q = q, p
	}
	return q - p - 1
}

// findHelices extracts the ranked helix candidates of a score surface.
//
// Only the top-ranked diagonals (up to maxLags of them) are walked.
// Along a diagonal, runs grow in the nested (i+1, j-1) direction while
// the pair score stays positive, both sides remain consecutive on the
// parent sequence, and the enclosed gap stays at or above minLoop.
// Runs shorter than minHelix are discarded.
//
// Ranking is by cumulative score, ties broken toward the lower left
// window index, then toward the longer run, then toward the lower
// right index, so extraction order is deterministic
func findHelices(s *surface, minHelix, minLoop, maxLags int) []helix {
	w := s.win
	n := w.len()

	var helices []helix
	for _, d := range s.topDiagonals(maxLags) {
		// first valid outermost position on this diagonal
		i := 0
		if d >= n {
			i = d - n + 1
		}

		for j := d - i; i < j; {
			// skip until a run can start
			if w.scoreAt(i, j) <= 0 || pairGap(w, i, j) < minLoop {
				i++
				j--
				continue
			}

			run := helix{i: i, j: j}
			for i < j && w.scoreAt(i, j) > 0 && pairGap(w, i, j) >= minLoop {
				run.length++
				run.score += w.scoreAt(i, j)

				// the next nested pair must continue both
				// strands without crossing a junction
				if i+1 >= j-1 || !w.contiguous(i) || !w.contiguous(j-1) {
					i++
					j--
					break
				}
				i++
				j--
			}

			if run.length >= minHelix {
				helices = append(helices, run)
			}
		}
	}

	sort.Slice(helices, func(a, b int) bool {
		ha, hb := helices[a], helices[b]
		if ha.score != hb.score {
			return ha.score > hb.score
		}
		if ha.i != hb.i {
			return ha.i < hb.i
		}
		if ha.length != hb.length {
			return ha.length > hb.length
		}
		return ha.j < hb.j
	})
	return helices
}
