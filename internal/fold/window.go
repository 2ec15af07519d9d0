package fold

// window is a view of the encoded sequence restricted to the unpaired
// positions the recursion is currently allowed to pair. A window is a
// list of parent sequence indices: usually one contiguous run, but the
// exterior remainder left around a committed helix is the right flank
// concatenated with the left flank, so pairs enclosing the helix stay
// reachable. Positions adjacent in the window but not consecutive in
// the parent form a junction; helix runs never extend across one
type window struct {
	enc *Encoding

	// parent sequence index of every window position, in window order
	parent []int
}

// wholeWindow returns the window covering the full sequence
func wholeWindow(enc *Encoding) *window {
	parent := make([]int, enc.seq.Len())
	for i := range parent {
		parent[i] = i
	}
	return &window{enc: enc, parent: parent}
}

// len returns the number of positions in the window
func (w *window) len() int {
	return len(w.parent)
}

// base returns the base at window position i
func (w *window) base(i int) Base {
	return w.enc.seq.At(w.parent[i])
}

// scoreAt returns the exact pairing score of window positions i and j:
// the weight of the base pair class they would form, or 0
func (w *window) scoreAt(i, j int) float64 {
	return w.enc.weights.pairWeight(w.base(i), w.base(j))
}

// contiguous reports whether window positions i and i+1 are consecutive
// in the parent sequence
func (w *window) contiguous(i int) bool {
	return w.parent[i+1] == w.parent[i]+1
}

// channels returns the forward indicator channels and the reversed
// weighted complement channels of the window, the inputs to the
// frequency-domain correlation
func (w *window) channels() (fwd, mir [baseCount][]float64) {
	n := w.len()
	for c := 0; c < baseCount; c++ {
		fwd[c] = make([]float64, n)
		mir[c] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		b := w.base(i)
		if b != BaseN {
			fwd[b][i] = 1
		}

		// mirrored channel k corresponds to window position n-1-k
		r := w.base(n - 1 - i)
		for c := Base(0); c < baseCount; c++ {
			mir[c][i] = w.enc.mirrorWeight(c, r)
		}
	}
	return fwd, mir
}

// split partitions the window around a committed helix whose outermost
// pair sits at window positions (i, j) and which is length pairs deep.
// It returns the enclosed loop window and the exterior remainder window
// (right flank concatenated with left flank). Either may be nil when
// too small to ever hold another helix
func (w *window) split(i, j, length, minHelix int) (inner, outer *window) {
	// smallest window that can still host one helix. A helix enclosing
	// a junction needs no loop gap of its own, so only the pair
	// positions count
	usable := 2 * minHelix

	if in := w.parent[i+length : j-length+1]; len(in) >= usable {
		inner = &window{enc: w.enc, parent: in}
	}

	rest := make([]int, 0, len(w.parent)-(j-i+1))
	rest = append(rest, w.parent[j+1:]...)
	rest = append(rest, w.parent[:i]...)
	if len(rest) >= usable {
		outer = &window{enc: w.enc, parent: rest}
	}
	return inner, outer
}
