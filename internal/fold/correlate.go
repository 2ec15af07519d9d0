package fold

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// correlate computes the aggregate pairing score of every diagonal of
// the window's score surface via frequency-domain cross-correlation.
//
// Diagonal d holds all pairings (i, j) with i+j = d, the direction a
// helix grows in, so one correlation lag scores one complete helix
// diagonal. The forward indicator channel of each base class is
// correlated against the mirrored weighted complement channel of the
// same class and the per-class products are summed in the frequency
// domain, leaving a single inverse transform. Cost is O(n log n)
// against O(n^2) for scoring every (i, j) directly.
//
// The returned slice has 2n-1 entries, diag[d] for d in [0, 2n-2].
// Each diagonal sum counts ordered pairs, so (i, j) and (j, i) both
// contribute; brute-force comparisons must count the same way
func correlate(w *window) []float64 {
	n := w.len()
	if n == 0 {
		return nil
	}

	// zero-pad to avoid circular wrap-around
	m := padLen(2 * n)
	fft := fourier.NewFFT(m)

	fwd, mir := w.channels()

	a := make([]float64, m)
	b := make([]float64, m)
	acc := make([]complex128, m/2+1)
	for c := 0; c < baseCount; c++ {
		copy(a, fwd[c])
		zero(a[n:])
		copy(b, mir[c])
		zero(b[n:])

		fc := fft.Coefficients(nil, a)
		mc := fft.Coefficients(nil, b)

		// conj(F(fwd)) * F(mir) is the spectrum of the lagged
		// product sum over the pair (fwd, mir)
		for i := range acc {
			re, im := real(fc[i]), imag(fc[i])
			acc[i] += complex(re, -im) * mc[i]
		}
	}

	corr := fft.Sequence(nil, acc)
	scale := 1 / float64(m)

	// lag l of the correlation sums fwd[k]*mir[k+l]; the mirrored
	// index k+l maps back to window position n-1-k-l, so the lag
	// fixes i+j = n-1-l. Negative lags wrap to the top of the buffer
	diag := make([]float64, 2*n-1)
	for d := range diag {
		l := n - 1 - d
		if l < 0 {
			l += m
		}
		diag[d] = corr[l] * scale
	}
	return diag
}

// bruteDiagonals is the reference implementation of correlate: score
// every ordered (i, j) on every diagonal directly. O(n^2), used to
// validate the transform path
func bruteDiagonals(w *window) []float64 {
	n := w.len()
	if n == 0 {
		return nil
	}

	diag := make([]float64, 2*n-1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			diag[i+j] += w.scoreAt(i, j)
		}
	}
	return diag
}

// padLen returns the smallest power of two >= n. Power-of-two sizes
// keep the transform on its fastest path
func padLen(n int) int {
	m := 1
	for m < n {
		m <<= 1
	}
	return m
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
