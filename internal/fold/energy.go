package fold

import (
	"fmt"
	"math"
	"sync"
)

// Evaluator scores a structure against its sequence. Lower is more
// stable. An implementation may fail with an error wrapping
// ErrEnergyModel when its parameter set cannot score the structure;
// the search recovers by discarding that branch.
//
// Implementations must be safe for concurrent use: sibling branches
// evaluate their children in parallel
type Evaluator interface {
	Score(seq *Sequence, pairs PairTable) (float64, error)
}

// StackModel is the built-in thermodynamic stand-in: every stacked
// adjacent pair contributes the mean of the two pair weights as a
// stabilizing bonus, every closed hairpin loop costs a fixed penalty.
// It is not a substitute for a full nearest-neighbor parameter set but
// orders structures sensibly and keeps the engine usable stand-alone
type StackModel struct {
	Weights     Weights
	LoopPenalty float64
}

// Score implements Evaluator
func (m StackModel) Score(seq *Sequence, pairs PairTable) (float64, error) {
	if seq.Len() != len(pairs) {
		return 0, fmt.Errorf("%w: structure length %d does not match sequence length %d",
			ErrEnergyModel, len(pairs), seq.Len())
	}

	e := 0.0
	for i, j := range pairs {
		if j == unpaired || i > j {
			continue
		}

		w := m.Weights.pairWeight(seq.At(i), seq.At(j))
		if w <= 0 {
			// N or an illegal pair: outside the parameter set
			return 0, fmt.Errorf("%w: cannot score pair %s-%s at (%d, %d)",
				ErrEnergyModel, seq.At(i), seq.At(j), i, j)
		}

		// stacking bonus with the directly nested pair
		if i+1 < j-1 && pairs[i+1] == j-1 {
			inner := m.Weights.pairWeight(seq.At(i+1), seq.At(j-1))
			e -= (w + inner) / 2
		}

		// hairpin loop: nothing paired strictly inside
		if m.isHairpin(pairs, i, j) {
			e += m.LoopPenalty
		}
	}

	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0, fmt.Errorf("%w: non-finite energy", ErrEnergyModel)
	}
	return e, nil
}

func (m StackModel) isHairpin(pairs PairTable, i, j int) bool {
	for k := i + 1; k < j; k++ {
		if pairs[k] != unpaired {
			return false
		}
	}
	return true
}

// memoEvaluator caches scores by pair set. Sibling branches frequently
// re-derive energies for overlapping sub-structures, and the search
// evaluates children in parallel, so the cache is insert-if-absent
// behind a lock
type memoEvaluator struct {
	inner Evaluator

	mu    sync.Mutex
	cache map[string]memoEntry
}

type memoEntry struct {
	energy float64
	err    error
}

func newMemoEvaluator(inner Evaluator) *memoEvaluator {
	return &memoEvaluator{
		inner: inner,
		cache: make(map[string]memoEntry),
	}
}

// Score implements Evaluator
func (m *memoEvaluator) Score(seq *Sequence, pairs PairTable) (float64, error) {
	key := pairs.DotBracket()

	m.mu.Lock()
	entry, ok := m.cache[key]
	m.mu.Unlock()
	if ok {
		return entry.energy, entry.err
	}

	energy, err := m.inner.Score(seq, pairs)

	m.mu.Lock()
	m.cache[key] = memoEntry{energy: energy, err: err}
	m.mu.Unlock()

	return energy, err
}
