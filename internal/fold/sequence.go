// Package fold predicts RNA secondary structure and approximate folding
// pathways from a nucleotide sequence. Candidate helices are found with a
// frequency-domain correlation over the whole sequence at once, then grown
// into a tree of increasingly complete structures ranked by free energy.
package fold

import (
	"errors"
	"fmt"
	"strings"
)

// Errors surfaced by sequence parsing and the engine entry points.
var (
	// ErrInvalidSymbol is returned when a sequence contains a character
	// outside the recognized RNA alphabet
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrEmptySequence is returned when a zero-length sequence is parsed
	ErrEmptySequence = errors.New("empty sequence")

	// ErrConfiguration is returned when the search settings cannot
	// apply to the given sequence
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEnergyModel is returned by an Evaluator that cannot score a
	// structure. It is recovered per-branch, never fatal to a search
	ErrEnergyModel = errors.New("energy model failure")

	// ErrEngineExhausted is returned alongside the fallback unpaired
	// structure when energy evaluation failed on every branch
	ErrEngineExhausted = errors.New("engine exhausted")
)

// Base is a single typed nucleotide
type Base int8

// the recognized alphabet. N is a tolerated wildcard that never pairs
const (
	BaseA Base = iota
	BaseC
	BaseG
	BaseU
	BaseN

	baseCount = 4 // indicator channels, N is all zeros
)

// String returns the single letter code of the base
func (b Base) String() string {
	return [...]string{"A", "C", "G", "U", "N"}[b]
}

// Sequence is an immutable, typed RNA sequence. Every other entity in the
// engine references it by index range, never by copy
type Sequence struct {
	raw   string
	bases []Base
}

// NewSequence parses a raw symbol string into a typed Sequence.
// T is tolerated and read as U, lowercase is tolerated, N is kept as a
// wildcard. Any other symbol fails with ErrInvalidSymbol
func NewSequence(raw string) (*Sequence, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if len(raw) == 0 {
		return nil, ErrEmptySequence
	}

	bases := make([]Base, len(raw))
	for i, c := range raw {
		switch c {
		case 'A':
			bases[i] = BaseA
		case 'C':
			bases[i] = BaseC
		case 'G':
			bases[i] = BaseG
		case 'U', 'T':
			bases[i] = BaseU
		case 'N':
			bases[i] = BaseN
		default:
			return nil, fmt.Errorf("%w: %q at index %d", ErrInvalidSymbol, string(c), i)
		}
	}

	return &Sequence{raw: raw, bases: bases}, nil
}

// Len returns the number of nucleotides in the sequence
func (s *Sequence) Len() int {
	return len(s.bases)
}

// At returns the base at index i
func (s *Sequence) At(i int) Base {
	return s.bases[i]
}

// String returns the sequence as it was parsed (uppercased, T as U kept
// in its original spelling)
func (s *Sequence) String() string {
	return s.raw
}

// Weights are the relative strengths of the legal base pair classes,
// stored in the mirrored complementarity encoding
type Weights struct {
	AU float64
	GC float64
	GU float64
}

// pairWeight returns the complementarity weight of pairing base a with
// base b: the AU/GC/GU class weight, or 0 for an illegal pair
func (w Weights) pairWeight(a, b Base) float64 {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == BaseA && b == BaseU:
		return w.AU
	case a == BaseC && b == BaseG:
		return w.GC
	case a == BaseG && b == BaseU:
		return w.GU
	}
	return 0
}

// Encoding is the per-class complementarity encoding of a Sequence:
// a forward 0/1 indicator channel per base class, and a reversed
// channel per class holding the weight of pairing that class with the
// base found there. Correlating forward against mirrored channels
// scores every pairing diagonal at once. Derived once, read-only
type Encoding struct {
	seq     *Sequence
	weights Weights
}

// NewEncoding derives the complementarity encoding of seq under the
// given base pair weights
func NewEncoding(seq *Sequence, weights Weights) *Encoding {
	return &Encoding{seq: seq, weights: weights}
}

// Seq returns the encoded sequence
func (e *Encoding) Seq() *Sequence {
	return e.seq
}

// mirrorWeight returns the weight of pairing class c with base b:
// the entry of the mirrored alphabet for b at channel c
func (e *Encoding) mirrorWeight(c Base, b Base) float64 {
	return e.weights.pairWeight(c, b)
}
