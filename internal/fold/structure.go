package fold

import (
	"fmt"
	"strings"
)

// unpaired marks a position with no partner in a PairTable
const unpaired = -1

// PairTable is a secondary structure over a Sequence: for every
// position, the index of its partner or unpaired. A valid table is
// symmetric, involves every position at most once, and holds no two
// crossing pairs
type PairTable []int

// newPairTable returns the fully unpaired structure of length n
func newPairTable(n int) PairTable {
	p := make(PairTable, n)
	for i := range p {
		p[i] = unpaired
	}
	return p
}

// clone returns an independent copy of the table
func (p PairTable) clone() PairTable {
	q := make(PairTable, len(p))
	copy(q, p)
	return q
}

// insert records the pair (i, j). Order of the arguments is irrelevant
func (p PairTable) insert(i, j int) {
	if i > j {
		i, j = j, i
	}
	p[i] = j
	p[j] = i
}

// Pairs returns the (i, j) pairs of the structure with i < j, in
// increasing i order
func (p PairTable) Pairs() [][2]int {
	var pairs [][2]int
	for i, j := range p {
		if j != unpaired && i < j {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

// NumPairs returns the number of base pairs in the structure
func (p PairTable) NumPairs() int {
	n := 0
	for i, j := range p {
		if j != unpaired && i < j {
			n++
		}
	}
	return n
}

// DotBracket serializes the structure to dot-bracket notation: one
// character per position, "." for unpaired and "("/")" for the two
// sides of a pair, nesting mirroring the pair set exactly
func (p PairTable) DotBracket() string {
	var b strings.Builder
	b.Grow(len(p))
	for i, j := range p {
		switch {
		case j == unpaired:
			b.WriteByte('.')
		case i < j:
			b.WriteByte('(')
		default:
			b.WriteByte(')')
		}
	}
	return b.String()
}

// ParseDotBracket parses dot-bracket notation back into a PairTable.
// Fails on unbalanced or unrecognized characters
func ParseDotBracket(s string) (PairTable, error) {
	p := newPairTable(len(s))
	var stack []int
	for i, c := range s {
		switch c {
		case '.':
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced %q at index %d", ")", i)
			}
			p.insert(stack[len(stack)-1], i)
			stack = stack[:len(stack)-1]
		default:
			return nil, fmt.Errorf("unrecognized %q at index %d", string(c), i)
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unbalanced %q at index %d", "(", stack[len(stack)-1])
	}
	return p, nil
}

// wellFormed reports whether the table is symmetric and non-crossing:
// no position pairs twice and no two pairs (i, j), (k, l) interleave
// as i < k < j < l. Used by tests and defensive checks
func (p PairTable) wellFormed() bool {
	for i, j := range p {
		if j == unpaired {
			continue
		}
		if j < 0 || j >= len(p) || j == i || p[j] != i {
			return false
		}
	}

	pairs := p.Pairs()
	for a := 0; a < len(pairs); a++ {
		for b := a + 1; b < len(pairs); b++ {
			i, j := pairs[a][0], pairs[a][1]
			k, l := pairs[b][0], pairs[b][1]
			if i < k && k < j && j < l {
				return false
			}
		}
	}
	return true
}
