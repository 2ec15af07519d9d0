package fold

import (
	"context"
	"fmt"
	"sort"

	"github.com/fncnt/rafft/config"
)

// Prediction is one reported structure
type Prediction struct {
	// the structure in dot-bracket notation
	Structure string `json:"structure"`

	// free energy of the structure, lower is more stable
	Energy float64 `json:"energy"`
}

// Result is the outcome of one prediction request
type Result struct {
	// the sequence that was folded
	Sequence string `json:"sequence"`

	// up to top-k structures, most stable first
	Predictions []Prediction `json:"predictions"`

	// the full trajectory graph, retained only when requested
	Graph *Graph `json:"-"`
}

// Engine folds sequences under one configuration. The zero evaluator
// is the built-in StackModel; external thermodynamic models plug in
// through Eval. Safe for concurrent use: every Predict call builds its
// own search state
type Engine struct {
	Conf *config.Config

	// Eval scores structures; nil selects the built-in model
	Eval Evaluator

	// KeepGraph retains the trajectory graph on the Result
	KeepGraph bool
}

// New returns an Engine over the given configuration
func New(conf *config.Config) *Engine {
	return &Engine{Conf: conf}
}

// Predict parses raw and folds it into up to top-k secondary
// structures.
//
// Validation errors (ErrInvalidSymbol, ErrEmptySequence,
// ErrConfiguration) surface before any search work. A single branch
// failing energy evaluation is discarded silently; if evaluation fails
// on every branch the fully unpaired structure is returned together
// with an error wrapping ErrEngineExhausted, so the caller always
// receives a usable result. On ctx cancellation the best structures
// found so far are returned alongside the context error
func (e *Engine) Predict(ctx context.Context, raw string) (*Result, error) {
	seq, err := NewSequence(raw)
	if err != nil {
		return nil, err
	}
	if err := validate(e.Conf, seq.Len()); err != nil {
		return nil, err
	}

	eval := e.Eval
	if eval == nil {
		eval = StackModel{
			Weights: Weights{
				AU: e.Conf.Pairing.AU,
				GC: e.Conf.Pairing.GC,
				GU: e.Conf.Pairing.GU,
			},
			LoopPenalty: e.Conf.Energy.LoopPenalty,
		}
	}
	memo := newMemoEvaluator(eval)

	enc := NewEncoding(seq, Weights{
		AU: e.Conf.Pairing.AU,
		GC: e.Conf.Pairing.GC,
		GU: e.Conf.Pairing.GU,
	})

	// the root is the fully unpaired structure. If even the empty
	// structure cannot be scored, fall back to energy 0 rather than
	// refusing to search
	rootPairs := newPairTable(seq.Len())
	rootEnergy, rootErr := memo.Score(seq, rootPairs)
	if rootErr != nil {
		rootEnergy = 0
	}

	graph := newGraph()
	rootID := graph.addRoot(rootPairs, rootEnergy)

	s := newSearcher(e.Conf, enc, memo, graph)
	runErr := s.run(ctx, frontierItem{
		id:      rootID,
		pairs:   rootPairs,
		energy:  rootEnergy,
		windows: []*window{wholeWindow(enc)},
	})

	res := e.assemble(seq, graph)

	if runErr != nil {
		// cancelled or timed out: report what was found so far
		return res, runErr
	}
	if graph.Len() == 1 && s.evalFailures > 0 {
		return res, fmt.Errorf("no structure could be scored: %w", ErrEngineExhausted)
	}
	return res, nil
}

// assemble selects the top-k lowest-energy leaves and serializes them.
// Ties are broken by the lexicographically smallest dot-bracket, then
// by creation order, matching the search's own ordering
func (e *Engine) assemble(seq *Sequence, graph *Graph) *Result {
	nodes := graph.Nodes()

	ids := leaves(graph)
	sort.SliceStable(ids, func(a, b int) bool {
		na, nb := nodes[ids[a]], nodes[ids[b]]
		if na.Energy != nb.Energy {
			return na.Energy < nb.Energy
		}
		return na.Pairs.DotBracket() < nb.Pairs.DotBracket()
	})

	topK := e.Conf.Search.TopK
	if len(ids) > topK {
		ids = ids[:topK]
	}

	res := &Result{Sequence: seq.String()}
	for _, id := range ids {
		res.Predictions = append(res.Predictions, Prediction{
			Structure: nodes[id].Pairs.DotBracket(),
			Energy:    nodes[id].Energy,
		})
	}
	if e.KeepGraph {
		res.Graph = graph
	}
	return res
}

// validate rejects configurations that cannot apply to a sequence of
// length n before any search work begins
func validate(conf *config.Config, n int) error {
	s := conf.Search
	switch {
	case s.BeamWidth < 1:
		return fmt.Errorf("%w: beam width must be positive, got %d", ErrConfiguration, s.BeamWidth)
	case s.MaxStructures < 1:
		return fmt.Errorf("%w: max structures must be positive, got %d", ErrConfiguration, s.MaxStructures)
	case s.TopK < 1:
		return fmt.Errorf("%w: top-k must be positive, got %d", ErrConfiguration, s.TopK)
	case s.MinHelixLength < 1:
		return fmt.Errorf("%w: min helix length must be positive, got %d", ErrConfiguration, s.MinHelixLength)
	case s.MinLoopSize < 0:
		return fmt.Errorf("%w: min loop size cannot be negative, got %d", ErrConfiguration, s.MinLoopSize)
	case s.MinLoopSize >= n:
		return fmt.Errorf("%w: min loop size %d leaves no pairable positions in a sequence of length %d",
			ErrConfiguration, s.MinLoopSize, n)
	case conf.Pairing.AU < 0 || conf.Pairing.GC < 0 || conf.Pairing.GU < 0:
		return fmt.Errorf("%w: base pair weights cannot be negative", ErrConfiguration)
	}
	return nil
}
