package fold

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fncnt/rafft/config"
)

// frontierItem is one structure on the active search frontier together
// with the windows it may still pair within
type frontierItem struct {
	id      int
	pairs   PairTable
	energy  float64
	windows []*window
}

// candidate is one proposed child structure before deduplication
type candidate struct {
	pairs   PairTable
	energy  float64
	windows []*window
}

// searcher grows the structure tree breadth-first under the configured
// bounds. All shared state is explicit: the read-only encoding, the
// synchronized energy memo, and the append-only graph
type searcher struct {
	conf    *config.Config
	enc     *Encoding
	eval    Evaluator
	graph   *Graph
	workers int

	// energy evaluation failures seen so far; drives the exhausted
	// fallback when nothing but the root survives
	evalFailures int
}

func newSearcher(conf *config.Config, enc *Encoding, eval Evaluator, graph *Graph) *searcher {
	workers := conf.Search.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &searcher{
		conf:    conf,
		enc:     enc,
		eval:    eval,
		graph:   graph,
		workers: workers,
	}
}

// run grows the tree from the root until every branch halts, the
// structure cap is reached, or ctx is done. The graph holds every
// structure created; the returned error is only a context error
func (s *searcher) run(ctx context.Context, root frontierItem) error {
	frontier := []frontierItem{root}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		expansions, err := s.expand(ctx, frontier)
		if err != nil {
			return err
		}

		next, capped := s.merge(frontier, expansions)
		if capped {
			return nil
		}
		frontier = s.prune(next)
	}
	return nil
}

// expand generates the candidate children of every frontier item in
// parallel. Results are collected per item slot, so the outcome is
// identical no matter how the work is scheduled
func (s *searcher) expand(ctx context.Context, frontier []frontierItem) ([][]candidate, error) {
	expansions := make([][]candidate, len(frontier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	failures := make([]int, len(frontier))
	for slot := range frontier {
		slot := slot
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			expansions[slot], failures[slot] = s.children(frontier[slot])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, f := range failures {
		s.evalFailures += f
	}
	return expansions, nil
}

// children proposes up to beam-width single-helix extensions of one
// frontier item. Helices from all of the item's windows compete; each
// selected helix commits alone into its own child, re-partitioning the
// window it was found in. Children failing energy evaluation are
// dropped and counted
func (s *searcher) children(item frontierItem) ([]candidate, int) {
	cfg := s.conf.Search

	type scored struct {
		win int
		h   helix
	}
	var found []scored
	for wi, win := range item.windows {
		surf := newSurface(win)
		for _, h := range findHelices(surf, cfg.MinHelixLength, cfg.MinLoopSize, cfg.MaxLags) {
			found = append(found, scored{win: wi, h: h})
		}
	}

	// rank alternatives across windows with the same deterministic
	// tie-break used within one surface
	sort.Slice(found, func(a, b int) bool {
		ha, hb := found[a].h, found[b].h
		if ha.score != hb.score {
			return ha.score > hb.score
		}
		if found[a].win != found[b].win {
			return found[a].win < found[b].win
		}
		if ha.i != hb.i {
			return ha.i < hb.i
		}
		if ha.length != hb.length {
			return ha.length > hb.length
		}
		return ha.j < hb.j
	})
	if len(found) > cfg.BeamWidth {
		found = found[:cfg.BeamWidth]
	}

	var children []candidate
	failures := 0
	for _, sc := range found {
		win := item.windows[sc.win]

		pairs := item.pairs.clone()
		for k := 0; k < sc.h.length; k++ {
			pairs.insert(win.parent[sc.h.i+k], win.parent[sc.h.j-k])
		}

		energy, err := s.eval.Score(s.enc.Seq(), pairs)
		if err != nil {
			failures++
			continue
		}

		inner, outer := win.split(sc.h.i, sc.h.j, sc.h.length, cfg.MinHelixLength)
		windows := make([]*window, 0, len(item.windows)+1)
		windows = append(windows, item.windows[:sc.win]...)
		windows = append(windows, item.windows[sc.win+1:]...)
		if inner != nil {
			windows = append(windows, inner)
		}
		if outer != nil {
			windows = append(windows, outer)
		}

		children = append(children, candidate{pairs: pairs, energy: energy, windows: windows})
	}
	return children, failures
}

// merge commits candidates to the graph in frontier order,
// deduplicating structures reached along convergent pathways, and
// returns the undeduplicated next frontier. Once the global structure
// cap is hit no further branches are spawned
func (s *searcher) merge(frontier []frontierItem, expansions [][]candidate) (next []frontierItem, capped bool) {
	for slot, children := range expansions {
		parent := frontier[slot].id
		for _, c := range children {
			if s.graph.Len() >= s.conf.Search.MaxStructures {
				return next, true
			}

			id, created := s.graph.add(parent, c.pairs, c.energy)
			if !created {
				// convergent pathway onto a known structure;
				// the edge is merged, the node is not re-expanded
				continue
			}
			next = append(next, frontierItem{
				id:      id,
				pairs:   c.pairs,
				energy:  c.energy,
				windows: c.windows,
			})
		}
	}
	return next, false
}

// prune ranks the next frontier by ascending energy, ties broken by
// the lexicographically smallest dot-bracket and then insertion order,
// and keeps at most beam-width structures. The beam content is a
// ranked set, independent of arrival order
func (s *searcher) prune(next []frontierItem) []frontierItem {
	sort.SliceStable(next, func(a, b int) bool {
		if next[a].energy != next[b].energy {
			return next[a].energy < next[b].energy
		}
		return next[a].pairs.DotBracket() < next[b].pairs.DotBracket()
	})

	if len(next) > s.conf.Search.BeamWidth {
		next = next[:s.conf.Search.BeamWidth]
	}
	return next
}

// leaves returns the ids of every structure without an outgoing
// transition: halted branches, pruned frontier members, and the root
// itself when it never grew
func leaves(g *Graph) []int {
	hasChild := make(map[int]bool)
	for _, e := range g.Edges() {
		hasChild[e.Parent] = true
	}

	var ids []int
	for _, n := range g.Nodes() {
		if !hasChild[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
