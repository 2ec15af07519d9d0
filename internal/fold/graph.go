package fold

import "sync"

// Node is one structure in the trajectory graph. Nodes are owned by
// the graph arena and referenced by index; Parent is the index of the
// first structure this one was derived from, a non-owning back-link
// used for path reconstruction
type Node struct {
	ID     int
	Parent int // -1 at the root
	Depth  int
	Pairs  PairTable
	Energy float64
}

// Edge is one helix-addition transition between two structures,
// weighted by the free energy delta of the step
type Edge struct {
	Parent int
	Child  int
	Delta  float64
}

// Graph is the trajectory graph of a search: every structure ever
// created, with edges for each helix addition. The root is the fully
// unpaired structure; every node's pair set is a superset of its
// parent's; the graph is acyclic by construction since a child always
// holds strictly more pairs than its parent. A path from the root to a
// leaf reads as a plausible folding pathway, and structures reached by
// several pathways keep every incoming edge.
//
// Insertion is append-only behind a lock; existing nodes are never
// mutated, so readers holding a node index stay valid
type Graph struct {
	mu    sync.Mutex
	nodes []Node
	edges []Edge

	// dot-bracket -> node id, for deduplicating convergent pathways
	index map[string]int
}

func newGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// addRoot inserts the fully unpaired structure and returns its id
func (g *Graph) addRoot(pairs PairTable, energy float64) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Parent: -1, Pairs: pairs, Energy: energy})
	g.index[pairs.DotBracket()] = id
	return id
}

// add inserts a child structure derived from parent, or merges it into
// an existing node when the same pair set was already reached along
// another pathway. In both cases the incoming edge is recorded.
// Returns the node id and whether a new node was created
func (g *Graph) add(parent int, pairs PairTable, energy float64) (id int, created bool) {
	key := pairs.DotBracket()

	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.index[key]; ok {
		g.edges = append(g.edges, Edge{Parent: parent, Child: id, Delta: g.nodes[id].Energy - g.nodes[parent].Energy})
		return id, false
	}

	id = len(g.nodes)
	g.nodes = append(g.nodes, Node{
		ID:     id,
		Parent: parent,
		Depth:  g.nodes[parent].Depth + 1,
		Pairs:  pairs,
		Energy: energy,
	})
	g.index[key] = id
	g.edges = append(g.edges, Edge{Parent: parent, Child: id, Delta: energy - g.nodes[parent].Energy})
	return id, true
}

// Len returns the number of structures in the graph
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// Nodes returns the graph's structures in creation order
func (g *Graph) Nodes() []Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Node(nil), g.nodes...)
}

// Edges returns the helix-addition transitions in creation order
func (g *Graph) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Edge(nil), g.edges...)
}

// Path reconstructs the chain of node ids from the root to id by
// walking parent links
func (g *Graph) Path(id int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	var path []int
	for at := id; at != -1; at = g.nodes[at].Parent {
		path = append(path, at)
	}
	for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
		path[a], path[b] = path[b], path[a]
	}
	return path
}
