package fold

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Out is the JSON result document written for a prediction
type Out struct {
	// local time the prediction finished
	Time string `json:"time"`

	// the folded sequence
	Sequence string `json:"sequence"`

	// reported structures, most stable first
	Predictions []Prediction `json:"predictions"`

	// the trajectory graph, when it was requested
	Graph *GraphOut `json:"graph,omitempty"`
}

// GraphOut is the serialized trajectory graph: a node list and an
// energy-weighted edge list referencing nodes by index
type GraphOut struct {
	Nodes []NodeOut `json:"nodes"`
	Edges []EdgeOut `json:"edges"`
}

// NodeOut is one structure of the serialized trajectory graph
type NodeOut struct {
	Structure string  `json:"structure"`
	Energy    float64 `json:"energy"`
	Depth     int     `json:"depth"`
}

// EdgeOut is one helix-addition transition of the serialized graph
type EdgeOut struct {
	Parent int     `json:"parent"`
	Child  int     `json:"child"`
	Delta  float64 `json:"delta"`
}

// newGraphOut flattens a trajectory graph for serialization
func newGraphOut(g *Graph) *GraphOut {
	out := &GraphOut{}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, NodeOut{
			Structure: n.Pairs.DotBracket(),
			Energy:    n.Energy,
			Depth:     n.Depth,
		})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, EdgeOut{Parent: e.Parent, Child: e.Child, Delta: e.Delta})
	}
	return out
}

// WriteJSON writes the result as an indented JSON document
func WriteJSON(w io.Writer, res *Result) error {
	out := Out{
		Time:        time.Now().String(),
		Sequence:    res.Sequence,
		Predictions: res.Predictions,
	}
	if res.Graph != nil {
		out.Graph = newGraphOut(res.Graph)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize output: %v", err)
	}

	if _, err = w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write the output: %v", err)
	}
	return nil
}

// WritePlain writes the sequence followed by one dot-bracket structure
// and its energy per line
func WritePlain(w io.Writer, res *Result) error {
	if _, err := fmt.Fprintln(w, res.Sequence); err != nil {
		return err
	}
	for _, p := range res.Predictions {
		if _, err := fmt.Fprintf(w, "%s %.2f\n", p.Structure, p.Energy); err != nil {
			return err
		}
	}
	return nil
}
