package network

import (
	"errors"
	"fmt"
	"math"
)

// Common sentinel errors
var (
	ErrInvalidWeight  = errors.New("invalid edge weight")
	ErrWeightMismatch = errors.New("weight count does not match edge count")
)

// Node is an opaque vertex identifier
type Node string

// Edge is a single directed, weighted arc
type Edge struct {
	From   Node
	To     Node
	Weight float64
}

type arc struct {
	from, to Node
}

// Network is a directed weighted graph.
//
// Nodes and edges keep insertion order, so iterating a Network always
// visits them in the same sequence. Adding an arc that already exists
// replaces its weight; there are no multi-edges.
type Network struct {
	nodes     []Node
	nodeIndex map[Node]int

	edges     []Edge
	edgeIndex map[arc]int
}

// New creates an empty network
func New() *Network {
	return &Network{
		nodes:     make([]Node, 0),
		nodeIndex: make(map[Node]int),
		edges:     make([]Edge, 0),
		edgeIndex: make(map[arc]int),
	}
}

// AddNode adds n if it is not already present
func (n *Network) AddNode(node Node) {
	if _, ok := n.nodeIndex[node]; ok {
		return
	}
	n.nodeIndex[node] = len(n.nodes)
	n.nodes = append(n.nodes, node)
}

// AddEdge adds a directed arc, creating missing endpoints.
// Negative, NaN and infinite weights are rejected.
func (n *Network) AddEdge(from, to Node, weight float64) error {
	if err := checkWeight(weight); err != nil {
		return fmt.Errorf("edge %s->%s: %w", from, to, err)
	}

	n.AddNode(from)
	n.AddNode(to)

	key := arc{from: from, to: to}
	if idx, ok := n.edgeIndex[key]; ok {
		n.edges[idx].Weight = weight
		return nil
	}
	n.edgeIndex[key] = len(n.edges)
	n.edges = append(n.edges, Edge{From: from, To: to, Weight: weight})
	return nil
}

func checkWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, w)
	}
	return nil
}

// Nodes returns the nodes in insertion order
func (n *Network) Nodes() []Node {
	out := make([]Node, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// Edges returns the edges in insertion order
func (n *Network) Edges() []Edge {
	out := make([]Edge, len(n.edges))
	copy(out, n.edges)
	return out
}

// WeightedEdges returns only the edges carrying a positive weight
func (n *Network) WeightedEdges() []Edge {
	out := make([]Edge, 0, len(n.edges))
	for _, e := range n.edges {
		if e.Weight > 0 {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes
func (n *Network) NodeCount() int {
	return len(n.nodes)
}

// EdgeCount returns the number of edges
func (n *Network) EdgeCount() int {
	return len(n.edges)
}

// HasNode reports whether node is part of the network
func (n *Network) HasNode(node Node) bool {
	_, ok := n.nodeIndex[node]
	return ok
}

// Weight returns the weight of the arc from -> to
func (n *Network) Weight(from, to Node) (float64, bool) {
	idx, ok := n.edgeIndex[arc{from: from, to: to}]
	if !ok {
		return 0, false
	}
	return n.edges[idx].Weight, true
}

// TotalWeight sums all edge weights
func (n *Network) TotalWeight() float64 {
	total := 0.0
	for _, e := range n.edges {
		total += e.Weight
	}
	return total
}

// Copy returns a deep structural copy
func (n *Network) Copy() *Network {
	c := &Network{
		nodes:     make([]Node, len(n.nodes)),
		nodeIndex: make(map[Node]int, len(n.nodeIndex)),
		edges:     make([]Edge, len(n.edges)),
		edgeIndex: make(map[arc]int, len(n.edgeIndex)),
	}
	copy(c.nodes, n.nodes)
	copy(c.edges, n.edges)
	for k, v := range n.nodeIndex {
		c.nodeIndex[k] = v
	}
	for k, v := range n.edgeIndex {
		c.edgeIndex[k] = v
	}
	return c
}

// WithWeights returns a copy whose edge weights are replaced positionally,
// following the order of Edges().
func (n *Network) WithWeights(weights []float64) (*Network, error) {
	if len(weights) != len(n.edges) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWeightMismatch, len(weights), len(n.edges))
	}
	for i, w := range weights {
		if err := checkWeight(w); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}

	c := n.Copy()
	for i := range c.edges {
		c.edges[i].Weight = weights[i]
	}
	return c, nil
}
