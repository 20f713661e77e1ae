package network

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// GonumGraph is a gonum view of a Network with a stable node id mapping.
// Node i of the source network gets gonum id i.
type GonumGraph struct {
	*simple.WeightedDirectedGraph

	nodes []Node
	ids   map[Node]int64
}

// Directed builds a gonum weighted directed graph from net.
// Zero-weight arcs and self loops are not materialised: they carry no
// flow between distinct nodes and simple graphs reject self edges.
func Directed(net *Network) *GonumGraph {
	g := &GonumGraph{
		WeightedDirectedGraph: simple.NewWeightedDirectedGraph(0, 0),
		nodes:                 net.Nodes(),
		ids:                   make(map[Node]int64, net.NodeCount()),
	}

	for i, n := range g.nodes {
		id := int64(i)
		g.ids[n] = id
		g.AddNode(simple.Node(id))
	}

	for _, e := range net.edges {
		if e.Weight <= 0 || e.From == e.To {
			continue
		}
		g.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(g.ids[e.From]),
			T: simple.Node(g.ids[e.To]),
			W: e.Weight,
		})
	}

	return g
}

// NodeFor maps a gonum node back to the network node
func (g *GonumGraph) NodeFor(n graph.Node) Node {
	return g.nodes[n.ID()]
}

// IDFor returns the gonum id of a network node
func (g *GonumGraph) IDFor(n Node) (int64, bool) {
	id, ok := g.ids[n]
	return id, ok
}

// Assignment converts gonum communities into a node -> module label map
func (g *GonumGraph) Assignment(communities [][]graph.Node) map[Node]int {
	out := make(map[Node]int, len(g.nodes))
	for label, members := range communities {
		for _, m := range members {
			out[g.NodeFor(m)] = label
		}
	}
	return out
}

// Communities converts a node -> module label map into gonum communities,
// ordered by label.
func (g *GonumGraph) Communities(assignment map[Node]int) [][]graph.Node {
	byLabel := make(map[int][]graph.Node)
	labels := make([]int, 0)
	for _, n := range g.nodes {
		label, ok := assignment[n]
		if !ok {
			continue
		}
		if _, seen := byLabel[label]; !seen {
			labels = append(labels, label)
		}
		byLabel[label] = append(byLabel[label], simple.Node(g.ids[n]))
	}

	out := make([][]graph.Node, 0, len(labels))
	for _, l := range labels {
		out = append(out, byLabel[l])
	}
	return out
}
