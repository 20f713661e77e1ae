// Package detect runs community detection on a single network and turns the
// result into a partition.
package detect

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
)

// Detector assigns every node of a network to a module.
// Labels are arbitrary; only which nodes share a label matters.
type Detector interface {
	Detect(net *network.Network, opts Options) (map[network.Node]int, error)
}

// Named is implemented by detectors that report a name for metrics and logs
type Named interface {
	Name() string
}

// NameOf returns the detector's name, or "custom"
func NameOf(d Detector) string {
	if n, ok := d.(Named); ok {
		return n.Name()
	}
	return "custom"
}

// qTolerance absorbs summation order noise when comparing modularities
const qTolerance = 1e-12

// trialSource returns the generator for one restart. Streams start at 1;
// stream 0 of a seed is never used for detection.
func trialSource(seed uint64, trial int) rand.Source {
	return rand.NewPCG(seed, uint64(trial)+1)
}

// singletons puts every node in its own module
func singletons(net *network.Network) map[network.Node]int {
	out := make(map[network.Node]int, net.NodeCount())
	for i, n := range net.Nodes() {
		out[n] = i
	}
	return out
}

// modularity scores communities on g. A graph without edges scores 0.
func modularity(g *network.GonumGraph, comms [][]graph.Node, resolution float64) float64 {
	q := community.Q(g.WeightedDirectedGraph, comms, resolution)
	if math.IsNaN(q) {
		return 0
	}
	return q
}

func hasFlow(g *network.GonumGraph) bool {
	return g.WeightedDirectedGraph.Edges().Len() > 0
}
