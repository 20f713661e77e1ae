package detect

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
)

// Louvain detects modules by directed modularity optimisation.
//
// Each trial runs the Louvain method with its own seeded generator and the
// trial with the highest modularity wins; ties keep the earlier trial. With
// VariableResolution the whole search is repeated at half and double the
// configured resolution and the candidate with the best standard (γ=1)
// modularity is returned.
type Louvain struct{}

// Name implements Named
func (Louvain) Name() string { return "louvain" }

// Detect implements Detector
func (Louvain) Detect(net *network.Network, opts Options) (map[network.Node]int, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g := network.Directed(net)
	if !hasFlow(g) {
		return singletons(net), nil
	}

	var best [][]graph.Node
	bestQ := math.Inf(-1)
	for i, res := range opts.resolutions() {
		comms := louvainTrials(g, res, opts, i)
		q := modularity(g, comms, 1)
		if best == nil || q > bestQ+qTolerance {
			best, bestQ = comms, q
		}
	}

	return g.Assignment(best), nil
}

func louvainTrials(g *network.GonumGraph, resolution float64, opts Options, round int) [][]graph.Node {
	var best [][]graph.Node
	bestQ := math.Inf(-1)
	for t := 0; t < opts.Trials; t++ {
		src := trialSource(opts.Seed, round*opts.Trials+t)
		reduced := community.Modularize(g.WeightedDirectedGraph, resolution, src)
		comms := reduced.Communities()
		q := modularity(g, comms, resolution)
		if best == nil || q > bestQ+qTolerance {
			best, bestQ = comms, q
		}
	}
	return best
}
