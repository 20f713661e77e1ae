package detect

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
)

// DefaultMaxIterations bounds label propagation sweeps
const DefaultMaxIterations = 100

// LabelPropagation detects modules by weighted label propagation.
// Arcs count in both directions. Nodes are visited in a seeded random order
// and ties go to the lowest label, so a fixed seed gives a fixed result.
// Each trial restarts from singleton labels; the trial with the highest
// modularity at the configured resolution wins. With VariableResolution the
// trials are repeated at half and double the resolution, each round with
// fresh streams, and the round with the best standard (γ=1) modularity is
// returned.
type LabelPropagation struct {
	// MaxIterations caps sweeps per trial; zero means DefaultMaxIterations
	MaxIterations int
}

// Name implements Named
func (LabelPropagation) Name() string { return "label_propagation" }

type neighbor struct {
	idx    int
	weight float64
}

// Detect implements Detector
func (lp LabelPropagation) Detect(net *network.Network, opts Options) (map[network.Node]int, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g := network.Directed(net)
	if !hasFlow(g) {
		return singletons(net), nil
	}

	nodes := net.Nodes()
	index := make(map[network.Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	adj := make([][]neighbor, len(nodes))
	for _, e := range net.WeightedEdges() {
		if e.From == e.To {
			continue
		}
		u, v := index[e.From], index[e.To]
		adj[u] = append(adj[u], neighbor{v, e.Weight})
		adj[v] = append(adj[v], neighbor{u, e.Weight})
	}

	maxIter := lp.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	var best map[network.Node]int
	bestQ := math.Inf(-1)
	for round, res := range opts.resolutions() {
		assignment := propagationTrials(g, nodes, adj, maxIter, res, opts, round)
		q := modularity(g, g.Communities(assignment), 1)
		if best == nil || q > bestQ+qTolerance {
			best, bestQ = assignment, q
		}
	}
	return best, nil
}

func propagationTrials(g *network.GonumGraph, nodes []network.Node, adj [][]neighbor, maxIter int, resolution float64, opts Options, round int) map[network.Node]int {
	var best map[network.Node]int
	bestQ := math.Inf(-1)
	for t := 0; t < opts.Trials; t++ {
		src := trialSource(opts.Seed, round*opts.Trials+t)
		labels := propagate(adj, maxIter, rand.New(src))

		assignment := make(map[network.Node]int, len(nodes))
		for i, n := range nodes {
			assignment[n] = labels[i]
		}
		q := modularity(g, g.Communities(assignment), resolution)
		if best == nil || q > bestQ+qTolerance {
			best, bestQ = assignment, q
		}
	}
	return best
}

func propagate(adj [][]neighbor, maxIter int, rng *rand.Rand) []int {
	labels := make([]int, len(adj))
	for i := range labels {
		labels[i] = i
	}
	order := make([]int, len(adj))
	for i := range order {
		order[i] = i
	}

	weights := make(map[int]float64)
	for iter := 0; iter < maxIter; iter++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		changed := false
		for _, u := range order {
			if len(adj[u]) == 0 {
				continue
			}
			clear(weights)
			for _, nb := range adj[u] {
				weights[labels[nb.idx]] += nb.weight
			}

			bestLabel, bestWeight := labels[u], math.Inf(-1)
			for label, w := range weights {
				if w > bestWeight || (w == bestWeight && label < bestLabel) {
					bestLabel, bestWeight = label, w
				}
			}

			if bestLabel != labels[u] {
				labels[u] = bestLabel
				changed = true
			}
		}

		if !changed {
			break
		}
	}
	return labels
}
