// Package resample generates bootstrap replicates of a weighted network by
// redrawing every edge weight from a Poisson distribution centred on it.
package resample

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/parallel"
)

// drawStream is the PCG stream used for weight draws. Detection uses other
// streams of the same seed.
const drawStream = 0x6e65747265

// NewSource returns the generator used for all draws of a bootstrap
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, drawStream)
}

// Draws returns the count x |E| matrix of Poisson weight draws for net.
//
// Row r holds the weights of replicate r in Edges() order. All draws come
// from one generator consumed replicate by replicate, edge by edge. Edges of
// weight zero always draw zero and consume no randomness.
func Draws(net *network.Network, count int, seed uint64) ([][]float64, error) {
	if err := check(net, count); err != nil {
		return nil, err
	}

	edges := net.Edges()
	src := NewSource(seed)

	out := make([][]float64, count)
	for r := range out {
		row := make([]float64, len(edges))
		for i, e := range edges {
			if e.Weight == 0 {
				continue
			}
			row[i] = distuv.Poisson{Lambda: e.Weight, Src: src}.Rand()
		}
		out[r] = row
	}
	return out, nil
}

// Bootstrap produces count replicates of net. Each replicate has the same
// nodes and edges as net, with every weight replaced by an independent
// Poisson draw whose mean is the original weight. Edges whose draw is zero
// are kept.
func Bootstrap(net *network.Network, count int, seed uint64, opts ...Option) ([]*network.Network, error) {
	o := buildOptions(opts)
	start := time.Now()

	replicates, err := bootstrap(net, count, seed, o)

	if o.metrics != nil {
		edges := 0
		if net != nil {
			edges = net.EdgeCount()
		}
		o.metrics.RecordBootstrap(count, edges, time.Since(start), err)
	}
	if err != nil {
		o.logger.Warn("bootstrap failed", logging.Count(count), logging.Error(err))
		return nil, err
	}

	o.logger.Debug("bootstrap complete",
		logging.Count(count),
		logging.Edges(net.EdgeCount()),
		logging.Seed(seed),
		logging.Latency(time.Since(start)),
	)
	return replicates, nil
}

func bootstrap(net *network.Network, count int, seed uint64, o options) ([]*network.Network, error) {
	draws, err := Draws(net, count, seed)
	if err != nil {
		return nil, err
	}

	replicates := make([]*network.Network, count)
	err = parallel.ForEachWithLogger(count, o.workers, o.logger, func(i int) error {
		rep, err := net.WithWeights(draws[i])
		if err != nil {
			return &ResamplingError{Count: count, Edges: net.EdgeCount(), Cause: err}
		}
		replicates[i] = rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replicates, nil
}

func check(net *network.Network, count int) error {
	if net == nil {
		return &ResamplingError{Count: count, Cause: ErrNilNetwork}
	}
	if count <= 0 {
		return &ResamplingError{Count: count, Edges: net.EdgeCount(), Cause: ErrInvalidCount}
	}
	if len(net.WeightedEdges()) == 0 {
		return &ResamplingError{Count: count, Edges: net.EdgeCount(), Cause: ErrNoWeightedEdges}
	}
	return nil
}
