package sigclu

import (
	"github.com/dd0wney/cluso-netensemble/pkg/logging"
	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
	"github.com/dd0wney/cluso-netensemble/pkg/visualization"
)

// Recursive is recursive significance clustering.
//
// Starting from each module of a reference partition, the node least often
// co-assigned with the rest of the set is peeled off until the remaining
// nodes share one module in at least 1-Significance of the partitions.
// That set is a core; the peeled nodes are searched again the same way.
// Nodes that end up in no core are unstable.
type Recursive struct {
	logger logging.Logger
}

// NewRecursive returns a Recursive clusterer
func NewRecursive() *Recursive {
	return &Recursive{logger: logging.NewNopLogger()}
}

// WithLogger returns a copy logging to l
func (r *Recursive) WithLogger(l logging.Logger) *Recursive {
	if l == nil {
		l = logging.NewNopLogger()
	}
	return &Recursive{logger: l}
}

// Cluster implements Clusterer
func (r *Recursive) Cluster(parts []partition.Partition, opts Options) (partition.Partition, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyEnsemble
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkReference(opts, len(parts)); err != nil {
		return nil, err
	}

	e := newEnsemble(parts)
	ref := opts.Reference
	if ref == MedoidReference {
		ref = e.medoid()
	}

	threshold := 1 - opts.Significance
	cores := make(partition.Partition, 0)
	for _, module := range partition.Canonical(parts[ref]) {
		for _, core := range e.significant(module.Sorted(), threshold) {
			if len(core) >= opts.MinCoreSize {
				cores = append(cores, partition.NewNodeSet(core...))
			}
		}
	}

	r.logger.Debug("significance clustering complete",
		logging.Int("reference", ref),
		logging.Count(len(parts)),
		logging.Modules(len(cores)),
	)
	return partition.Canonical(cores), nil
}

// Export implements Exporter
func (r *Recursive) Export(parts []partition.Partition, cores partition.Partition, opts visualization.UpsetOptions) error {
	return visualization.WriteFile(visualization.BuildUpset(parts, cores), opts)
}

// ensemble indexes every partition as node -> module lookups
type ensemble struct {
	parts  []partition.Partition
	labels []map[network.Node]int
}

func newEnsemble(parts []partition.Partition) *ensemble {
	e := &ensemble{
		parts:  parts,
		labels: make([]map[network.Node]int, len(parts)),
	}
	for i, p := range parts {
		e.labels[i] = partition.ModuleOf(p)
	}
	return e
}

// significant returns the cores found inside nodes, largest first.
// nodes must be sorted.
func (e *ensemble) significant(nodes []network.Node, threshold float64) [][]network.Node {
	if len(nodes) == 0 {
		return nil
	}
	if len(nodes) == 1 {
		if e.isolated(nodes[0]) >= threshold {
			return [][]network.Node{nodes}
		}
		return nil
	}

	kept := append([]network.Node(nil), nodes...)
	peeled := make([]network.Node, 0)
	for len(kept) > 1 && e.together(kept) < threshold {
		i := e.weakest(kept)
		peeled = append(peeled, kept[i])
		kept = append(kept[:i], kept[i+1:]...)
	}

	out := make([][]network.Node, 0)
	if len(kept) > 1 {
		out = append(out, kept)
	} else {
		// a lone survivor is not a core, it rejoins the search
		peeled = append(peeled, kept...)
	}

	if len(peeled) > 1 && len(peeled) < len(nodes) {
		sortNodes(peeled)
		out = append(out, e.significant(peeled, threshold)...)
	}
	return out
}

// together is the fraction of partitions keeping every node in one module
func (e *ensemble) together(nodes []network.Node) float64 {
	hits := 0
	for _, labels := range e.labels {
		first, ok := labels[nodes[0]]
		if !ok {
			continue
		}
		same := true
		for _, n := range nodes[1:] {
			if l, ok := labels[n]; !ok || l != first {
				same = false
				break
			}
		}
		if same {
			hits++
		}
	}
	return float64(hits) / float64(len(e.labels))
}

// isolated is the fraction of partitions where n is alone in its module
func (e *ensemble) isolated(n network.Node) float64 {
	hits := 0
	for i, labels := range e.labels {
		if l, ok := labels[n]; ok && e.parts[i][l].Len() == 1 {
			hits++
		}
	}
	return float64(hits) / float64(len(e.labels))
}

// weakest returns the index of the node sharing a module with the fewest
// other members of nodes, summed over all partitions. Ties go to the
// lexically greatest node.
func (e *ensemble) weakest(nodes []network.Node) int {
	score := make([]int, len(nodes))
	counts := make(map[int]int)
	for _, labels := range e.labels {
		clear(counts)
		for _, n := range nodes {
			if l, ok := labels[n]; ok {
				counts[l]++
			}
		}
		for i, n := range nodes {
			if l, ok := labels[n]; ok {
				score[i] += counts[l] - 1
			}
		}
	}

	weakest := 0
	for i := 1; i < len(nodes); i++ {
		if score[i] < score[weakest] || (score[i] == score[weakest] && nodes[i] > nodes[weakest]) {
			weakest = i
		}
	}
	return weakest
}
