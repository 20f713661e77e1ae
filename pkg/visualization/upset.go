// Package visualization summarises a partition ensemble as an UpSet style
// layered set chart: how the significant cores intersect the modules of
// every partition.
package visualization

import (
	"sort"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
)

// CoreSummary describes one core
type CoreSummary struct {
	Index int      `json:"index" yaml:"index"`
	Size  int      `json:"size" yaml:"size"`
	Nodes []string `json:"nodes" yaml:"nodes"`
	// Stability is the fraction of partitions that keep the whole core in
	// one module
	Stability float64 `json:"stability" yaml:"stability"`
}

// Bar counts how often a core meets a module in exactly Overlap nodes
type Bar struct {
	Core    int `json:"core" yaml:"core"`
	Overlap int `json:"overlap" yaml:"overlap"`
	Count   int `json:"count" yaml:"count"`
}

// Upset is the layered set summary of an ensemble
type Upset struct {
	Partitions int           `json:"partitions" yaml:"partitions"`
	Nodes      int           `json:"nodes" yaml:"nodes"`
	Unstable   int           `json:"unstable" yaml:"unstable"`
	Cores      []CoreSummary `json:"cores" yaml:"cores"`
	Bars       []Bar         `json:"bars" yaml:"bars"`
}

// BuildUpset summarises how cores are split across the modules of parts
func BuildUpset(parts []partition.Partition, cores partition.Partition) *Upset {
	all := partition.NewNodeSet()
	for _, p := range parts {
		all = all.Union(partition.Flatten(p))
	}
	all = all.Union(partition.Flatten(cores))
	unstable := all.Difference(partition.Flatten(cores))

	u := &Upset{
		Partitions: len(parts),
		Nodes:      all.Len(),
		Unstable:   unstable.Len(),
		Cores:      make([]CoreSummary, 0, len(cores)),
		Bars:       make([]Bar, 0),
	}

	for ci, core := range cores {
		u.Cores = append(u.Cores, CoreSummary{
			Index:     ci,
			Size:      core.Len(),
			Nodes:     nodeStrings(core.Sorted()),
			Stability: stability(parts, core),
		})

		counts := make(map[int]int)
		for _, p := range parts {
			for _, module := range p {
				if n := module.Intersection(core).Len(); n > 0 {
					counts[n]++
				}
			}
		}
		for overlap, count := range counts {
			u.Bars = append(u.Bars, Bar{Core: ci, Overlap: overlap, Count: count})
		}
	}

	sort.Slice(u.Bars, func(i, j int) bool {
		a, b := u.Bars[i], u.Bars[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Core != b.Core {
			return a.Core < b.Core
		}
		return a.Overlap > b.Overlap
	})

	return u
}

// Truncate keeps the first max bars; max <= 0 keeps all
func (u *Upset) Truncate(max int) {
	if max > 0 && len(u.Bars) > max {
		u.Bars = u.Bars[:max]
	}
}

func stability(parts []partition.Partition, core partition.NodeSet) float64 {
	if len(parts) == 0 {
		return 0
	}
	kept := 0
	for _, p := range parts {
		for _, module := range p {
			if core.SubsetOf(module) {
				kept++
				break
			}
		}
	}
	return float64(kept) / float64(len(parts))
}

func nodeStrings(nodes []network.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = string(n)
	}
	return out
}
