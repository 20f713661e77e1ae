package sigclu

import (
	"sort"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
)

// medoid returns the index of the partition with the highest total
// agreement with all others. Ties keep the lowest index.
func (e *ensemble) medoid() int {
	n := len(e.parts)
	total := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a := e.agreement(i, j)
			total[i] += a
			total[j] += a
		}
	}

	best := 0
	for i := 1; i < n; i++ {
		if total[i] > total[best]+1e-9 {
			best = i
		}
	}
	return best
}

// agreement is the mean over nodes of the Jaccard index between the modules
// containing each node in partitions i and j. Nodes present in only one of
// the two score zero.
func (e *ensemble) agreement(i, j int) float64 {
	li, lj := e.labels[i], e.labels[j]

	type cell struct{ a, b int }
	overlap := make(map[cell]int)
	for node, a := range li {
		if b, ok := lj[node]; ok {
			overlap[cell{a, b}]++
		}
	}

	nodes := len(li)
	for node := range lj {
		if _, ok := li[node]; !ok {
			nodes++
		}
	}
	if nodes == 0 {
		return 1
	}

	sum := 0.0
	for c, shared := range overlap {
		union := e.parts[i][c.a].Len() + e.parts[j][c.b].Len() - shared
		// every node in the cell has the same Jaccard index
		sum += float64(shared) * float64(shared) / float64(union)
	}
	return sum / float64(nodes)
}

func sortNodes(nodes []network.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
}
