package partition

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
)

// ErrOverlap is returned when a node belongs to more than one module
var ErrOverlap = errors.New("node assigned to more than one module")

// Partition is an unordered collection of disjoint node sets, one per module.
// Nodes that were never assigned may be absent.
type Partition []NodeSet

// FromAssignment groups nodes that share a module label. Labels are
// arbitrary and are not kept; the result is canonical, so two assignments
// with the same grouping give equal partitions.
func FromAssignment(assignment map[network.Node]int) Partition {
	byLabel := make(map[int]NodeSet)
	for node, label := range assignment {
		set, ok := byLabel[label]
		if !ok {
			set = NewNodeSet()
			byLabel[label] = set
		}
		set.Add(node)
	}

	p := make(Partition, 0, len(byLabel))
	for _, set := range byLabel {
		p = append(p, set)
	}
	return Canonical(p)
}

// Canonical orders modules by size (largest first), then by smallest member
func Canonical(p Partition) Partition {
	out := make(Partition, 0, len(p))
	for _, s := range p {
		if s.Len() > 0 {
			out = append(out, s)
		}
	}

	mins := make(map[int]network.Node, len(out))
	for i, s := range out {
		mins[i] = s.Sorted()[0]
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := out[idx[a]], out[idx[b]]
		if sa.Len() != sb.Len() {
			return sa.Len() > sb.Len()
		}
		return mins[idx[a]] < mins[idx[b]]
	})

	sorted := make(Partition, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// Clone copies every module, so the result shares no set with p
func Clone(p Partition) Partition {
	if p == nil {
		return nil
	}
	out := make(Partition, len(p))
	for i, s := range p {
		out[i] = s.Clone()
	}
	return out
}

// Flatten returns the union of every module
func Flatten(p Partition) NodeSet {
	out := NewNodeSet()
	for _, s := range p {
		for n := range s {
			out.Add(n)
		}
	}
	return out
}

// Validate checks that no node appears in two modules
func Validate(p Partition) error {
	seen := make(map[network.Node]int)
	for i, s := range p {
		for n := range s {
			if j, ok := seen[n]; ok {
				return fmt.Errorf("%w: %s in modules %d and %d", ErrOverlap, n, j, i)
			}
			seen[n] = i
		}
	}
	return nil
}

// ModuleOf maps every assigned node to the index of its module in p
func ModuleOf(p Partition) map[network.Node]int {
	out := make(map[network.Node]int)
	for i, s := range p {
		for n := range s {
			out[n] = i
		}
	}
	return out
}

// Equal compares module content, ignoring module order
func Equal(a, b Partition) bool {
	ca, cb := Canonical(a), Canonical(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !ca[i].Equal(cb[i]) {
			return false
		}
	}
	return true
}

// Sorted returns the modules as sorted node slices, in canonical order
func Sorted(p Partition) [][]network.Node {
	c := Canonical(p)
	out := make([][]network.Node, len(c))
	for i, s := range c {
		out[i] = s.Sorted()
	}
	return out
}

// FromSlices builds a partition from node slices
func FromSlices(modules [][]network.Node) Partition {
	p := make(Partition, 0, len(modules))
	for _, m := range modules {
		p = append(p, NewNodeSet(m...))
	}
	return p
}
