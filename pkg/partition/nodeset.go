package partition

import (
	"sort"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
)

// NodeSet is an unordered set of unique nodes
type NodeSet map[network.Node]struct{}

// NewNodeSet creates a set holding nodes
func NewNodeSet(nodes ...network.Node) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts n
func (s NodeSet) Add(n network.Node) {
	s[n] = struct{}{}
}

// Has reports membership
func (s NodeSet) Has(n network.Node) bool {
	_, ok := s[n]
	return ok
}

// Len returns the number of nodes
func (s NodeSet) Len() int {
	return len(s)
}

// Clone returns an independent copy
func (s NodeSet) Clone() NodeSet {
	c := make(NodeSet, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Union returns s ∪ other
func (s NodeSet) Union(other NodeSet) NodeSet {
	out := s.Clone()
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Difference returns s \ other
func (s NodeSet) Difference(other NodeSet) NodeSet {
	out := make(NodeSet)
	for n := range s {
		if !other.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Intersection returns s ∩ other
func (s NodeSet) Intersection(other NodeSet) NodeSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(NodeSet)
	for n := range small {
		if large.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Intersects reports whether the sets share a node
func (s NodeSet) Intersects(other NodeSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for n := range small {
		if large.Has(n) {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every node of s is in other
func (s NodeSet) SubsetOf(other NodeSet) bool {
	if len(s) > len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// Equal reports set equality
func (s NodeSet) Equal(other NodeSet) bool {
	return len(s) == len(other) && s.SubsetOf(other)
}

// Sorted returns the nodes in lexical order
func (s NodeSet) Sorted() []network.Node {
	out := make([]network.Node, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
