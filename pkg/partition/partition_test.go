package partition

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
)

func TestFromAssignment_GroupsByLabel(t *testing.T) {
	assignment := map[network.Node]int{
		"A": 7, "B": 7, "C": 2, "D": 9,
	}

	p := FromAssignment(assignment)

	if len(p) != 3 {
		t.Fatalf("Expected 3 modules, got %d", len(p))
	}
	if !p[0].Equal(NewNodeSet("A", "B")) {
		t.Errorf("Expected largest module {A,B}, got %v", p[0].Sorted())
	}
	if !p[1].Equal(NewNodeSet("C")) || !p[2].Equal(NewNodeSet("D")) {
		t.Errorf("Unexpected singleton order: %v", Sorted(p))
	}
}

func TestFromAssignment_LabelsAreNotIdentity(t *testing.T) {
	a := FromAssignment(map[network.Node]int{"A": 0, "B": 0, "C": 1})
	b := FromAssignment(map[network.Node]int{"A": 5, "B": 5, "C": 3})

	if !Equal(a, b) {
		t.Errorf("Relabelled assignments should give equal partitions: %v vs %v", Sorted(a), Sorted(b))
	}
}

func TestValidate(t *testing.T) {
	ok := FromSlices([][]network.Node{{"A", "B"}, {"C"}})
	if err := Validate(ok); err != nil {
		t.Errorf("Expected valid partition, got %v", err)
	}

	bad := FromSlices([][]network.Node{{"A", "B"}, {"B", "C"}})
	if err := Validate(bad); !errors.Is(err, ErrOverlap) {
		t.Errorf("Expected ErrOverlap, got %v", err)
	}
}

func TestFlattenAndModuleOf(t *testing.T) {
	p := FromSlices([][]network.Node{{"A", "B"}, {"C"}})

	flat := Flatten(p)
	if !flat.Equal(NewNodeSet("A", "B", "C")) {
		t.Errorf("Unexpected flatten result: %v", flat.Sorted())
	}

	m := ModuleOf(p)
	if m["A"] != m["B"] || m["A"] == m["C"] {
		t.Errorf("Unexpected module map: %v", m)
	}
}

func TestClone_Independent(t *testing.T) {
	p := FromSlices([][]network.Node{{"A", "B"}, {"C"}})
	c := Clone(p)

	if !Equal(p, c) {
		t.Fatalf("Expected clone to equal source, got %v", Sorted(c))
	}
	c[0].Add("Z")
	if Flatten(p).Has("Z") {
		t.Error("Expected source to be unaffected by clone mutation")
	}
	if Clone(nil) != nil {
		t.Error("Expected nil clone of nil partition")
	}
}

func TestEqual_DifferentContent(t *testing.T) {
	a := FromSlices([][]network.Node{{"A", "B"}, {"C"}})
	b := FromSlices([][]network.Node{{"A"}, {"B", "C"}})
	if Equal(a, b) {
		t.Error("Partitions with different modules reported equal")
	}
}

func TestNodeSetOperations(t *testing.T) {
	s := NewNodeSet("A", "B", "C")
	o := NewNodeSet("B", "D")

	if got := s.Union(o); !got.Equal(NewNodeSet("A", "B", "C", "D")) {
		t.Errorf("Union: %v", got.Sorted())
	}
	if got := s.Difference(o); !got.Equal(NewNodeSet("A", "C")) {
		t.Errorf("Difference: %v", got.Sorted())
	}
	if got := s.Intersection(o); !got.Equal(NewNodeSet("B")) {
		t.Errorf("Intersection: %v", got.Sorted())
	}
	if !s.Intersects(o) {
		t.Error("Expected sets to intersect")
	}
	if !NewNodeSet("A").SubsetOf(s) || o.SubsetOf(s) {
		t.Error("SubsetOf gave wrong answer")
	}
}

// TestPartitionInvariants checks disjointness and coverage for arbitrary
// label assignments
func TestPartitionInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("modules are disjoint", prop.ForAll(
		func(raw map[string]int) bool {
			return Validate(FromAssignment(toAssignment(raw))) == nil
		},
		gen.MapOf(gen.AlphaString(), gen.IntRange(0, 5)),
	))

	properties.Property("every assigned node is covered", prop.ForAll(
		func(raw map[string]int) bool {
			flat := Flatten(FromAssignment(toAssignment(raw)))
			return flat.Len() == len(raw)
		},
		gen.MapOf(gen.AlphaString(), gen.IntRange(0, 5)),
	))

	properties.Property("co-labelled nodes share a module", prop.ForAll(
		func(raw map[string]int) bool {
			assignment := toAssignment(raw)
			modules := ModuleOf(FromAssignment(assignment))
			for a, la := range assignment {
				for b, lb := range assignment {
					if (la == lb) != (modules[a] == modules[b]) {
						return false
					}
				}
			}
			return true
		},
		gen.MapOf(gen.AlphaString(), gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}

func toAssignment(raw map[string]int) map[network.Node]int {
	out := make(map[network.Node]int, len(raw))
	for k, v := range raw {
		out[network.Node(k)] = v
	}
	return out
}
