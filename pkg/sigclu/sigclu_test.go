package sigclu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
	"github.com/dd0wney/cluso-netensemble/pkg/visualization"
)

func repeat(n int, modules ...[]network.Node) []partition.Partition {
	out := make([]partition.Partition, n)
	for i := range out {
		out[i] = partition.FromSlices(modules)
	}
	return out
}

// flipping keeps {a,b,c} and {d,e} fixed while x alternates between them
func flipping() []partition.Partition {
	parts := repeat(10, []network.Node{"a", "b", "c", "x"}, []network.Node{"d", "e"})
	return append(parts, repeat(10, []network.Node{"a", "b", "c"}, []network.Node{"d", "e", "x"})...)
}

func TestRecursive_EmptyEnsemble(t *testing.T) {
	_, err := NewRecursive().Cluster(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyEnsemble)
}

func TestRecursive_StableEnsemble(t *testing.T) {
	parts := repeat(20, []network.Node{"a", "b", "c"}, []network.Node{"d", "e"})

	cores, err := NewRecursive().Cluster(parts, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, partition.Equal(cores, parts[0]), "got %v", partition.Sorted(cores))
}

func TestRecursive_PeelsFlippingNode(t *testing.T) {
	cores, err := NewRecursive().Cluster(flipping(), DefaultOptions())
	require.NoError(t, err)

	want := partition.FromSlices([][]network.Node{{"a", "b", "c"}, {"d", "e"}})
	assert.True(t, partition.Equal(cores, want), "got %v", partition.Sorted(cores))
	assert.False(t, partition.Flatten(cores).Has("x"))
	assert.NoError(t, partition.Validate(cores))
}

func TestRecursive_RecursesOnPeeledNodes(t *testing.T) {
	// {p,q} always travel together but switch between the two halves
	parts := repeat(10, []network.Node{"a", "b", "c", "p", "q"}, []network.Node{"d", "e"})
	parts = append(parts, repeat(10, []network.Node{"a", "b", "c"}, []network.Node{"d", "e", "p", "q"})...)

	cores, err := NewRecursive().Cluster(parts, DefaultOptions())
	require.NoError(t, err)

	want := partition.FromSlices([][]network.Node{{"a", "b", "c"}, {"d", "e"}, {"p", "q"}})
	assert.True(t, partition.Equal(cores, want), "got %v", partition.Sorted(cores))
}

func TestRecursive_MinCoreSize(t *testing.T) {
	opts := DefaultOptions()
	opts.MinCoreSize = 3

	cores, err := NewRecursive().Cluster(flipping(), opts)
	require.NoError(t, err)

	want := partition.FromSlices([][]network.Node{{"a", "b", "c"}})
	assert.True(t, partition.Equal(cores, want), "got %v", partition.Sorted(cores))
}

func TestRecursive_LooseSignificanceKeepsFlipper(t *testing.T) {
	opts := DefaultOptions()
	opts.Significance = 0.6
	opts.Reference = 0

	cores, err := NewRecursive().Cluster(flipping(), opts)
	require.NoError(t, err)
	assert.True(t, partition.Flatten(cores).Has("x"))
}

func TestRecursive_IsolatedSingleton(t *testing.T) {
	parts := repeat(5, []network.Node{"a", "b"}, []network.Node{"z"})

	cores, err := NewRecursive().Cluster(parts, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, partition.Flatten(cores).Has("z"))
}

func TestRecursive_Deterministic(t *testing.T) {
	first, err := NewRecursive().Cluster(flipping(), DefaultOptions())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := NewRecursive().Cluster(flipping(), DefaultOptions())
		require.NoError(t, err)
		assert.True(t, partition.Equal(first, again))
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", DefaultOptions(), false},
		{"zero significance", Options{Significance: 0, MinCoreSize: 1, Reference: -1}, true},
		{"significance one", Options{Significance: 1, MinCoreSize: 1, Reference: -1}, true},
		{"zero core size", Options{Significance: 0.1, MinCoreSize: 0, Reference: -1}, true},
		{"bad reference", Options{Significance: 0.1, MinCoreSize: 1, Reference: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "error: %v", err)
		})
	}

	opts := DefaultOptions()
	opts.Reference = 20
	_, err := NewRecursive().Cluster(flipping(), opts)
	assert.Error(t, err)
}

func TestMedoid(t *testing.T) {
	parts := []partition.Partition{
		partition.FromSlices([][]network.Node{{"a", "b", "c", "d"}}),
		partition.FromSlices([][]network.Node{{"a", "b"}, {"c", "d"}}),
		partition.FromSlices([][]network.Node{{"a"}, {"b"}, {"c"}, {"d"}}),
	}

	assert.Equal(t, 1, newEnsemble(parts).medoid())
	assert.InDelta(t, 1.0, newEnsemble(parts).agreement(0, 0), 1e-12)
	assert.InDelta(t, 0.5, newEnsemble(parts).agreement(0, 1), 1e-12)
}

func TestRecursive_Export(t *testing.T) {
	parts := flipping()
	rec := NewRecursive()
	var _ Exporter = rec

	cores, err := rec.Cluster(parts, DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "upset.json")
	require.NoError(t, rec.Export(parts, cores, visualization.UpsetOptions{Path: path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"unstable": 1`)
}
