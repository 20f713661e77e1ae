package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netensemble/pkg/store"
)

const twoGroups = `# two triangles joined by a weak arc
a b 5
b c 5
c a 5
d e 5
e f 5
f d 5
c d 0.5
lonely
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "")

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeEdges(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCommand_Bootstrap(t *testing.T) {
	edges := writeEdges(t, "net.txt", twoGroups)
	dir := t.TempDir()
	export := filepath.Join(dir, "upset.json")

	out, err := execute(t, "run", edges,
		"--bootstraps", "8",
		"--trials", "1",
		"--workers", "2",
		"--store-dir", dir,
		"--export", export,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "single_network_bootstrap")
	assert.Contains(t, out, "partitions")
	assert.FileExists(t, export)

	matches, err := filepath.Glob(filepath.Join(dir, "*"+store.Extension))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	runID := strings.TrimSuffix(filepath.Base(matches[0]), store.Extension)
	snap, err := store.NewFileStore(dir).Load(runID)
	require.NoError(t, err)
	assert.Len(t, snap.Partitions, 8)
	assert.Contains(t, snap.Nodes, "lonely")
}

func TestRunCommand_Ensemble(t *testing.T) {
	first := writeEdges(t, "one.txt", "x y 1\ny z 1\n")
	second := writeEdges(t, "two.txt", "x z 2\nz y 1\n")

	out, err := execute(t, "run", first, second, "--detector", "label_propagation", "--trials", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "multi_network")
}

func TestRunCommand_Errors(t *testing.T) {
	edges := writeEdges(t, "net.txt", twoGroups)

	_, err := execute(t, "run", edges, "--detector", "infomap")
	assert.Error(t, err)

	_, err = execute(t, "run", edges, "--bootstraps", "0")
	assert.Error(t, err)

	_, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	zero := writeEdges(t, "zero.txt", "a b 0\n")
	_, err = execute(t, "run", zero, "--bootstraps", "3")
	assert.Error(t, err)
}

func TestRunCommand_ConfigFile(t *testing.T) {
	edges := writeEdges(t, "net.txt", twoGroups)
	cfg := writeEdges(t, "run.yaml", "ensemble:\n  num_bootstraps: 4\n  num_trials: 1\n")

	out, err := execute(t, "run", edges, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "partitions")
	assert.Contains(t, out, " 4")
}

func TestBootstrapCommand(t *testing.T) {
	edges := writeEdges(t, "net.txt", twoGroups)
	dir := filepath.Join(t.TempDir(), "reps")

	out, err := execute(t, "bootstrap", edges, "--out", dir, "--bootstraps", "12", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 12 replicates")

	files, err := filepath.Glob(filepath.Join(dir, "replicate-*.tsv"))
	require.NoError(t, err)
	assert.Len(t, files, 12)
	assert.FileExists(t, filepath.Join(dir, "replicate-00.tsv"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "netensemble version dev\n", out)
}
