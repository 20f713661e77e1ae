package visualization

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
)

func sampleEnsemble() ([]partition.Partition, partition.Partition) {
	parts := []partition.Partition{
		partition.FromSlices([][]network.Node{{"a", "b", "c"}, {"d", "e"}}),
		partition.FromSlices([][]network.Node{{"a", "b", "c"}, {"d"}, {"e"}}),
		partition.FromSlices([][]network.Node{{"a", "b"}, {"c", "d", "e"}}),
	}
	cores := partition.FromSlices([][]network.Node{{"a", "b"}})
	return parts, cores
}

func TestBuildUpset(t *testing.T) {
	parts, cores := sampleEnsemble()

	u := BuildUpset(parts, cores)

	if u.Partitions != 3 || u.Nodes != 5 || u.Unstable != 3 {
		t.Errorf("Unexpected totals: %+v", u)
	}
	if len(u.Cores) != 1 {
		t.Fatalf("Expected 1 core, got %d", len(u.Cores))
	}
	if u.Cores[0].Stability != 1 {
		t.Errorf("Expected stability 1, got %v", u.Cores[0].Stability)
	}
	if got := strings.Join(u.Cores[0].Nodes, ","); got != "a,b" {
		t.Errorf("Expected nodes a,b, got %s", got)
	}
	if len(u.Bars) != 1 || u.Bars[0] != (Bar{Core: 0, Overlap: 2, Count: 3}) {
		t.Errorf("Unexpected bars: %+v", u.Bars)
	}
}

func TestBuildUpset_SplitCore(t *testing.T) {
	parts, _ := sampleEnsemble()
	cores := partition.FromSlices([][]network.Node{{"c", "d"}})

	u := BuildUpset(parts, cores)

	if got := u.Cores[0].Stability; got < 0.33 || got > 0.34 {
		t.Errorf("Expected stability 1/3, got %v", got)
	}
	// two partitions split {c,d} into 1+1, one keeps it whole
	want := []Bar{{Core: 0, Overlap: 1, Count: 4}, {Core: 0, Overlap: 2, Count: 1}}
	if len(u.Bars) != len(want) {
		t.Fatalf("Expected %d bars, got %+v", len(want), u.Bars)
	}
	for i := range want {
		if u.Bars[i] != want[i] {
			t.Errorf("bar %d: expected %+v, got %+v", i, want[i], u.Bars[i])
		}
	}

	u.Truncate(1)
	if len(u.Bars) != 1 {
		t.Errorf("Expected 1 bar after truncate, got %d", len(u.Bars))
	}
}

func TestRender_Formats(t *testing.T) {
	parts, cores := sampleEnsemble()
	u := BuildUpset(parts, cores)

	var buf bytes.Buffer
	if err := Render(&buf, u, FormatJSON); err != nil {
		t.Fatalf("JSON render failed: %v", err)
	}
	var fromJSON Upset
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if fromJSON.Unstable != 3 {
		t.Errorf("Expected unstable 3, got %d", fromJSON.Unstable)
	}

	buf.Reset()
	if err := Render(&buf, u, FormatYAML); err != nil {
		t.Fatalf("YAML render failed: %v", err)
	}
	var fromYAML Upset
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("Invalid YAML: %v", err)
	}
	if len(fromYAML.Cores) != 1 {
		t.Errorf("Expected 1 core in YAML, got %d", len(fromYAML.Cores))
	}

	text := RenderText(u)
	for _, want := range []string{"1 cores over 3 partitions", "5 nodes, 3 unstable", "core 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in text output:\n%s", want, text)
		}
	}

	if err := Render(&buf, u, "svg"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestWriteFile(t *testing.T) {
	parts, cores := sampleEnsemble()
	path := filepath.Join(t.TempDir(), "out", "upset.yaml")

	if err := WriteFile(BuildUpset(parts, cores), UpsetOptions{Path: path}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "partitions: 3") {
		t.Errorf("Expected YAML inferred from extension, got:\n%s", data)
	}
}

func TestUpsetOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    UpsetOptions
		wantErr bool
	}{
		{"valid", UpsetOptions{Path: "x.json", Format: "json"}, false},
		{"inferred format", UpsetOptions{Path: "x.txt"}, false},
		{"missing path", UpsetOptions{Format: "json"}, true},
		{"bad format", UpsetOptions{Path: "x", Format: "svg"}, true},
		{"negative bars", UpsetOptions{Path: "x", MaxBars: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
