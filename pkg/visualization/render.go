package visualization

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-netensemble/pkg/validation"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// ErrUnknownFormat is returned for an unsupported export format
var ErrUnknownFormat = errors.New("unknown export format")

// UpsetOptions configures an UpSet export
type UpsetOptions struct {
	Path    string `yaml:"path" validate:"required"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json yaml text"`
	MaxBars int    `yaml:"max_bars" validate:"min=0"`
}

// Validate checks the options
func (o UpsetOptions) Validate() error {
	return validation.NewConfigValidator("export").
		Struct("upset", o).
		Validate()
}

// format returns the explicit format, or one inferred from the file
// extension, defaulting to JSON
func (o UpsetOptions) format() string {
	if o.Format != "" {
		return o.Format
	}
	switch strings.ToLower(filepath.Ext(o.Path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".txt":
		return FormatText
	default:
		return FormatJSON
	}
}

// WriteFile renders u to opts.Path
func WriteFile(u *Upset, opts UpsetOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	u.Truncate(opts.MaxBars)

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Render(f, u, opts.format()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render writes u to w in the given format
func Render(w io.Writer, u *Upset, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(u)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(u); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		_, err := io.WriteString(w, RenderText(u))
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Width(14)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

const barWidth = 40

// RenderText draws u as a horizontal bar chart
func RenderText(u *Upset) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("UpSet: %d cores over %d partitions", len(u.Cores), u.Partitions)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d nodes, %d unstable", u.Nodes, u.Unstable)))
	b.WriteString("\n\n")

	for _, c := range u.Cores {
		label := labelStyle.Render(fmt.Sprintf("core %d", c.Index))
		fmt.Fprintf(&b, "%s size %-4d stability %.3f\n", label, c.Size, c.Stability)
	}
	if len(u.Bars) > 0 {
		b.WriteString("\n")
	}

	peak := 0
	for _, bar := range u.Bars {
		peak = max(peak, bar.Count)
	}
	for _, bar := range u.Bars {
		n := 1
		if peak > 0 {
			n = max(1, bar.Count*barWidth/peak)
		}
		label := labelStyle.Render(fmt.Sprintf("core %d ∩ %d", bar.Core, bar.Overlap))
		fmt.Fprintf(&b, "%s %s %d\n", label, barStyle.Render(strings.Repeat("█", n)), bar.Count)
	}

	return b.String()
}
