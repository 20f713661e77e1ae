package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-netensemble/pkg/ensemble"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(12)
)

// maxListed caps how many unstable nodes are printed by name
const maxListed = 10

func printSummary(w io.Writer, e *ensemble.Ensemble, saved []string) error {
	parts, err := e.Partitions()
	if err != nil {
		return err
	}
	cores, err := e.Cores()
	if err != nil {
		return err
	}
	unstable, err := e.UnstableNodes()
	if err != nil {
		return err
	}

	rows := [][2]string{
		{"run", e.RunID()},
		{"mode", e.Mode().String()},
		{"nodes", fmt.Sprint(e.Nodes().Len())},
		{"partitions", fmt.Sprint(len(parts))},
		{"cores", fmt.Sprint(len(cores))},
		{"unstable", fmt.Sprint(unstable.Len())},
	}
	for i, c := range cores {
		rows = append(rows, [2]string{fmt.Sprintf("core %d", i), fmt.Sprintf("%d nodes", c.Len())})
	}
	if n := unstable.Len(); n > 0 {
		names := make([]string, 0, maxListed)
		for _, node := range unstable.Sorted() {
			if len(names) == maxListed {
				names = append(names, fmt.Sprintf("... %d more", n-maxListed))
				break
			}
			names = append(names, string(node))
		}
		rows = append(rows, [2]string{"unstable", strings.Join(names, ", ")})
	}
	for _, s := range saved {
		rows = append(rows, [2]string{"snapshot", s})
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = keyStyle.Render(r[0]) + " " + r[1]
	}

	_, err = fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("netensemble"),
		boxStyle.Render(strings.Join(lines, "\n")),
	))
	return err
}
