package network

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformedLine is returned for edge-list lines that cannot be parsed
var ErrMalformedLine = errors.New("malformed edge list line")

// ReadOptions configures ReadEdgeList
type ReadOptions struct {
	// Delimiter separates columns. Zero splits on whitespace and commas.
	Delimiter rune
	// DefaultWeight is used when a line has no weight column.
	DefaultWeight float64
}

// DefaultReadOptions returns the options used by the CLI
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		DefaultWeight: 1.0,
	}
}

// ReadEdgeList parses "src dst [weight]" lines into a network. A line with
// a single column declares an isolated node. Blank lines and lines starting
// with '#' are skipped.
func ReadEdgeList(r io.Reader, opts ReadOptions) (*Network, error) {
	net := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitFields(line, opts.Delimiter)
		if len(fields) == 1 {
			net.AddNode(Node(fields[0]))
			continue
		}
		if len(fields) == 0 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: %w: expected 1 to 3 columns, got %d", lineNo, ErrMalformedLine, len(fields))
		}

		weight := opts.DefaultWeight
		if len(fields) == 3 {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrMalformedLine, err)
			}
			weight = w
		}

		if err := net.AddEdge(Node(fields[0]), Node(fields[1]), weight); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}

	return net, nil
}

func splitFields(line string, delim rune) []string {
	var raw []string
	if delim == 0 {
		raw = strings.FieldsFunc(line, func(r rune) bool {
			return unicode.IsSpace(r) || r == ','
		})
	} else {
		raw = strings.Split(line, string(delim))
	}

	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// WriteEdgeList writes the network as tab separated "src dst weight" lines
// followed by one single-column line per isolated node.
func WriteEdgeList(w io.Writer, net *Network) error {
	bw := bufio.NewWriter(w)

	connected := make(map[Node]bool, net.NodeCount())
	for _, e := range net.edges {
		connected[e.From] = true
		connected[e.To] = true
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", e.From, e.To, strconv.FormatFloat(e.Weight, 'g', -1, 64)); err != nil {
			return err
		}
	}
	for _, n := range net.nodes {
		if connected[n] {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s\n", n); err != nil {
			return err
		}
	}

	return bw.Flush()
}
