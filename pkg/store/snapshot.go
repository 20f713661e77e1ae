// Package store persists ensemble results as compressed, checksummed
// snapshots on local disk or in S3.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
)

// Common sentinel errors
var (
	ErrCorruptSnapshot  = errors.New("snapshot is corrupt")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrEmptyRunID       = errors.New("snapshot has no run id")
)

// SnapshotVersion is the current snapshot schema version
const SnapshotVersion = 1

var magic = [4]byte{'N', 'E', 'S', 'N'}

// headerSize is magic plus payload length; the trailer is a CRC32
const (
	headerSize  = 8
	trailerSize = 4
)

// RunConfig records the parameters a snapshot was produced with
type RunConfig struct {
	Seed               uint64  `json:"seed"`
	NumBootstraps      int     `json:"num_bootstraps"`
	Resolution         float64 `json:"resolution"`
	VariableResolution bool    `json:"variable_resolution"`
	NumTrials          int     `json:"num_trials"`
}

// Snapshot is the serialisable state of an ensemble run.
// Node sets are stored as sorted slices.
type Snapshot struct {
	Version    int          `json:"version"`
	RunID      string       `json:"run_id"`
	CreatedAt  time.Time    `json:"created_at"`
	Mode       string       `json:"mode"`
	Config     RunConfig    `json:"config"`
	Nodes      []string     `json:"nodes"`
	Partitions [][][]string `json:"partitions"`
	Cores      [][]string   `json:"cores"`
	Unstable   []string     `json:"unstable"`
}

// EncodeNodes converts a node set to a sorted string slice
func EncodeNodes(s partition.NodeSet) []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, n := range sorted {
		out[i] = string(n)
	}
	return out
}

// DecodeNodes converts a string slice back to a node set
func DecodeNodes(nodes []string) partition.NodeSet {
	s := partition.NewNodeSet()
	for _, n := range nodes {
		s.Add(network.Node(n))
	}
	return s
}

// EncodePartition converts a partition to nested sorted string slices
func EncodePartition(p partition.Partition) [][]string {
	out := make([][]string, 0, len(p))
	for _, module := range partition.Canonical(p) {
		out = append(out, EncodeNodes(module))
	}
	return out
}

// DecodePartition is the inverse of EncodePartition
func DecodePartition(modules [][]string) partition.Partition {
	p := make(partition.Partition, 0, len(modules))
	for _, m := range modules {
		p = append(p, DecodeNodes(m))
	}
	return p
}

// Encode frames s as magic, length, snappy compressed JSON and a CRC32 of
// the compressed payload.
func Encode(s *Snapshot) ([]byte, error) {
	if s.RunID == "" {
		return nil, ErrEmptyRunID
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	var buf bytes.Buffer
	buf.Grow(headerSize + len(compressed) + trailerSize)
	buf.Write(magic[:])
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(compressed))); err != nil {
		return nil, err
	}
	buf.Write(compressed)
	if err := binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a framed snapshot
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < headerSize+trailerSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrCorruptSnapshot, len(data))
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptSnapshot)
	}

	size := int(binary.BigEndian.Uint32(data[4:headerSize]))
	if size != len(data)-headerSize-trailerSize {
		return nil, fmt.Errorf("%w: length %d does not match payload", ErrCorruptSnapshot, size)
	}

	compressed := data[headerSize : headerSize+size]
	checksum := binary.BigEndian.Uint32(data[headerSize+size:])
	if crc32.ChecksumIEEE(compressed) != checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptSnapshot)
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return &s, nil
}
