package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-netensemble/pkg/metrics"
)

// Extension is the file suffix of stored snapshots
const Extension = ".snap"

// FileStore keeps snapshots as files in Dir
type FileStore struct {
	Dir     string
	Metrics *metrics.Registry
}

// NewFileStore returns a store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// PathFor returns the file a run's snapshot is stored in
func (fs *FileStore) PathFor(runID string) string {
	return filepath.Join(fs.Dir, runID+Extension)
}

// Save writes s and returns its path. The file is replaced atomically.
func (fs *FileStore) Save(s *Snapshot) (string, error) {
	data, err := Encode(s)
	if err == nil {
		err = fs.write(fs.PathFor(s.RunID), data)
	}
	fs.record("save", len(data), err)
	if err != nil {
		return "", err
	}
	return fs.PathFor(s.RunID), nil
}

func (fs *FileStore) write(path string, data []byte) error {
	if err := os.MkdirAll(fs.Dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(fs.Dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads the snapshot of runID
func (fs *FileStore) Load(runID string) (*Snapshot, error) {
	data, err := os.ReadFile(fs.PathFor(runID))
	if errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("%w: %s", ErrSnapshotNotFound, runID)
	}
	var s *Snapshot
	if err == nil {
		s, err = Decode(data)
	}
	fs.record("load", len(data), err)
	return s, err
}

func (fs *FileStore) record(op string, size int, err error) {
	if fs.Metrics != nil {
		fs.Metrics.RecordSnapshot("file", op, size, err)
	}
}
