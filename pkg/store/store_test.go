package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netensemble/pkg/network"
	"github.com/dd0wney/cluso-netensemble/pkg/partition"
)

func sampleSnapshot() *Snapshot {
	parts := []partition.Partition{
		partition.FromSlices([][]network.Node{{"a", "b"}, {"c"}}),
		partition.FromSlices([][]network.Node{{"a", "b", "c"}}),
	}
	s := &Snapshot{
		Version:   SnapshotVersion,
		RunID:     "run-1",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Mode:      "single_network_bootstrap",
		Config:    RunConfig{Seed: 42, NumBootstraps: 2, Resolution: 1, NumTrials: 5},
		Nodes:     EncodeNodes(partition.NewNodeSet("c", "a", "b")),
		Cores:     EncodePartition(partition.FromSlices([][]network.Node{{"a", "b"}})),
		Unstable:  []string{"c"},
	}
	for _, p := range parts {
		s.Partitions = append(s.Partitions, EncodePartition(p))
	}
	return s
}

func TestEncodeDecode(t *testing.T) {
	want := sampleSnapshot()

	data, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"a", "b", "c"}, got.Nodes)
	assert.True(t, partition.Equal(DecodePartition(got.Partitions[0]), partition.FromSlices([][]network.Node{{"a", "b"}, {"c"}})))
}

func TestEncodeDecode_EmptyCoresSurvive(t *testing.T) {
	computed := sampleSnapshot()
	computed.Cores = EncodePartition(partition.Partition{})
	computed.Unstable = EncodeNodes(partition.NewNodeSet())

	data, err := Encode(computed)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, got.Cores)
	assert.Empty(t, got.Cores)
	assert.NotNil(t, got.Unstable)

	pending := sampleSnapshot()
	pending.Cores = nil
	pending.Unstable = nil

	data, err = Encode(pending)
	require.NoError(t, err)
	got, err = Decode(data)
	require.NoError(t, err)
	assert.Nil(t, got.Cores)
	assert.Nil(t, got.Unstable)
}

func TestDecode_Corruption(t *testing.T) {
	data, err := Encode(sampleSnapshot())
	require.NoError(t, err)

	flipped := bytes.Clone(data)
	flipped[headerSize+2] ^= 0xff

	badMagic := bytes.Clone(data)
	badMagic[0] = 'X'

	tests := map[string][]byte{
		"short":     data[:5],
		"truncated": data[:len(data)-1],
		"payload":   flipped,
		"magic":     badMagic,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(input)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}

func TestEncode_RequiresRunID(t *testing.T) {
	_, err := Encode(&Snapshot{})
	assert.ErrorIs(t, err, ErrEmptyRunID)
}

func TestFileStore(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	snap := sampleSnapshot()

	path, err := fs.Save(snap)
	require.NoError(t, err)
	assert.Equal(t, fs.PathFor("run-1"), path)

	got, err := fs.Load("run-1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	_, err = fs.Load("missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Store(t *testing.T) {
	objects := newFakeObjects()
	st := NewS3Store(objects, "results", "runs/2026")
	snap := sampleSnapshot()
	ctx := context.Background()

	key, err := st.Save(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, "runs/2026/run-1.snap", key)
	assert.Contains(t, objects.objects, "results/runs/2026/run-1.snap")

	got, err := st.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	_, err = st.Load(ctx, "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestS3Store_PutFailure(t *testing.T) {
	objects := newFakeObjects()
	objects.putErr = errors.New("access denied")
	st := NewS3Store(objects, "results", "")

	_, err := st.Save(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, objects.putErr)
}
