package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "embeddings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	vector := []float32{0.5, -1.25, 3.75, 0}
	require.NoError(t, s.Put(ctx, "model-a", "hash1", vector))

	got, ok, err := s.Get(ctx, "model-a", "hash1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vector, got)
}

func TestStore_MissingEntry(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get(context.Background(), "model-a", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_KeyedByModel(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "model-a", "hash1", []float32{1}))

	_, ok, err := s.Get(ctx, "model-b", "hash1")
	require.NoError(t, err)
	assert.False(t, ok, "same hash under a different model misses")
}

func TestStore_Replace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "m", "h", []float32{1, 2}))
	require.NoError(t, s.Put(ctx, "m", "h", []float32{3, 4}))

	got, ok, err := s.Get(ctx, "m", "h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, got)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "m", "h", []float32{7}))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	got, ok, err := s2.Get(ctx, "m", "h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{7}, got)
}

func TestVectorSerialization(t *testing.T) {
	vector := []float32{0, 1.5, -2.25, 1e-7}
	assert.Equal(t, vector, deserializeVector(serializeVector(vector)))
	assert.Len(t, serializeVector(vector), len(vector)*4)
}
