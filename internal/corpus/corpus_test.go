package corpus

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eholt723/ragprep/pkg/types"
)

func sampleIndex() Index {
	return Index{
		Dim:        3,
		ChunkCount: 2,
		DocCount:   1,
		Model:      "test-model",
		CreatedUTC: 1700000000,
		Domains:    []string{"biology", "general"},
		Chunks: []types.Record{
			{
				ID: "doc#0000", DocID: "doc", Title: "Doc", Source: "doc.txt",
				Offset: 0, Text: "first chunk text",
				Meta: types.RecordMeta{Domain: "biology"},
			},
			{
				ID: "doc#0001", DocID: "doc", Title: "Doc", Source: "doc.txt",
				Offset: 1, Text: "second chunk text, a bit longer",
				Meta: types.RecordMeta{Domain: "general"},
			},
		},
	}
}

func sampleVectors() [][]float32 {
	return [][]float32{
		{1, 0, 0},
		{0, 0.6, 0.8},
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	manifest, err := Write(dir, sampleIndex(), sampleVectors())
	require.NoError(t, err)

	// Binary file: [2, 3] float32, row-major, little-endian, no header.
	embData, err := os.ReadFile(filepath.Join(dir, EmbeddingsFileName))
	require.NoError(t, err)
	require.Len(t, embData, 2*3*4)

	readFloat := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(embData[i*4:]))
	}
	assert.Equal(t, float32(1), readFloat(0))
	assert.Equal(t, float32(0.6), readFloat(4), "row 1 starts at offset dim*4")
	assert.Equal(t, float32(0.8), readFloat(5))

	// Index round-trips with text intact.
	indexData, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	require.NoError(t, err)
	var got Index
	require.NoError(t, json.Unmarshal(indexData, &got))
	assert.Equal(t, sampleIndex(), got)

	// Manifest checksum matches the file on disk.
	sum := sha256.Sum256(embData)
	assert.Equal(t, hex.EncodeToString(sum[:]), manifest.Files[EmbeddingsFileName].SHA256)
	assert.Equal(t, []int{2, 3}, manifest.Files[EmbeddingsFileName].Shape)
	assert.Equal(t, "float32", manifest.Files[EmbeddingsFileName].DType)
	assert.Equal(t, int64(len(indexData)), manifest.Files[IndexFileName].Bytes)
	assert.NotEmpty(t, manifest.RunID)

	// Stats.
	assert.Equal(t, 1, manifest.Stats.Docs)
	assert.Equal(t, 2, manifest.Stats.Chunks)
	wantAvg := (len("first chunk text") + len("second chunk text, a bit longer")) / 2
	assert.Equal(t, wantAvg, manifest.Stats.AvgChunkChars)
	assert.Equal(t, map[string]int{"biology": 1, "general": 1}, manifest.Stats.DomainCounts)

	// Manifest file parses back.
	manifestData, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(manifestData, &m))
	assert.Equal(t, manifest.Model, m.Model)
}

func TestWrite_Idempotent(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	_, err := Write(dirA, sampleIndex(), sampleVectors())
	require.NoError(t, err)
	_, err = Write(dirB, sampleIndex(), sampleVectors())
	require.NoError(t, err)

	indexA, err := os.ReadFile(filepath.Join(dirA, IndexFileName))
	require.NoError(t, err)
	indexB, err := os.ReadFile(filepath.Join(dirB, IndexFileName))
	require.NoError(t, err)
	assert.Equal(t, indexA, indexB, "same input and timestamp produce a byte-identical index")

	embA, err := os.ReadFile(filepath.Join(dirA, EmbeddingsFileName))
	require.NoError(t, err)
	embB, err := os.ReadFile(filepath.Join(dirB, EmbeddingsFileName))
	require.NoError(t, err)
	assert.Equal(t, embA, embB)
}

func TestWrite_Overwrites(t *testing.T) {
	dir := t.TempDir()

	_, err := Write(dir, sampleIndex(), sampleVectors())
	require.NoError(t, err)

	// A second run with fewer records replaces the artifacts.
	idx := sampleIndex()
	idx.Chunks = idx.Chunks[:1]
	idx.ChunkCount = 1
	_, err = Write(dir, idx, sampleVectors()[:1])
	require.NoError(t, err)

	embData, err := os.ReadFile(filepath.Join(dir, EmbeddingsFileName))
	require.NoError(t, err)
	assert.Len(t, embData, 1*3*4)
}

func TestWrite_CountMismatch(t *testing.T) {
	_, err := Write(t.TempDir(), sampleIndex(), sampleVectors()[:1])
	assert.Error(t, err)
}

func TestWrite_DimensionMismatch(t *testing.T) {
	vectors := sampleVectors()
	vectors[1] = []float32{1}
	_, err := Write(t.TempDir(), sampleIndex(), vectors)
	assert.Error(t, err)
}
