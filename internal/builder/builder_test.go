package builder

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eholt723/ragprep/internal/config"
	"github.com/eholt723/ragprep/internal/corpus"
	"github.com/eholt723/ragprep/internal/embedder"
	"github.com/eholt723/ragprep/pkg/types"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// longText produces n paragraphs that each survive chunk pruning.
func longText(n int, seed string) string {
	paras := make([]string, n)
	for i := range paras {
		paras[i] = strings.Repeat(seed, 120/len(seed))
	}
	return strings.Join(paras, "\n\n")
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Domains.Known = []string{"biology", "physics"}
	cfg.Domains.Default = "general"
	return cfg
}

func buildTestCorpus(t *testing.T, cfg *config.Config) (string, corpus.Index, *Statistics) {
	t.Helper()
	in := t.TempDir()
	writeFile(t, in, "biology/cells.txt", longText(3, "ab "))
	writeFile(t, in, "notes.txt", longText(2, "cd "))
	writeFile(t, in, "records.jsonl", `{"id": "rec1", "text": "`+strings.Repeat("ef ", 40)+`", "domain": "physics"}`)

	out := t.TempDir()
	b := New(cfg, embedder.NewLocalProvider())
	stats, err := b.Build(context.Background(), in, out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, corpus.IndexFileName))
	require.NoError(t, err)
	var idx corpus.Index
	require.NoError(t, json.Unmarshal(data, &idx))
	return out, idx, stats
}

func TestBuild_EndToEnd(t *testing.T) {
	out, idx, stats := buildTestCorpus(t, testConfig())

	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, stats.Records, idx.ChunkCount)
	assert.Equal(t, embedder.LocalDimension, idx.Dim)
	assert.Equal(t, embedder.LocalModel, idx.Model)
	assert.Equal(t, []string{"biology", "physics"}, idx.Domains)
	assert.NotZero(t, idx.CreatedUTC)
	require.Len(t, idx.Chunks, idx.ChunkCount)

	// Positional contract: one binary row per index chunk.
	embData, err := os.ReadFile(filepath.Join(out, corpus.EmbeddingsFileName))
	require.NoError(t, err)
	assert.Len(t, embData, idx.ChunkCount*idx.Dim*4)

	// Record ids are pairwise distinct.
	seen := make(map[string]bool)
	for _, r := range idx.Chunks {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}

	// Domain metadata flows through to records.
	domains := make(map[string]bool)
	for _, r := range idx.Chunks {
		domains[r.Meta.Domain] = true
	}
	assert.True(t, domains["biology"])
	assert.True(t, domains["physics"])
	assert.True(t, domains["general"])

	// Manifest present and consistent.
	manifestData, err := os.ReadFile(filepath.Join(out, corpus.ManifestFileName))
	require.NoError(t, err)
	var m corpus.Manifest
	require.NoError(t, json.Unmarshal(manifestData, &m))
	assert.Equal(t, idx.ChunkCount, m.Stats.Chunks)
	assert.Equal(t, []int{idx.ChunkCount, idx.Dim}, m.Files[corpus.EmbeddingsFileName].Shape)
}

func TestBuild_Reproducible(t *testing.T) {
	_, first, _ := buildTestCorpus(t, testConfig())
	_, second, _ := buildTestCorpus(t, testConfig())

	// Everything except the creation timestamp is identical.
	first.CreatedUTC = 0
	second.CreatedUTC = 0
	assert.Equal(t, first, second)
}

func TestBuild_ParallelOrderMatchesSequential(t *testing.T) {
	seq := testConfig()
	seq.Build.Workers = 1
	par := testConfig()
	par.Build.Workers = 8

	_, sequential, _ := buildTestCorpus(t, seq)
	_, parallel, _ := buildTestCorpus(t, par)

	sequential.CreatedUTC = 0
	parallel.CreatedUTC = 0
	assert.Equal(t, sequential, parallel)
}

func TestBuild_NoDocumentsIsFatal(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	b := New(testConfig(), embedder.NewLocalProvider())
	_, err := b.Build(context.Background(), in, out)
	require.ErrorIs(t, err, types.ErrNoDocuments)

	// Nothing is written.
	_, statErr := os.Stat(filepath.Join(out, corpus.IndexFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_AllChunksPrunedIsFatal(t *testing.T) {
	in := t.TempDir()
	writeFile(t, in, "tiny.txt", "too short to keep")
	out := t.TempDir()

	b := New(testConfig(), embedder.NewLocalProvider())
	_, err := b.Build(context.Background(), in, out)
	require.ErrorIs(t, err, types.ErrNoChunks)

	_, statErr := os.Stat(filepath.Join(out, corpus.EmbeddingsFileName))
	assert.True(t, os.IsNotExist(statErr))
}
