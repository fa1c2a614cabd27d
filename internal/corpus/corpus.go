// Package corpus persists the built retrieval corpus: a raw float32
// embedding matrix, a metadata index carrying the chunk text, and a
// manifest with checksums and aggregate statistics.
//
// Row i of the embedding file holds the vector for Chunks[i] in the
// index. That positional contract is the only linkage between the two
// files; nothing may filter or reorder records after embedding.
package corpus

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/eholt723/ragprep/pkg/types"
)

// Output file names, fixed for downstream compatibility.
const (
	EmbeddingsFileName = "embeddings.f32"
	IndexFileName      = "index.json"
	ManifestFileName   = "manifest.json"
)

// Index is the primary artifact consumed for prompt augmentation: it
// carries both the searchable chunk text and, by position, the join key
// into the embedding file.
type Index struct {
	Dim        int            `json:"dim"`
	ChunkCount int            `json:"chunk_count"`
	DocCount   int            `json:"doc_count"`
	Model      string         `json:"model"`
	CreatedUTC int64          `json:"created_utc"`
	Domains    []string       `json:"domains"`
	Chunks     []types.Record `json:"chunks"`
}

// Manifest describes the written artifact set.
type Manifest struct {
	Model string              `json:"model"`
	Dim   int                 `json:"dim"`
	RunID string              `json:"run_id"`
	Files map[string]FileInfo `json:"files"`
	Stats Stats               `json:"stats"`
}

// FileInfo describes one output file. The sha256/dtype/shape fields apply
// to the binary embedding file; the bytes field to the index.
type FileInfo struct {
	SHA256 string `json:"sha256,omitempty"`
	DType  string `json:"dtype,omitempty"`
	Shape  []int  `json:"shape,omitempty"`
	Bytes  int64  `json:"bytes,omitempty"`
}

// Stats holds aggregate corpus statistics.
type Stats struct {
	Docs          int            `json:"docs"`
	Chunks        int            `json:"chunks"`
	AvgChunkChars int            `json:"avg_chunk_chars"`
	DomainCounts  map[string]int `json:"domain_counts"`
}

// Write persists the corpus to dir, creating it if needed. vectors must
// have one row per index chunk, all of dimension idx.Dim. Returns the
// manifest it wrote. Failures leave partial files behind; a later
// successful run overwrites them.
func Write(dir string, idx Index, vectors [][]float32) (*Manifest, error) {
	if len(vectors) != len(idx.Chunks) {
		return nil, fmt.Errorf("vector count %d does not match chunk count %d", len(vectors), len(idx.Chunks))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	embHash, err := writeEmbeddings(filepath.Join(dir, EmbeddingsFileName), vectors, idx.Dim)
	if err != nil {
		return nil, err
	}

	indexPath := filepath.Join(dir, IndexFileName)
	indexData, err := json.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("marshal index: %w", err)
	}
	if err := os.WriteFile(indexPath, indexData, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", IndexFileName, err)
	}

	manifest := &Manifest{
		Model: idx.Model,
		Dim:   idx.Dim,
		RunID: uuid.NewString(),
		Files: map[string]FileInfo{
			EmbeddingsFileName: {
				SHA256: embHash,
				DType:  "float32",
				Shape:  []int{len(idx.Chunks), idx.Dim},
			},
			IndexFileName: {
				Bytes: int64(len(indexData)),
			},
		},
		Stats: computeStats(idx),
	}

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), manifestData, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", ManifestFileName, err)
	}

	return manifest, nil
}

// writeEmbeddings streams vectors to path as headerless little-endian
// float32 rows and returns the file's sha256.
func writeEmbeddings(path string, vectors [][]float32, dim int) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	hasher := sha256.New()
	w := io.MultiWriter(f, hasher)

	row := make([]byte, dim*4)
	for i, vec := range vectors {
		if len(vec) != dim {
			return "", fmt.Errorf("vector %d has dimension %d, want %d", i, len(vec), dim)
		}
		for j, v := range vec {
			binary.LittleEndian.PutUint32(row[j*4:], math.Float32bits(v))
		}
		if _, err := w.Write(row); err != nil {
			return "", fmt.Errorf("write embeddings: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close embeddings file: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func computeStats(idx Index) Stats {
	totalChars := 0
	domainCounts := make(map[string]int)
	for _, r := range idx.Chunks {
		totalChars += utf8.RuneCountInString(r.Text)
		domainCounts[r.Meta.Domain]++
	}
	avg := 0
	if len(idx.Chunks) > 0 {
		avg = totalChars / len(idx.Chunks)
	}
	return Stats{
		Docs:          idx.DocCount,
		Chunks:        idx.ChunkCount,
		AvgChunkChars: avg,
		DomainCounts:  domainCounts,
	}
}
