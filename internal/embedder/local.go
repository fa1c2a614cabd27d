package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
)

const (
	ProviderLocal = "local"

	LocalModel     = "local-hash-embeddings"
	LocalDimension = 384
)

// LocalProvider produces deterministic embeddings derived from a content
// hash. The vectors carry no semantic meaning, but they are stable across
// runs and machines, which makes offline runs and byte-identical test
// fixtures possible without network access.
type LocalProvider struct{}

// NewLocalProvider creates the offline provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors, nil
}

// hashVector expands sha256(text) into LocalDimension values by chained
// hashing, then normalizes to unit length.
func hashVector(text string) []float32 {
	vector := make([]float32, LocalDimension)
	block := sha256.Sum256([]byte(text))
	filled := 0
	for filled < LocalDimension {
		for _, b := range block {
			if filled == LocalDimension {
				break
			}
			vector[filled] = float32(b)/127.5 - 1.0
			filled++
		}
		var counter [4]byte
		binary.LittleEndian.PutUint32(counter[:], uint32(filled))
		block = sha256.Sum256(append(block[:], counter[:]...))
	}
	return NormalizeVector(vector)
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Model() string {
	return LocalModel
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Close() error {
	return nil
}
