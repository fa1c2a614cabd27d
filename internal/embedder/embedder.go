package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
)

// Common errors.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProviderFailed    = errors.New("embedding provider failed")
	ErrUnknownProvider   = errors.New("unknown embedding provider")
	ErrNoProviderEnabled = errors.New("no embedding provider configured")
)

// Embedder generates embeddings for batches of texts.
type Embedder interface {
	// EmbedBatch returns one unit-norm vector per input text, in input
	// order. It is the caller's job to keep batches within a reasonable
	// size; use EmbedAll for arbitrary-length inputs.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector dimensionality, or 0 if it is not yet
	// known (some remote models only reveal it on first use).
	Dimension() int

	// Model returns the model identifier recorded in the output corpus.
	Model() string

	// Provider returns the provider name.
	Provider() string

	// Close releases any resources held by the embedder.
	Close() error
}

// EmbedAll embeds texts in batches of batchSize, preserving input order.
// The returned matrix has one row per input text.
func EmbedAll(ctx context.Context, e Embedder, texts []string, batchSize int) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}
	if batchSize <= 0 {
		batchSize = 64
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch starting at %d: %w", start, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrProviderFailed, len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// validateBatch rejects empty batches and empty texts.
func validateBatch(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}
	for i, text := range texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrInvalidInput, i)
		}
	}
	return nil
}

// ComputeHash returns the SHA-256 hash of text, used as a cache key.
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// NormalizeVector scales a vector to unit length in place. A zero vector
// is returned unchanged.
func NormalizeVector(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
