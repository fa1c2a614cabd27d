package embedder

import (
	"context"
	"fmt"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
)

// VectorStore is a persistent embedding cache keyed by model and content
// hash. internal/cache provides the sqlite implementation.
type VectorStore interface {
	Get(ctx context.Context, model, hash string) ([]float32, bool, error)
	Put(ctx context.Context, model, hash string, vector []float32) error
}

// CachedEmbedder wraps a provider with an in-memory LRU and an optional
// persistent store. Lookup order: LRU, store, provider. Re-running the
// pipeline still reprocesses every input; only the external embedding
// call is memoized.
type CachedEmbedder struct {
	inner Embedder
	lru   *lru.Cache[string, []float32]
	store VectorStore
}

// WithCache wraps inner. lruSize falls back to 10000 when non-positive;
// store may be nil for memory-only caching.
func WithCache(inner Embedder, lruSize int, store VectorStore) *CachedEmbedder {
	if lruSize <= 0 {
		lruSize = 10000
	}
	c, err := lru.New[string, []float32](lruSize)
	if err != nil {
		// Only possible with a non-positive size, which is guarded above.
		c, _ = lru.New[string, []float32](10000)
	}
	return &CachedEmbedder{inner: inner, lru: c, store: store}
}

func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		hash := ComputeHash(text)
		if v, ok := c.lookup(ctx, hash); ok {
			vectors[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) > 0 {
		fresh, err := c.inner.EmbedBatch(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(missTexts) {
			return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrProviderFailed, len(fresh), len(missTexts))
		}
		for j, v := range fresh {
			vectors[missIdx[j]] = v
			c.remember(ctx, ComputeHash(missTexts[j]), v)
		}
	}

	return vectors, nil
}

func (c *CachedEmbedder) lookup(ctx context.Context, hash string) ([]float32, bool) {
	if v, ok := c.lru.Get(hash); ok {
		return cloneVector(v), true
	}
	if c.store == nil {
		return nil, false
	}
	v, ok, err := c.store.Get(ctx, c.inner.Model(), hash)
	if err != nil {
		// Cache trouble must not fail the run.
		log.Printf("embedding cache read failed: %v", err)
		return nil, false
	}
	if ok {
		c.lru.Add(hash, v)
		return cloneVector(v), true
	}
	return nil, false
}

func (c *CachedEmbedder) remember(ctx context.Context, hash string, v []float32) {
	c.lru.Add(hash, cloneVector(v))
	if c.store != nil {
		if err := c.store.Put(ctx, c.inner.Model(), hash, v); err != nil {
			log.Printf("embedding cache write failed: %v", err)
		}
	}
}

// cloneVector guards cached values against caller mutation.
func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func (c *CachedEmbedder) Model() string {
	return c.inner.Model()
}

func (c *CachedEmbedder) Provider() string {
	return c.inner.Provider()
}

func (c *CachedEmbedder) Close() error {
	return c.inner.Close()
}
