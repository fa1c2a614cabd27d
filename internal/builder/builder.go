// Package builder coordinates the corpus pipeline:
// load -> chunk -> assemble -> embed -> persist.
package builder

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eholt723/ragprep/internal/assembler"
	"github.com/eholt723/ragprep/internal/chunker"
	"github.com/eholt723/ragprep/internal/config"
	"github.com/eholt723/ragprep/internal/corpus"
	"github.com/eholt723/ragprep/internal/embedder"
	"github.com/eholt723/ragprep/internal/loader"
	"github.com/eholt723/ragprep/pkg/types"
)

// Builder drives one corpus build. Construct with New, run with Build.
type Builder struct {
	cfg      *config.Config
	embedder embedder.Embedder
	workers  int
}

// Statistics summarizes a completed build.
type Statistics struct {
	Documents     int
	Records       int
	Dim           int
	AvgChunkChars int
	DomainCounts  map[string]int
	Duration      time.Duration
}

// New creates a Builder using the given configuration and embedding
// provider.
func New(cfg *config.Config, emb embedder.Embedder) *Builder {
	workers := cfg.Build.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Builder{cfg: cfg, embedder: emb, workers: workers}
}

// Build loads every document under inDir, chunks and assembles records,
// embeds all chunk text, and writes the corpus artifacts to outDir.
// It fails before embedding when the input yields no documents or no
// records; nothing is written in that case.
func (b *Builder) Build(ctx context.Context, inDir, outDir string) (*Statistics, error) {
	start := time.Now()

	ldr := loader.New(b.cfg.Domains.Known, b.cfg.Domains.Default)
	docs, err := ldr.Load(inDir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNoDocuments, inDir)
	}

	records, err := b.assembleRecords(ctx, docs)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNoChunks, inDir)
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	log.Printf("embedding %d chunks with %s ...", len(texts), b.embedder.Model())
	vectors, err := embedder.EmbedAll(ctx, b.embedder, texts, b.cfg.Embedder.BatchSize)
	if err != nil {
		return nil, err
	}
	dim := len(vectors[0])

	idx := corpus.Index{
		Dim:        dim,
		ChunkCount: len(records),
		DocCount:   len(docs),
		Model:      b.embedder.Model(),
		CreatedUTC: time.Now().UTC().Unix(),
		Domains:    sortedDomains(b.cfg.Domains.Known),
		Chunks:     records,
	}
	manifest, err := corpus.Write(outDir, idx, vectors)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		Documents:     len(docs),
		Records:       len(records),
		Dim:           dim,
		AvgChunkChars: manifest.Stats.AvgChunkChars,
		DomainCounts:  manifest.Stats.DomainCounts,
		Duration:      time.Since(start),
	}, nil
}

// assembleRecords chunks documents concurrently and flattens the results.
// Each document's records land in a slot indexed by document position, so
// the flat sequence always matches single-threaded iteration order no
// matter how the workers interleave.
func (b *Builder) assembleRecords(ctx context.Context, docs []types.Document) ([]types.Record, error) {
	ck := chunker.New(b.cfg.Chunking.ChunkSize, b.cfg.Chunking.ChunkOverlap)
	slots := make([][]types.Record, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, b.workers)
	for i := range docs {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			chunks := ck.Chunk(docs[i].Text)
			slots[i] = assembler.Assemble(docs[i], chunks, b.cfg.Domains.Default)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []types.Record
	for _, slot := range slots {
		records = append(records, slot...)
	}
	return records, nil
}

// sortedDomains lower-cases, dedupes, and sorts the domain vocabulary for
// the index metadata.
func sortedDomains(known []string) []string {
	seen := make(map[string]struct{}, len(known))
	out := make([]string, 0, len(known))
	for _, d := range known {
		d = strings.ToLower(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
