package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eholt723/ragprep/internal/builder"
	"github.com/eholt723/ragprep/internal/cache"
	"github.com/eholt723/ragprep/internal/config"
	"github.com/eholt723/ragprep/internal/corpus"
	"github.com/eholt723/ragprep/internal/embedder"
)

var (
	flagIn           string
	flagOut          string
	flagConfig       string
	flagProvider     string
	flagModel        string
	flagChunkSize    int
	flagChunkOverlap int
	flagWorkers      int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Chunk, embed, and write corpus artifacts",
	Long: `Loads every .txt, .md, and .jsonl document under the input directory,
splits them into overlapping chunks, embeds each chunk, and writes
embeddings.f32, index.json, and manifest.json to the output directory.

Flags override the corresponding config file values.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagIn, "in", "", "input directory of source documents")
	buildCmd.Flags().StringVar(&flagOut, "out", "", "output directory for corpus artifacts")
	buildCmd.Flags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	buildCmd.Flags().StringVar(&flagProvider, "provider", "", "embedding provider (openai or local)")
	buildCmd.Flags().StringVar(&flagModel, "model", "", "embedding model name")
	buildCmd.Flags().IntVar(&flagChunkSize, "chunk-size", 0, "target chunk size in characters")
	buildCmd.Flags().IntVar(&flagChunkOverlap, "chunk-overlap", 0, "overlap between consecutive chunks in characters")
	buildCmd.Flags().IntVar(&flagWorkers, "workers", 0, "number of concurrent chunking workers")
	_ = buildCmd.MarkFlagRequired("in")
	_ = buildCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	emb, closeAll, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	defer closeAll()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := builder.New(cfg, emb).Build(ctx, flagIn, flagOut)
	if err != nil {
		return err
	}

	log.Printf("done: %d documents, %d chunks at dim %d in %s",
		stats.Documents, stats.Records, stats.Dim, stats.Duration.Round(time.Millisecond))
	log.Printf("wrote %s, %s, %s to %s",
		corpus.EmbeddingsFileName, corpus.IndexFileName, corpus.ManifestFileName, flagOut)
	return nil
}

// applyFlagOverrides lets explicitly-set flags win over the config file.
// Unset flags leave the loaded values alone, so the zero default of a
// flag never clobbers a configured value.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("provider") {
		cfg.Embedder.Provider = flagProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Embedder.Model = flagModel
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.Chunking.ChunkSize = flagChunkSize
	}
	if cmd.Flags().Changed("chunk-overlap") {
		cfg.Chunking.ChunkOverlap = flagChunkOverlap
	}
	if cmd.Flags().Changed("workers") {
		cfg.Build.Workers = flagWorkers
	}
}

// newEmbedder builds the configured provider, wrapped in the LRU cache
// and, when a cache path is configured, the sqlite-backed vector store.
// The returned cleanup closes both the embedder and the store.
func newEmbedder(cfg *config.Config) (embedder.Embedder, func(), error) {
	provider, err := embedder.New(embedder.Config{
		Provider:  cfg.Embedder.Provider,
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}

	var store *cache.Store
	if cfg.Embedder.CachePath != "" {
		store, err = cache.Open(cfg.Embedder.CachePath)
		if err != nil {
			_ = provider.Close()
			return nil, nil, fmt.Errorf("open embedding cache: %w", err)
		}
		log.Printf("embedding cache: %s (%s driver)", cfg.Embedder.CachePath, cache.DriverName)
	}

	var vs embedder.VectorStore
	if store != nil {
		vs = store
	}
	emb := embedder.WithCache(provider, cfg.Embedder.CacheSize, vs)

	closeAll := func() {
		_ = emb.Close()
		if store != nil {
			_ = store.Close()
		}
	}
	return emb, closeAll, nil
}
