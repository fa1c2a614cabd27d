// Package config defines the explicit run configuration for the corpus
// builder. There is no ambient state: the loaded config is passed by value
// into the components that need it.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eholt723/ragprep/internal/chunker"
)

// ChunkingConfig bounds chunk size and overlap in characters.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// DomainsConfig is the domain vocabulary used by the classifier.
type DomainsConfig struct {
	Known   []string `yaml:"known"`
	Default string   `yaml:"default"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Provider    string `yaml:"provider"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
	CachePath   string `yaml:"cache_path"`
	CacheSize   int    `yaml:"cache_size"`
}

// BuildConfig tunes the pipeline itself.
type BuildConfig struct {
	Workers int `yaml:"workers"`
}

// Config is the root configuration structure.
type Config struct {
	Chunking ChunkingConfig `yaml:"chunking"`
	Domains  DomainsConfig  `yaml:"domains"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Build    BuildConfig    `yaml:"build"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config from path. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = chunker.DefaultChunkSize
	}
	if cfg.Chunking.ChunkOverlap == 0 {
		cfg.Chunking.ChunkOverlap = chunker.DefaultChunkOverlap
	}
	if cfg.Domains.Default == "" {
		cfg.Domains.Default = "general"
	}
	// No configured vocabulary collapses to the single default domain:
	// the classifier then labels everything with it.
	if len(cfg.Domains.Known) == 0 {
		cfg.Domains.Known = []string{cfg.Domains.Default}
	}
	if cfg.Embedder.Provider == "" {
		cfg.Embedder.Provider = "local"
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = 64
	}
	if cfg.Embedder.CacheSize == 0 {
		cfg.Embedder.CacheSize = 10000
	}
}
