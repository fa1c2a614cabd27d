package embedder

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment variables consulted by the factory.
const (
	EnvProvider     = "RAGPREP_EMBEDDING_PROVIDER"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Config holds provider configuration resolved from the config file and
// flags. APIKeyEnv names the environment variable carrying the key, so
// secrets stay out of config files.
type Config struct {
	Provider  string
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// New creates a provider. Errors surface here, at startup, before any
// chunking work is spent on a run that cannot embed.
func New(cfg Config) (Embedder, error) {
	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = os.Getenv(EnvProvider)
	}

	switch provider {
	case ProviderOpenAI:
		keyEnv := cfg.APIKeyEnv
		if keyEnv == "" {
			keyEnv = EnvOpenAIAPIKey
		}
		apiKey := os.Getenv(keyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, keyEnv)
		}
		return NewOpenAIProvider(cfg.BaseURL, apiKey, cfg.Model, cfg.Timeout)
	case ProviderLocal, "":
		return NewLocalProvider(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}
