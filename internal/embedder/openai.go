package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	ProviderOpenAI = "openai"

	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "text-embedding-3-small"
)

// knownModelDims lets Dimension answer before the first API call.
var knownModelDims = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIProvider calls an OpenAI-compatible /embeddings endpoint. The base
// URL is configurable, so self-hosted servers speaking the same protocol
// work too.
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
}

// NewOpenAIProvider creates the provider. An empty API key is rejected
// here, before any document work is done.
func NewOpenAIProvider(baseURL, apiKey, model string, timeout time.Duration) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrNoProviderEnabled)
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		dimension:  knownModelDims[model],
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (o *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}

	vectors, err := retryWithBackoff(ctx, func() ([][]float32, error) {
		return o.callAPI(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}

	for i := range vectors {
		vectors[i] = NormalizeVector(vectors[i])
	}
	if o.dimension == 0 && len(vectors) > 0 {
		o.dimension = len(vectors[0])
	}
	return vectors, nil
}

func (o *OpenAIProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := map[string]any{
		"input": texts,
		"model": o.model,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Data) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d inputs", len(apiResp.Data), len(texts))
	}

	// The API may return entries out of order; place by index.
	vectors := make([][]float32, len(texts))
	for _, d := range apiResp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}
	return vectors, nil
}

func (o *OpenAIProvider) Dimension() int {
	return o.dimension
}

func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Provider() string {
	return ProviderOpenAI
}

func (o *OpenAIProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
