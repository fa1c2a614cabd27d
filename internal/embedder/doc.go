// Package embedder generates vector embeddings for chunk text.
//
// The pipeline treats the embedding model as an external collaborator: it
// hands over an ordered sequence of strings and receives one unit-length
// float32 vector per string, all sharing one dimensionality for a given
// model.
//
// Two providers are built in:
//
//   - "openai": any OpenAI-compatible /v1/embeddings endpoint, selected
//     by base URL, with exponential-backoff retry.
//   - "local": a deterministic hash-derived embedding requiring no
//     network. Useful for offline runs and tests; not semantically
//     meaningful.
//
// WithCache wraps any provider with an in-memory LRU and an optional
// persistent store so repeated runs do not re-pay for unchanged chunks.
package embedder
