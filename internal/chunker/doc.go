// Package chunker splits document text into overlapping, length-bounded
// chunks for embedding and retrieval.
//
// Chunking is paragraph-aware: normalized text is split on blank lines and
// paragraphs are greedily packed into chunks up to the configured size.
// Paragraphs longer than the chunk size are hard-wrapped into fixed-width
// slices. An optional character overlap is then prepended to every chunk
// after the first, and chunks too short to be useful retrieval units are
// dropped.
//
// # Basic Usage
//
//	c := chunker.New(600, 120)
//	chunks := c.Chunk(documentText)
//
// All sizes are measured in characters (runes), not model tokens.
package chunker
