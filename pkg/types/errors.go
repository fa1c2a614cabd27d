package types

import "errors"

// Pipeline errors. Both are terminal for a run: nothing is written when
// they occur.
var (
	// ErrNoDocuments indicates the input root contained no eligible files.
	ErrNoDocuments = errors.New("no documents found under input root")

	// ErrNoChunks indicates every chunk was pruned, leaving nothing to embed.
	ErrNoChunks = errors.New("no chunks produced from input documents")
)
