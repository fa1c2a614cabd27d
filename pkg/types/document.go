package types

// Document is a single source document discovered during loading.
// Documents are constructed once by the loader and never mutated; only
// the records derived from them are persisted.
type Document struct {
	// ID is a stable short token. Plain-text files derive it from the
	// file path; JSONL entries without an explicit id derive it from the
	// text content, so a record keeps its identity when the file moves.
	ID string

	// Title is a human-readable label. May be empty for JSONL entries;
	// consumers fall back to ID.
	Title string

	// Text is the full raw content before normalization.
	Text string

	// Source is the path of the originating file relative to the input
	// root, slash-separated.
	Source string

	// Domain is the classifier's label for this document. May be empty,
	// in which case the run's default domain applies.
	Domain string
}
