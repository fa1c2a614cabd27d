package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the target maximum chunk length in characters.
	DefaultChunkSize = 600

	// DefaultChunkOverlap is the number of characters carried over from
	// the preceding chunk.
	DefaultChunkOverlap = 120

	// MinChunkChars is the minimum trimmed length of an emitted chunk.
	// Shorter chunks are too small to be useful retrieval units.
	MinChunkChars = 80

	// joinCost is the length of the blank-line separator between
	// paragraphs packed into the same chunk.
	joinCost = 2
)

// Chunker splits normalized text into paragraph-packed chunks with
// character-level overlap.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. Non-positive size falls back to DefaultChunkSize;
// negative overlap is clamped to zero. An overlap at or above the chunk
// size is accepted and simply produces heavily redundant chunks.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{size: size, overlap: overlap}
}

// Chunk splits text into ordered chunk strings. Empty input yields nil.
//
// The text is normalized and split into paragraphs on blank lines.
// Paragraphs are packed greedily: one joins the current chunk if the
// accumulated length plus the paragraph plus the joining blank line stays
// within the chunk size; otherwise the current chunk is flushed and the
// paragraph starts a fresh one. A paragraph longer than the chunk size
// cannot fit in any chunk and is hard-wrapped into fixed-width slices.
//
// If overlap is configured, every chunk after the first is prefixed with
// the final overlap characters of its pre-overlap predecessor, so overlap
// never compounds across a run of chunks. Finally, chunks whose trimmed
// length is below MinChunkChars are dropped.
func (c *Chunker) Chunk(text string) []string {
	paras := splitParagraphs(Normalize(text))
	if len(paras) == 0 {
		return nil
	}

	var (
		chunks []string
		buf    []string
		curLen int
	)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		chunks = append(chunks, strings.TrimSpace(strings.Join(buf, "\n\n")))
		buf = nil
		curLen = 0
	}

	for _, p := range paras {
		pl := utf8.RuneCountInString(p)
		if curLen+pl+joinCost <= c.size {
			buf = append(buf, p)
			curLen += pl + joinCost
			continue
		}
		flush()
		if pl <= c.size {
			buf = append(buf, p)
			curLen = pl + joinCost
			continue
		}
		// Oversized paragraph: hard-wrap into fixed-width slices.
		runes := []rune(p)
		for i := 0; i < len(runes); i += c.size {
			end := i + c.size
			if end > len(runes) {
				end = len(runes)
			}
			chunks = append(chunks, string(runes[i:end]))
		}
	}
	flush()

	if c.overlap > 0 && len(chunks) > 1 {
		overlapped := make([]string, len(chunks))
		overlapped[0] = chunks[0]
		for i := 1; i < len(chunks); i++ {
			overlapped[i] = tail(chunks[i-1], c.overlap) + chunks[i]
		}
		chunks = overlapped
	}

	out := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		ch = strings.TrimSpace(ch)
		if utf8.RuneCountInString(ch) >= MinChunkChars {
			out = append(out, ch)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// splitParagraphs splits normalized text on blank-line boundaries,
// discarding empty paragraphs.
func splitParagraphs(s string) []string {
	if s == "" {
		return nil
	}
	var paras []string
	for _, p := range strings.Split(s, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// tail returns the last n characters of s, or all of s if it is shorter.
func tail(s string, n int) string {
	runes := []rune(s)
	if n >= len(runes) {
		return s
	}
	return string(runes[len(runes)-n:])
}
