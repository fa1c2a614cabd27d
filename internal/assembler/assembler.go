// Package assembler turns a document's chunk list into ordered, uniquely
// identified records ready for embedding and persistence.
package assembler

import (
	"github.com/eholt723/ragprep/pkg/types"
)

// Assemble builds one Record per chunk, in chunk order. Offsets are
// assigned by enumerating the already-pruned chunk sequence, so they are
// dense 0..k-1 within the document. Title and source fall back to the
// document id, and the domain falls back to the run default.
func Assemble(doc types.Document, chunks []string, defaultDomain string) []types.Record {
	if len(chunks) == 0 {
		return nil
	}

	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	source := doc.Source
	if source == "" {
		source = doc.ID
	}
	domain := doc.Domain
	if domain == "" {
		domain = defaultDomain
	}

	records := make([]types.Record, 0, len(chunks))
	for offset, text := range chunks {
		records = append(records, types.Record{
			ID:     types.RecordID(doc.ID, offset),
			DocID:  doc.ID,
			Title:  title,
			Source: source,
			Offset: offset,
			Text:   text,
			Meta:   types.RecordMeta{Domain: domain},
		})
	}
	return records
}
