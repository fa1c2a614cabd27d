package types

import "fmt"

// Record is the persisted retrieval unit: one chunk of one document plus
// the metadata needed for prompt augmentation. Records are serialized
// verbatim into index.json, and row i of embeddings.f32 holds the vector
// for the i-th record.
type Record struct {
	ID     string     `json:"id"`
	DocID  string     `json:"doc_id"`
	Title  string     `json:"title"`
	Source string     `json:"source"`
	Offset int        `json:"offset"`
	Text   string     `json:"text"`
	Meta   RecordMeta `json:"meta"`
}

// RecordMeta carries per-record classification metadata.
type RecordMeta struct {
	Domain string `json:"domain"`
}

// RecordID builds the composite record identifier: the document id, a
// literal '#', and the zero-padded chunk offset. Offsets of 10000 or more
// simply use more digits.
func RecordID(docID string, offset int) string {
	return fmt.Sprintf("%s#%04d", docID, offset)
}
