package domain

// Document is an immutable unit of retrieved text.
// Identity is the exact content string: two documents with the same
// content are the same document for fusion and deduplication purposes.
type Document struct {
	content  string
	metadata map[string]string
}

// NewDocument creates a document. The metadata map is copied.
func NewDocument(content string, metadata map[string]string) Document {
	var meta map[string]string
	if len(metadata) > 0 {
		meta = make(map[string]string, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
	}
	return Document{content: content, metadata: meta}
}

// Content returns the document text.
func (d Document) Content() string { return d.content }

// Metadata returns a copy of the metadata map.
func (d Document) Metadata() map[string]string {
	if d.metadata == nil {
		return nil
	}
	out := make(map[string]string, len(d.metadata))
	for k, v := range d.metadata {
		out[k] = v
	}
	return out
}

// Meta returns a single metadata value ("" when absent).
func (d Document) Meta(key string) string { return d.metadata[key] }

// Source returns the provenance metadata value.
func (d Document) Source() string { return d.metadata["source"] }

// Subject returns the subject-area metadata value.
func (d Document) Subject() string { return d.metadata["subject"] }

// ScoredDocument pairs a document with a relevance score.
// The score is only comparable within a single retrieval pass.
type ScoredDocument struct {
	Doc   Document
	Score float64
}

// Documents strips scores, preserving order.
func Documents(scored []ScoredDocument) []Document {
	docs := make([]Document, len(scored))
	for i, s := range scored {
		docs[i] = s.Doc
	}
	return docs
}
