package corpus

import (
	"context"
	"sync"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// Lexical is a BM25-only index. It backs the lexical retrieval signal when
// semantic search lives in an external vector store and re-embedding the
// seed corpus locally would be wasted provider traffic.
type Lexical struct {
	mu   sync.RWMutex
	docs []domain.Document
	bm25 *bm25Index
}

// NewLexical creates an empty lexical index.
func NewLexical() *Lexical {
	return &Lexical{bm25: newBM25Index()}
}

// Add indexes documents. No embedding calls are made.
func (l *Lexical) Add(docs ...domain.Document) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range docs {
		l.docs = append(l.docs, d)
		l.bm25.add(d.Content())
	}
}

// LoadJSONL reads a JSONL seed file into the index.
// Returns the number of documents loaded.
func (l *Lexical) LoadJSONL(path string) (int, error) {
	docs, err := readSeedFile(path)
	if err != nil {
		return 0, err
	}
	l.Add(docs...)
	return len(docs), nil
}

// SearchLexical ranks documents by BM25 score. Documents sharing no terms
// with the query are excluded.
func (l *Lexical) SearchLexical(_ context.Context, query string, k int) ([]domain.ScoredDocument, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	scores := l.bm25.scores(query)

	var hits []domain.ScoredDocument
	for i, score := range scores {
		if score > 0 {
			hits = append(hits, domain.ScoredDocument{Doc: l.docs[i], Score: score})
		}
	}
	return topK(hits, k), nil
}

// Size reports the number of indexed documents.
func (l *Lexical) Size(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.docs), nil
}
