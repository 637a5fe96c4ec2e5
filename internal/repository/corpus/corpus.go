// Package corpus is an in-memory document corpus serving both retrieval
// signals: BM25 for lexical search and cosine similarity over cached
// embeddings for semantic search.
package corpus

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// Snapshot holds the loaded documents and both search indexes.
// Documents are embedded once at load time; queries are embedded per search.
type Snapshot struct {
	embedder domain.Embedder

	mu   sync.RWMutex
	docs []domain.Document
	vecs [][]float32
	bm25 *bm25Index
}

// New creates an empty corpus snapshot.
func New(embedder domain.Embedder) *Snapshot {
	return &Snapshot{embedder: embedder, bm25: newBM25Index()}
}

// Add embeds and indexes documents.
func (s *Snapshot) Add(ctx context.Context, docs ...domain.Document) error {
	for _, d := range docs {
		res, err := s.embedder.Embed(ctx, d.Content())
		if err != nil {
			return fmt.Errorf("embed document: %w", err)
		}

		s.mu.Lock()
		s.docs = append(s.docs, d)
		s.vecs = append(s.vecs, res.Embedding)
		s.bm25.add(d.Content())
		s.mu.Unlock()
	}
	return nil
}

// Size reports the number of loaded documents.
func (s *Snapshot) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// SearchLexical ranks documents by BM25 score. Documents sharing no terms
// with the query are excluded.
func (s *Snapshot) SearchLexical(_ context.Context, query string, k int) ([]domain.ScoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	scores := s.bm25.scores(query)

	var hits []domain.ScoredDocument
	for i, score := range scores {
		if score > 0 {
			hits = append(hits, domain.ScoredDocument{Doc: s.docs[i], Score: score})
		}
	}
	return topK(hits, k), nil
}

// SearchSemantic ranks documents by cosine similarity to the embedded query.
func (s *Snapshot) SearchSemantic(ctx context.Context, query string, k int) ([]domain.ScoredDocument, error) {
	s.mu.RLock()
	empty := len(s.docs) == 0
	s.mu.RUnlock()
	if empty {
		return nil, domain.ErrEmptyCorpus
	}

	res, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]domain.ScoredDocument, 0, len(s.docs))
	for i, d := range s.docs {
		hits = append(hits, domain.ScoredDocument{Doc: d, Score: cosine(res.Embedding, s.vecs[i])})
	}
	return topK(hits, k), nil
}

// topK sorts hits by score descending (stable on ties) and truncates.
func topK(hits []domain.ScoredDocument, k int) []domain.ScoredDocument {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
