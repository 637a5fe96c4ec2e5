package fusion

import (
	"context"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// LexicalSearcher ranks corpus documents by term overlap (BM25 or similar).
type LexicalSearcher interface {
	SearchLexical(ctx context.Context, query string, k int) ([]domain.ScoredDocument, error)
}

// SemanticSearcher ranks corpus documents by embedding similarity.
type SemanticSearcher interface {
	SearchSemantic(ctx context.Context, query string, k int) ([]domain.ScoredDocument, error)
}
