package expansion

import (
	"context"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// ModelClient executes one prompt against a chat model.
type ModelClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Retriever is the fused retrieval fan-out run once per query variant.
type Retriever interface {
	RetrieveBatch(ctx context.Context, queries []string) ([][]domain.ScoredDocument, error)
}
