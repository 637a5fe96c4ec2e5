package answer

import (
	"context"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/usecase/router"
)

// ModelClient executes one prompt against a chat model.
type ModelClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Router classifies questions and produces conversational replies.
type Router interface {
	Classify(ctx context.Context, question string, history domain.History) router.Label
	Reply(ctx context.Context, question string) (string, error)
}

// Reflector rewrites follow-up questions into self-contained ones.
type Reflector interface {
	Reflect(ctx context.Context, question string, history domain.History) string
}

// Retriever is the expanded fused retrieval over the corpus.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]domain.ScoredDocument, error)
}

// Reranker reorders retrieved documents before prompting.
// The pipeline treats it as an external collaborator and survives its failure.
type Reranker interface {
	Rerank(ctx context.Context, question string, docs []domain.Document) ([]domain.Document, error)
}

// Reasoner runs the deep reasoning chain over assembled context.
type Reasoner interface {
	DeepThink(ctx context.Context, question, contextText string) domain.ReasoningResult
}

// SessionStore keeps per-session conversation history.
// Get returns an empty history for unknown sessions.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (domain.History, error)
	Append(ctx context.Context, sessionID string, turn domain.Turn) error
}
