package expansion

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/logger"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
)

// Hyde augments retrieval with a hypothetical document: the model drafts a
// short passage answering the original question, and the passage is appended
// to that query before the fused retrieval runs. The draft pulls the query
// closer to real corpus documents in both term and embedding space.
//
// Only the first query (always the original question) is augmented; generated
// variants pass through untouched, so enabling Hyde costs one extra model
// call per retrieval.
type Hyde struct {
	model   ModelClient
	inner   Retriever
	prompts *prompt.Library
}

// NewHyde wraps a retriever with hypothetical document augmentation.
func NewHyde(model ModelClient, inner Retriever, prompts *prompt.Library) *Hyde {
	return &Hyde{model: model, inner: inner, prompts: prompts}
}

// RetrieveBatch retrieves for the given queries with the first one augmented.
// Draft generation failure degrades to the unmodified queries; Hyde never
// adds an error path of its own.
func (h *Hyde) RetrieveBatch(ctx context.Context, queries []string) ([][]domain.ScoredDocument, error) {
	if len(queries) == 0 {
		return h.inner.RetrieveBatch(ctx, queries)
	}

	draft, err := h.draft(ctx, queries[0])
	if err != nil {
		logger.FromContext(ctx).Warn("Hypothetical document generation failed, retrieving with the plain question",
			zap.Error(err))
		return h.inner.RetrieveBatch(ctx, queries)
	}

	augmented := make([]string, len(queries))
	copy(augmented, queries)
	augmented[0] = queries[0] + "\n\nRelated information:\n" + draft
	return h.inner.RetrieveBatch(ctx, augmented)
}

func (h *Hyde) draft(ctx context.Context, question string) (string, error) {
	p, err := h.prompts.Render(prompt.Hypothetical, prompt.HypotheticalData{Question: question})
	if err != nil {
		return "", fmt.Errorf("render hypothetical prompt: %w", err)
	}

	raw, err := h.model.Invoke(ctx, p)
	if err != nil {
		return "", fmt.Errorf("hypothetical document: %w", err)
	}

	draft := strings.TrimSpace(raw)
	if draft == "" {
		return "", fmt.Errorf("hypothetical document: model returned empty response")
	}
	return draft, nil
}
