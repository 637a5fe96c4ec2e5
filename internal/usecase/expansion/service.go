package expansion

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/logger"
	"github.com/kailas-cloud/ragfuse/internal/metrics"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
)

// Strategy selects how per-variant rankings are merged.
type Strategy string

const (
	// StrategyFlatten concatenates rankings in variant order and dedupes by content.
	StrategyFlatten Strategy = "flatten"
	// StrategyRRF merges rankings via Reciprocal Rank Fusion.
	StrategyRRF Strategy = "rrf"
)

// Engine widens one question into several query variants, retrieves for
// each variant in parallel, and merges the rankings into one list.
type Engine struct {
	model     ModelClient
	retriever Retriever
	prompts   *prompt.Library
	variants  int
	strategy  Strategy
	rrfK      int
}

// Config tunes an Engine.
type Config struct {
	VariantCount int      // generated variants per question (default 4)
	Strategy     Strategy // flatten | rrf (default flatten)
	RRFK         int      // RRF constant (default 60)
}

// New creates a query expansion engine.
func New(model ModelClient, retriever Retriever, prompts *prompt.Library, cfg Config) *Engine {
	if cfg.VariantCount <= 0 {
		cfg.VariantCount = 4
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyFlatten
	}
	if cfg.RRFK <= 0 {
		cfg.RRFK = defaultRRFK
	}
	return &Engine{
		model:     model,
		retriever: retriever,
		prompts:   prompts,
		variants:  cfg.VariantCount,
		strategy:  cfg.Strategy,
		rrfK:      cfg.RRFK,
	}
}

// Expand generates query variants for a question.
// The original question is always the first element. Generation failure
// degrades to the original-only list; Expand never returns an error.
func (e *Engine) Expand(ctx context.Context, question string) []string {
	log := logger.FromContext(ctx)

	queries := []string{question}
	defer func() {
		metrics.QueryVariantsGenerated.Observe(float64(len(queries)))
	}()

	p, err := e.prompts.Render(prompt.Variants, prompt.VariantsData{
		Question: question,
		Count:    e.variants,
	})
	if err != nil {
		log.Warn("Failed to render variants prompt", zap.Error(err))
		return queries
	}

	raw, err := e.model.Invoke(ctx, p)
	if err != nil {
		log.Warn("Variant generation failed, falling back to original question", zap.Error(err))
		return queries
	}

	seen := map[string]struct{}{question: {}}
	for _, line := range strings.Split(raw, "\n") {
		v := cleanVariant(line)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		queries = append(queries, v)
		if len(queries) == e.variants+1 {
			break
		}
	}

	return queries
}

// Retrieve expands the question and returns the merged ranking over all
// variant retrievals. Scores are only comparable within this single pass.
func (e *Engine) Retrieve(ctx context.Context, question string) ([]domain.ScoredDocument, error) {
	queries := e.Expand(ctx, question)

	rankings, err := e.retriever.RetrieveBatch(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("expand retrieve: %w", err)
	}

	if e.strategy == StrategyRRF {
		return fuseRRF(rankings, e.rrfK), nil
	}
	return flatten(rankings), nil
}

// flatten concatenates rankings in variant order keeping the first
// occurrence of each content.
func flatten(rankings [][]domain.ScoredDocument) []domain.ScoredDocument {
	seen := make(map[string]struct{})
	var out []domain.ScoredDocument
	for _, ranking := range rankings {
		for _, d := range ranking {
			key := d.Doc.Content()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

// cleanVariant strips list markers the model tends to emit despite instructions.
func cleanVariant(line string) string {
	v := strings.TrimSpace(line)
	v = strings.TrimLeft(v, "-*•")
	v = strings.TrimSpace(v)
	// numbered prefixes: "1." / "1)" / "12."
	i := 0
	for i < len(v) && v[i] >= '0' && v[i] <= '9' {
		i++
	}
	if i > 0 && i < len(v) && (v[i] == '.' || v[i] == ')') {
		v = strings.TrimSpace(v[i+1:])
	}
	return v
}
