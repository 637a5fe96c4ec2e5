package answer

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// Passthrough is the default reranker: it keeps the fused order.
type Passthrough struct{}

// Rerank returns the documents unchanged.
func (Passthrough) Rerank(_ context.Context, _ string, docs []domain.Document) ([]domain.Document, error) {
	return docs, nil
}

// Lexical is a model-free reranker for local runs: documents are reordered
// by query term frequency normalized by document length. Stable, so the
// fused order survives among documents with equal overlap.
type Lexical struct{}

// Rerank reorders documents by lexical overlap with the question.
func (Lexical) Rerank(_ context.Context, question string, docs []domain.Document) ([]domain.Document, error) {
	queryTokens := tokenize(question)
	if len(queryTokens) == 0 {
		return docs, nil
	}

	scores := make([]float64, len(docs))
	for i, d := range docs {
		scores[i] = overlapScore(queryTokens, d.Content())
	}

	idx := make([]int, len(docs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	out := make([]domain.Document, len(docs))
	for i, j := range idx {
		out[i] = docs[j]
	}
	return out, nil
}

func overlapScore(queryTokens []string, content string) float64 {
	docTokens := tokenize(content)
	if len(docTokens) == 0 {
		return 0
	}

	freq := make(map[string]int, len(docTokens))
	for _, t := range docTokens {
		freq[t]++
	}

	var matches int
	for _, t := range queryTokens {
		matches += freq[t]
	}
	return float64(matches) / float64(1+len(docTokens))
}

func tokenize(text string) []string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}
