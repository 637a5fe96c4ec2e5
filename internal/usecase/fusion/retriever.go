package fusion

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/logger"
	"github.com/kailas-cloud/ragfuse/internal/metrics"
)

// Retriever runs lexical and semantic search in parallel and fuses both
// rankings into one list scored by alpha-weighted normalized scores.
type Retriever struct {
	lexical  LexicalSearcher
	semantic SemanticSearcher
	k        int
	alpha    float64
}

// Config tunes a Retriever.
type Config struct {
	K     int     // per-signal fetch depth (default 10)
	Alpha float64 // semantic weight in [0,1]
}

// New creates a fusion retriever over a lexical/semantic searcher pair.
func New(lexical LexicalSearcher, semantic SemanticSearcher, cfg Config) *Retriever {
	if cfg.K <= 0 {
		cfg.K = 10
	}
	return &Retriever{
		lexical:  lexical,
		semantic: semantic,
		k:        cfg.K,
		alpha:    cfg.Alpha,
	}
}

// Retrieve fuses both signals for one query.
//
// Both searches run concurrently and both must complete before merging.
// A single failed signal degrades to an empty contribution (logged, not
// fatal); both failing, or an empty corpus, is an error. Results are
// merged by exact content identity: combined = alpha*semantic + (1-alpha)*lexical
// with a missing signal contributing 0. Output is unique by content,
// sorted by combined score descending with ties kept in first-seen order
// (semantic results enumerated before lexical), and capped at 2k entries.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.ScoredDocument, error) {
	start := time.Now()

	var (
		lexRes, semRes []domain.ScoredDocument
		lexErr, semErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lexRes, lexErr = r.lexical.SearchLexical(gctx, query, r.k)
		if errors.Is(lexErr, domain.ErrEmptyCorpus) {
			return lexErr
		}
		return nil
	})
	g.Go(func() error {
		semRes, semErr = r.semantic.SearchSemantic(gctx, query, r.k)
		if errors.Is(semErr, domain.ErrEmptyCorpus) {
			return semErr
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("fused", "error").Inc()
		return nil, fmt.Errorf("fused retrieval: %w", err)
	}

	log := logger.FromContext(ctx)
	if lexErr != nil && semErr != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues("fused", "error").Inc()
		return nil, fmt.Errorf("fused retrieval: lexical: %w; semantic: %w", lexErr, semErr)
	}
	if lexErr != nil {
		log.Warn("Lexical search failed, continuing with semantic only", zap.Error(lexErr))
		metrics.RetrievalRequestsTotal.WithLabelValues("lexical", "error").Inc()
		lexRes = nil
	} else {
		metrics.RetrievalRequestsTotal.WithLabelValues("lexical", "ok").Inc()
	}
	if semErr != nil {
		log.Warn("Semantic search failed, continuing with lexical only", zap.Error(semErr))
		metrics.RetrievalRequestsTotal.WithLabelValues("semantic", "error").Inc()
		semRes = nil
	} else {
		metrics.RetrievalRequestsTotal.WithLabelValues("semantic", "ok").Inc()
	}

	fused := r.merge(semRes, lexRes)

	metrics.RetrievalRequestsTotal.WithLabelValues("fused", "ok").Inc()
	metrics.RetrievalDuration.WithLabelValues("fused").Observe(time.Since(start).Seconds())
	metrics.RetrievalDocuments.WithLabelValues("fused").Observe(float64(len(fused)))

	return fused, nil
}

// RetrieveBatch runs one fused retrieval per query, all in parallel.
// Results come back in input order. A failed query degrades to an empty
// slot unless the corpus itself is empty, which fails the whole batch.
func (r *Retriever) RetrieveBatch(ctx context.Context, queries []string) ([][]domain.ScoredDocument, error) {
	results := make([][]domain.ScoredDocument, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			docs, err := r.Retrieve(gctx, q)
			if err != nil {
				if errors.Is(err, domain.ErrEmptyCorpus) {
					return err
				}
				logger.FromContext(gctx).Warn("Retrieval failed for query variant",
					zap.String("query", q), zap.Error(err))
				return nil
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch retrieval: %w", err)
	}

	return results, nil
}

type fusedEntry struct {
	doc      domain.Document
	semantic float64
	lexical  float64
	hasSem   bool
	hasLex   bool
}

func (r *Retriever) merge(semantic, lexical []domain.ScoredDocument) []domain.ScoredDocument {
	semNorm := Normalize(scoresOf(semantic))
	lexNorm := Normalize(scoresOf(lexical))

	byContent := make(map[string]*fusedEntry, len(semantic)+len(lexical))
	order := make([]*fusedEntry, 0, len(semantic)+len(lexical))

	for i, s := range semantic {
		key := s.Doc.Content()
		e, ok := byContent[key]
		if !ok {
			e = &fusedEntry{doc: s.Doc}
			byContent[key] = e
			order = append(order, e)
		}
		if !e.hasSem {
			e.semantic = semNorm[i]
			e.hasSem = true
		}
	}
	for i, l := range lexical {
		key := l.Doc.Content()
		e, ok := byContent[key]
		if !ok {
			e = &fusedEntry{doc: l.Doc}
			byContent[key] = e
			order = append(order, e)
		}
		if !e.hasLex {
			e.lexical = lexNorm[i]
			e.hasLex = true
		}
	}

	fused := make([]domain.ScoredDocument, len(order))
	for i, e := range order {
		fused[i] = domain.ScoredDocument{
			Doc:   e.doc,
			Score: r.alpha*e.semantic + (1-r.alpha)*e.lexical,
		}
	}

	// Stable sort keeps first-seen order on equal scores.
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	if limit := 2 * r.k; len(fused) > limit {
		fused = fused[:limit]
	}
	return fused
}

func scoresOf(docs []domain.ScoredDocument) []float64 {
	scores := make([]float64, len(docs))
	for i, d := range docs {
		scores[i] = d.Score
	}
	return scores
}
