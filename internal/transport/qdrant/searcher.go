// Package qdrant adapts a Qdrant collection as the semantic retrieval
// signal. Payload fields content/source/subject map onto documents.
package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// Searcher queries a Qdrant collection with query vectors produced by the
// injected embedder.
type Searcher struct {
	client     *qdrant.Client
	embedder   domain.Embedder
	collection string
	logger     *zap.Logger
}

// Config holds the Qdrant connection settings.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Embedder   domain.Embedder
	Logger     *zap.Logger
}

// New creates a Qdrant-backed semantic searcher over the gRPC API.
func New(cfg *Config) (*Searcher, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	return &Searcher{
		client:     client,
		embedder:   cfg.Embedder,
		collection: cfg.Collection,
		logger:     cfg.Logger,
	}, nil
}

// SearchSemantic embeds the query and ranks collection points by similarity.
func (s *Searcher) SearchSemantic(ctx context.Context, query string, k int) ([]domain.ScoredDocument, error) {
	if k <= 0 {
		return nil, nil
	}

	res, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	limit := uint64(k)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(res.Embedding...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", s.collection, err)
	}

	hits := make([]domain.ScoredDocument, 0, len(points))
	for _, p := range points {
		doc, ok := documentFromPayload(p.Payload)
		if !ok {
			s.logger.Warn("skipping point without content payload",
				zap.String("collection", s.collection))
			continue
		}
		hits = append(hits, domain.ScoredDocument{Doc: doc, Score: float64(p.Score)})
	}
	return hits, nil
}

// Size reports the exact point count, backing the health corpus check.
func (s *Searcher) Size(ctx context.Context) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("collection info %s: %w", s.collection, err)
	}
	if info.PointsCount == nil {
		return 0, nil
	}
	return int(*info.PointsCount), nil
}

// Close releases the underlying gRPC connection.
func (s *Searcher) Close() error {
	return s.client.Close()
}

func documentFromPayload(payload map[string]*qdrant.Value) (domain.Document, bool) {
	content := stringField(payload, "content")
	if content == "" {
		return domain.Document{}, false
	}

	meta := map[string]string{}
	if v := stringField(payload, "source"); v != "" {
		meta["source"] = v
	}
	if v := stringField(payload, "subject"); v != "" {
		meta["subject"] = v
	}
	return domain.NewDocument(content, meta), true
}

func stringField(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	return v.GetStringValue()
}
