package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// stubEmbedder maps known texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return domain.EmbeddingResult{Embedding: v}, nil
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 0, 0}}, nil
}

func TestSearchEmptyCorpus(t *testing.T) {
	s := New(&stubEmbedder{})
	ctx := context.Background()

	if _, err := s.SearchLexical(ctx, "q", 5); !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("lexical err = %v, want ErrEmptyCorpus", err)
	}
	if _, err := s.SearchSemantic(ctx, "q", 5); !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("semantic err = %v, want ErrEmptyCorpus", err)
	}
}

func TestSearchLexicalRanksByTermOverlap(t *testing.T) {
	s := New(&stubEmbedder{})
	ctx := context.Background()

	err := s.Add(ctx,
		domain.NewDocument("esterification combines acid and alcohol", nil),
		domain.NewDocument("polymers are chains of monomers", nil),
		domain.NewDocument("the ester bond forms during esterification of the acid", nil),
	)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	hits, err := s.SearchLexical(ctx, "esterification acid", 10)
	if err != nil {
		t.Fatalf("SearchLexical() error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2 (polymer doc shares no terms)", len(hits))
	}
	for _, h := range hits {
		if h.Score <= 0 {
			t.Errorf("hit %q has non-positive score %g", h.Doc.Content(), h.Score)
		}
	}
}

func TestSearchLexicalRespectsK(t *testing.T) {
	s := New(&stubEmbedder{})
	ctx := context.Background()

	for _, c := range []string{"acid one", "acid two", "acid three"} {
		if err := s.Add(ctx, domain.NewDocument(c, nil)); err != nil {
			t.Fatal(err)
		}
	}

	hits, err := s.SearchLexical(ctx, "acid", 2)
	if err != nil {
		t.Fatalf("SearchLexical() error: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("got %d hits, want k=2", len(hits))
	}
}

func TestSearchSemanticRanksByCosine(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"close doc":  {1, 0, 0},
		"far doc":    {0, 1, 0},
		"middle doc": {1, 1, 0},
		"the query":  {1, 0, 0},
	}}
	s := New(emb)
	ctx := context.Background()

	err := s.Add(ctx,
		domain.NewDocument("far doc", nil),
		domain.NewDocument("middle doc", nil),
		domain.NewDocument("close doc", nil),
	)
	if err != nil {
		t.Fatal(err)
	}

	hits, err := s.SearchSemantic(ctx, "the query", 10)
	if err != nil {
		t.Fatalf("SearchSemantic() error: %v", err)
	}
	if hits[0].Doc.Content() != "close doc" {
		t.Errorf("top = %q, want close doc", hits[0].Doc.Content())
	}
	if hits[len(hits)-1].Doc.Content() != "far doc" {
		t.Errorf("last = %q, want far doc", hits[len(hits)-1].Doc.Content())
	}
}

func TestSearchSemanticEmbedFailure(t *testing.T) {
	s := New(&stubEmbedder{})
	ctx := context.Background()
	if err := s.Add(ctx, domain.NewDocument("doc", nil)); err != nil {
		t.Fatal(err)
	}

	s.embedder = &stubEmbedder{err: errors.New("provider down")}
	if _, err := s.SearchSemantic(ctx, "q", 5); err == nil {
		t.Error("expected error when query embedding fails")
	}
}

func TestSize(t *testing.T) {
	s := New(&stubEmbedder{})
	ctx := context.Background()

	n, _ := s.Size(ctx)
	if n != 0 {
		t.Errorf("Size() = %d, want 0", n)
	}

	if err := s.Add(ctx, domain.NewDocument("a", nil), domain.NewDocument("b", nil)); err != nil {
		t.Fatal(err)
	}
	n, _ = s.Size(ctx)
	if n != 2 {
		t.Errorf("Size() = %d, want 2", n)
	}
}

func TestLoadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.jsonl")
	content := `{"content":"esters smell fruity","source":"chem.pdf","subject":"chemistry"}

{"content":"polymers repeat","source":"poly.pdf"}
{"content":""}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s := New(&stubEmbedder{})
	n, err := s.LoadJSONL(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadJSONL() error: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d docs, want 2 (blank line and empty content skipped)", n)
	}

	hits, err := s.SearchLexical(context.Background(), "fruity esters", 5)
	if err != nil {
		t.Fatalf("SearchLexical() error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if hits[0].Doc.Source() != "chem.pdf" || hits[0].Doc.Subject() != "chemistry" {
		t.Errorf("metadata = %v", hits[0].Doc.Metadata())
	}
}

func TestLoadJSONLBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.jsonl")
	if err := os.WriteFile(path, []byte("not json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := New(&stubEmbedder{})
	if _, err := s.LoadJSONL(context.Background(), path); err == nil {
		t.Error("expected error for malformed seed line")
	}
}

func TestLexicalIndex(t *testing.T) {
	l := NewLexical()
	ctx := context.Background()

	if _, err := l.SearchLexical(ctx, "q", 5); !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("err = %v, want ErrEmptyCorpus", err)
	}

	l.Add(
		domain.NewDocument("esterification combines acid and alcohol", nil),
		domain.NewDocument("polymers are chains of monomers", nil),
	)

	hits, err := l.SearchLexical(ctx, "esterification", 5)
	if err != nil {
		t.Fatalf("SearchLexical() error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}

	n, _ := l.Size(ctx)
	if n != 2 {
		t.Errorf("Size() = %d, want 2", n)
	}
}

func TestLexicalLoadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.jsonl")
	content := `{"content":"esters smell fruity","source":"chem.pdf"}
{"content":"polymers repeat"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLexical()
	n, err := l.LoadJSONL(path)
	if err != nil {
		t.Fatalf("LoadJSONL() error: %v", err)
	}
	if n != 2 {
		t.Errorf("loaded %d docs, want 2", n)
	}
}
