package expansion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
)

type mockModel struct {
	response string
	err      error
	calls    int
	gotPrompt string
}

func (m *mockModel) Invoke(_ context.Context, p string) (string, error) {
	m.calls++
	m.gotPrompt = p
	return m.response, m.err
}

type mockRetriever struct {
	results    [][]domain.ScoredDocument
	err        error
	gotQueries []string
}

func (m *mockRetriever) RetrieveBatch(_ context.Context, queries []string) ([][]domain.ScoredDocument, error) {
	m.gotQueries = queries
	if m.err != nil {
		return nil, m.err
	}
	if m.results != nil {
		return m.results, nil
	}
	return make([][]domain.ScoredDocument, len(queries)), nil
}

func newEngine(model ModelClient, retriever Retriever, cfg Config) *Engine {
	return New(model, retriever, prompt.Default(), cfg)
}

func TestExpandPrependsOriginal(t *testing.T) {
	model := &mockModel{response: "variant one\nvariant two\nvariant three\nvariant four"}
	e := newEngine(model, &mockRetriever{}, Config{VariantCount: 4})

	got := e.Expand(context.Background(), "original question")
	if len(got) != 5 {
		t.Fatalf("got %d queries, want 5", len(got))
	}
	if got[0] != "original question" {
		t.Errorf("first query = %q, want the original question", got[0])
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
	if !strings.Contains(model.gotPrompt, "original question") {
		t.Error("variant prompt does not contain the question")
	}
}

func TestExpandStripsListMarkersAndDedupes(t *testing.T) {
	model := &mockModel{response: "1. variant a\n- variant a\n2) variant b\n\n  • variant c  "}
	e := newEngine(model, &mockRetriever{}, Config{VariantCount: 4})

	got := e.Expand(context.Background(), "q")
	want := []string{"q", "variant a", "variant b", "variant c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpandCapsVariantCount(t *testing.T) {
	model := &mockModel{response: "v1\nv2\nv3\nv4\nv5\nv6"}
	e := newEngine(model, &mockRetriever{}, Config{VariantCount: 2})

	got := e.Expand(context.Background(), "q")
	if len(got) != 3 {
		t.Errorf("got %d queries, want 3 (original + 2 variants)", len(got))
	}
}

func TestExpandModelFailureDegradesToOriginal(t *testing.T) {
	model := &mockModel{err: errors.New("model down")}
	e := newEngine(model, &mockRetriever{}, Config{})

	got := e.Expand(context.Background(), "q")
	if len(got) != 1 || got[0] != "q" {
		t.Errorf("got %v, want [q]", got)
	}
}

func TestExpandDropsVariantEqualToOriginal(t *testing.T) {
	model := &mockModel{response: "q\nother"}
	e := newEngine(model, &mockRetriever{}, Config{})

	got := e.Expand(context.Background(), "q")
	if len(got) != 2 || got[1] != "other" {
		t.Errorf("got %v, want [q other]", got)
	}
}

func TestRetrieveFansOutAllVariants(t *testing.T) {
	model := &mockModel{response: "v1\nv2"}
	retriever := &mockRetriever{}
	e := newEngine(model, retriever, Config{})

	if _, err := e.Retrieve(context.Background(), "q"); err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	want := []string{"q", "v1", "v2"}
	if len(retriever.gotQueries) != len(want) {
		t.Fatalf("retriever got %v, want %v", retriever.gotQueries, want)
	}
	for i := range want {
		if retriever.gotQueries[i] != want[i] {
			t.Errorf("query[%d] = %q, want %q", i, retriever.gotQueries[i], want[i])
		}
	}
}

func TestRetrieveFlattenDedupesInVariantOrder(t *testing.T) {
	model := &mockModel{response: "v1"}
	retriever := &mockRetriever{results: [][]domain.ScoredDocument{
		{scored("a", 0.9), scored("b", 0.5)},
		{scored("b", 0.8), scored("c", 0.2)},
	}}
	e := newEngine(model, retriever, Config{Strategy: StrategyFlatten})

	got, err := e.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %d docs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Doc.Content() != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Doc.Content(), want[i])
		}
	}
	// first occurrence wins: b keeps its score from the first ranking
	if got[1].Score != 0.5 {
		t.Errorf("score(b) = %g, want 0.5 (first occurrence)", got[1].Score)
	}
}

func TestRetrieveRRFStrategy(t *testing.T) {
	model := &mockModel{response: "v1"}
	retriever := &mockRetriever{results: [][]domain.ScoredDocument{
		{scored("a", 1), scored("b", 0.5)},
		{scored("b", 1), scored("a", 0.5)},
	}}
	e := newEngine(model, retriever, Config{Strategy: StrategyRRF, RRFK: 60})

	got, err := e.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d docs, want 2", len(got))
	}
	// both accumulate 1/60+1/61: tie broken by first-seen order
	if got[0].Doc.Content() != "a" {
		t.Errorf("top = %s, want a", got[0].Doc.Content())
	}
}

func TestRetrievePropagatesBatchError(t *testing.T) {
	model := &mockModel{response: "v1"}
	retriever := &mockRetriever{err: domain.ErrEmptyCorpus}
	e := newEngine(model, retriever, Config{})

	_, err := e.Retrieve(context.Background(), "q")
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("err = %v, want ErrEmptyCorpus", err)
	}
}

func scored(content string, score float64) domain.ScoredDocument {
	return domain.ScoredDocument{Doc: domain.NewDocument(content, nil), Score: score}
}
