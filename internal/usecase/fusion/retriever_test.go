package fusion

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

type mockLexical struct {
	docs   []domain.ScoredDocument
	err    error
	called bool
	gotK   int
}

func (m *mockLexical) SearchLexical(_ context.Context, _ string, k int) ([]domain.ScoredDocument, error) {
	m.called = true
	m.gotK = k
	return m.docs, m.err
}

type mockSemantic struct {
	docs   []domain.ScoredDocument
	err    error
	called bool
}

func (m *mockSemantic) SearchSemantic(_ context.Context, _ string, _ int) ([]domain.ScoredDocument, error) {
	m.called = true
	return m.docs, m.err
}

func scoredDoc(content string, score float64) domain.ScoredDocument {
	return domain.ScoredDocument{Doc: domain.NewDocument(content, nil), Score: score}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRetrieveQueriesBothSignals(t *testing.T) {
	lex := &mockLexical{docs: []domain.ScoredDocument{scoredDoc("a", 1)}}
	sem := &mockSemantic{docs: []domain.ScoredDocument{scoredDoc("b", 1)}}
	r := New(lex, sem, Config{K: 7, Alpha: 0.5})

	if _, err := r.Retrieve(context.Background(), "q"); err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if !lex.called || !sem.called {
		t.Error("both searchers must be queried")
	}
	if lex.gotK != 7 {
		t.Errorf("lexical k = %d, want 7", lex.gotK)
	}
}

func TestRetrieveMergesByContentIdentity(t *testing.T) {
	// Semantic: ester 0.9, polymer 0.5. Lexical: polymer 5.0, acid 1.0.
	// After per-signal min-max: ester sem=1, polymer sem=0 lex=1, acid lex=0.
	// alpha=0.5: ester 0.5, polymer 0.5, acid 0.
	sem := &mockSemantic{docs: []domain.ScoredDocument{
		scoredDoc("ester", 0.9),
		scoredDoc("polymer", 0.5),
	}}
	lex := &mockLexical{docs: []domain.ScoredDocument{
		scoredDoc("polymer", 5.0),
		scoredDoc("acid", 1.0),
	}}
	r := New(lex, sem, Config{K: 10, Alpha: 0.5})

	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d documents, want 3 (unique by content)", len(got))
	}

	// Tie between ester and polymer resolved by first-seen order,
	// semantic enumerated before lexical.
	if got[0].Doc.Content() != "ester" || got[1].Doc.Content() != "polymer" {
		t.Errorf("order = [%s %s %s], want ester, polymer first",
			got[0].Doc.Content(), got[1].Doc.Content(), got[2].Doc.Content())
	}
	if !almostEqual(got[0].Score, 0.5) || !almostEqual(got[1].Score, 0.5) {
		t.Errorf("tied scores = %g, %g, want 0.5 each", got[0].Score, got[1].Score)
	}
	if got[2].Doc.Content() != "acid" || !almostEqual(got[2].Score, 0) {
		t.Errorf("last = %s score %g, want acid with 0", got[2].Doc.Content(), got[2].Score)
	}
}

func TestRetrieveMissingSignalContributesZero(t *testing.T) {
	sem := &mockSemantic{docs: []domain.ScoredDocument{
		scoredDoc("only-semantic", 0.8),
		scoredDoc("both", 0.4),
	}}
	lex := &mockLexical{docs: []domain.ScoredDocument{
		scoredDoc("both", 3.0),
		scoredDoc("only-lexical", 1.0),
	}}
	r := New(lex, sem, Config{K: 10, Alpha: 0.25})

	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}

	byContent := map[string]float64{}
	for _, d := range got {
		byContent[d.Doc.Content()] = d.Score
	}
	// only-semantic: 0.25*1.0 + 0.75*0 = 0.25
	if !almostEqual(byContent["only-semantic"], 0.25) {
		t.Errorf("only-semantic = %g, want 0.25", byContent["only-semantic"])
	}
	// both: 0.25*0 + 0.75*1.0 = 0.75
	if !almostEqual(byContent["both"], 0.75) {
		t.Errorf("both = %g, want 0.75", byContent["both"])
	}
	// only-lexical: 0.75*0 = 0
	if !almostEqual(byContent["only-lexical"], 0) {
		t.Errorf("only-lexical = %g, want 0", byContent["only-lexical"])
	}
	if got[0].Doc.Content() != "both" {
		t.Errorf("top = %s, want both", got[0].Doc.Content())
	}
}

func TestRetrieveCapsAtTwiceK(t *testing.T) {
	var semDocs, lexDocs []domain.ScoredDocument
	for i := 0; i < 5; i++ {
		semDocs = append(semDocs, scoredDoc(string(rune('a'+i)), float64(10-i)))
		lexDocs = append(lexDocs, scoredDoc(string(rune('m'+i)), float64(10-i)))
	}
	r := New(&mockLexical{docs: lexDocs}, &mockSemantic{docs: semDocs}, Config{K: 2, Alpha: 0.5})

	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("got %d documents, want cap of 2k=4", len(got))
	}
}

func TestRetrieveEmptyCorpusPropagates(t *testing.T) {
	lex := &mockLexical{err: domain.ErrEmptyCorpus}
	sem := &mockSemantic{docs: []domain.ScoredDocument{scoredDoc("a", 1)}}
	r := New(lex, sem, Config{K: 5, Alpha: 0.5})

	_, err := r.Retrieve(context.Background(), "q")
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("err = %v, want ErrEmptyCorpus", err)
	}
}

func TestRetrieveSingleSignalFailureDegrades(t *testing.T) {
	lex := &mockLexical{err: errors.New("bm25 exploded")}
	sem := &mockSemantic{docs: []domain.ScoredDocument{
		scoredDoc("a", 0.9),
		scoredDoc("b", 0.1),
	}}
	r := New(lex, sem, Config{K: 5, Alpha: 0.5})

	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d documents, want 2 from the surviving signal", len(got))
	}
	if got[0].Doc.Content() != "a" {
		t.Errorf("top = %s, want a", got[0].Doc.Content())
	}
}

func TestRetrieveBothSignalsFailing(t *testing.T) {
	lex := &mockLexical{err: errors.New("lex down")}
	sem := &mockSemantic{err: errors.New("sem down")}
	r := New(lex, sem, Config{K: 5, Alpha: 0.5})

	if _, err := r.Retrieve(context.Background(), "q"); err == nil {
		t.Error("expected error when both signals fail")
	}
}

func TestRetrieveBatchKeepsInputOrder(t *testing.T) {
	sem := &mockSemantic{docs: []domain.ScoredDocument{scoredDoc("doc", 1)}}
	lex := &mockLexical{docs: []domain.ScoredDocument{scoredDoc("doc", 1)}}
	r := New(lex, sem, Config{K: 5, Alpha: 0.5})

	results, err := r.RetrieveBatch(context.Background(), []string{"q1", "q2", "q3"})
	if err != nil {
		t.Fatalf("RetrieveBatch() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d result slots, want 3", len(results))
	}
	for i, docs := range results {
		if len(docs) != 1 || docs[0].Doc.Content() != "doc" {
			t.Errorf("slot %d = %v, want single doc", i, docs)
		}
	}
}

func TestRetrieveBatchEmptyCorpusFailsWholeBatch(t *testing.T) {
	lex := &mockLexical{err: domain.ErrEmptyCorpus}
	sem := &mockSemantic{err: domain.ErrEmptyCorpus}
	r := New(lex, sem, Config{K: 5, Alpha: 0.5})

	_, err := r.RetrieveBatch(context.Background(), []string{"q1", "q2"})
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("err = %v, want ErrEmptyCorpus", err)
	}
}
