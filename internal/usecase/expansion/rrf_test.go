package expansion

import (
	"math"
	"testing"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

func ranking(contents ...string) []domain.ScoredDocument {
	docs := make([]domain.ScoredDocument, len(contents))
	for i, c := range contents {
		docs[i] = domain.ScoredDocument{Doc: domain.NewDocument(c, nil), Score: float64(len(contents) - i)}
	}
	return docs
}

func TestFuseRRFSumsAcrossRankings(t *testing.T) {
	// "d" appears at ranks 0, 2 and 4 across three rankings.
	rankings := [][]domain.ScoredDocument{
		ranking("d", "x1", "x2"),
		ranking("y1", "y2", "d"),
		ranking("z1", "z2", "z3", "z4", "d"),
	}

	fused := fuseRRF(rankings, 60)

	var got float64
	for _, f := range fused {
		if f.Doc.Content() == "d" {
			got = f.Score
		}
	}
	want := 1.0/60 + 1.0/62 + 1.0/64
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("score(d) = %v, want %v", got, want)
	}

	if fused[0].Doc.Content() != "d" {
		t.Errorf("top = %s, want d (highest accumulated score)", fused[0].Doc.Content())
	}
}

func TestFuseRRFTieKeepsFirstSeenOrder(t *testing.T) {
	// "a" and "b" each appear once at rank 0 of their ranking: equal scores.
	rankings := [][]domain.ScoredDocument{
		ranking("a"),
		ranking("b"),
	}

	fused := fuseRRF(rankings, 60)
	if len(fused) != 2 {
		t.Fatalf("got %d docs, want 2", len(fused))
	}
	if fused[0].Doc.Content() != "a" || fused[1].Doc.Content() != "b" {
		t.Errorf("order = [%s %s], want first-seen [a b]",
			fused[0].Doc.Content(), fused[1].Doc.Content())
	}
}

func TestFuseRRFDedupesByContent(t *testing.T) {
	rankings := [][]domain.ScoredDocument{
		ranking("a", "b"),
		ranking("b", "a"),
	}

	fused := fuseRRF(rankings, 60)
	if len(fused) != 2 {
		t.Fatalf("got %d docs, want 2 unique", len(fused))
	}
	// Both accumulated 1/60 + 1/61: tie, first-seen order.
	if fused[0].Doc.Content() != "a" {
		t.Errorf("top = %s, want a", fused[0].Doc.Content())
	}
}

func TestFuseRRFEmpty(t *testing.T) {
	if got := fuseRRF(nil, 60); len(got) != 0 {
		t.Errorf("fuseRRF(nil) = %v, want empty", got)
	}
	if got := fuseRRF([][]domain.ScoredDocument{nil, nil}, 60); len(got) != 0 {
		t.Errorf("fuseRRF(empty rankings) = %v, want empty", got)
	}
}
