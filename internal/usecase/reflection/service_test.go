package reflection

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
)

type mockModel struct {
	response  string
	err       error
	calls     int
	gotPrompt string
}

func (m *mockModel) Invoke(_ context.Context, p string) (string, error) {
	m.calls++
	m.gotPrompt = p
	return m.response, m.err
}

func TestReflectEmptyHistoryIsNoOp(t *testing.T) {
	model := &mockModel{response: "should never be used"}
	e := New(model, prompt.Default(), 2)

	got := e.Reflect(context.Background(), "how are they made?", domain.History{})
	if got != "how are they made?" {
		t.Errorf("Reflect() = %q, want the question unchanged", got)
	}
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0 for empty history", model.calls)
	}
}

func TestReflectRewritesWithHistory(t *testing.T) {
	model := &mockModel{response: "  how are esters made?  "}
	e := New(model, prompt.Default(), 2)

	h := domain.NewHistory([]domain.Turn{
		{Question: "what are esters", Answer: "esters are organic compounds"},
	})
	got := e.Reflect(context.Background(), "how are they made?", h)
	if got != "how are esters made?" {
		t.Errorf("Reflect() = %q, want trimmed rewrite", got)
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
}

func TestReflectUsesOnlyRecentTurns(t *testing.T) {
	model := &mockModel{response: "rewritten"}
	e := New(model, prompt.Default(), 2)

	h := domain.NewHistory([]domain.Turn{
		{Question: "old question", Answer: "old answer"},
		{Question: "recent one", Answer: "answer one"},
		{Question: "recent two", Answer: "answer two"},
	})
	e.Reflect(context.Background(), "q", h)

	if strings.Contains(model.gotPrompt, "old question") {
		t.Error("prompt should not contain turns beyond the last 2")
	}
	if !strings.Contains(model.gotPrompt, "recent one") || !strings.Contains(model.gotPrompt, "recent two") {
		t.Error("prompt missing the recent turns")
	}
}

func TestReflectModelFailureFallsBack(t *testing.T) {
	model := &mockModel{err: errors.New("model down")}
	e := New(model, prompt.Default(), 2)

	h := domain.NewHistory([]domain.Turn{{Question: "q1", Answer: "a1"}})
	if got := e.Reflect(context.Background(), "original", h); got != "original" {
		t.Errorf("Reflect() = %q, want original on model failure", got)
	}
}

func TestReflectEmptyRewriteFallsBack(t *testing.T) {
	model := &mockModel{response: "   \n  "}
	e := New(model, prompt.Default(), 2)

	h := domain.NewHistory([]domain.Turn{{Question: "q1", Answer: "a1"}})
	if got := e.Reflect(context.Background(), "original", h); got != "original" {
		t.Errorf("Reflect() = %q, want original on empty rewrite", got)
	}
}
