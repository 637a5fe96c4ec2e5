package answer

import (
	"testing"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

func TestCleanContextCollapsesWhitespace(t *testing.T) {
	got := cleanContext("some   text\twith\t\tgaps")
	if got != "some text with gaps" {
		t.Errorf("cleanContext() = %q", got)
	}
}

func TestCleanContextDropsEmptyLines(t *testing.T) {
	got := cleanContext("first line\n\n   \nsecond line")
	if got != "first line second line" {
		t.Errorf("cleanContext() = %q", got)
	}
}

func TestCleanContextBulletMarkersStartParagraphs(t *testing.T) {
	got := cleanContext("intro text\n○ first point\ncontinues here\n• second point")
	want := "intro text\n\nfirst point continues here\n\nsecond point"
	if got != want {
		t.Errorf("cleanContext() = %q, want %q", got, want)
	}
}

func TestCleanContextEmpty(t *testing.T) {
	if got := cleanContext("   \n\t\n"); got != "" {
		t.Errorf("cleanContext(blank) = %q, want empty", got)
	}
}

func TestBuildContextJoinsDocuments(t *testing.T) {
	docs := []domain.Document{
		domain.NewDocument("first  doc", nil),
		domain.NewDocument("  ", nil),
		domain.NewDocument("second doc", nil),
	}
	got := buildContext(docs)
	want := "first doc\n\nsecond doc"
	if got != want {
		t.Errorf("buildContext() = %q, want %q", got, want)
	}
}
