package answer

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/ragfuse/internal/domain"
)

// cleanContext normalizes raw document text for prompting: collapses runs
// of whitespace, drops empty lines, and treats ○/• list markers as
// paragraph breaks. Paragraphs are joined with blank lines.
func cleanContext(text string) string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if r, size := utf8.DecodeRuneInString(line); r == '○' || r == '•' {
			flush()
			line = strings.TrimSpace(line[size:])
			if line == "" {
				continue
			}
		}
		current = append(current, line)
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

// buildContext cleans every document and joins them into one prompt context.
func buildContext(docs []domain.Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if cleaned := cleanContext(d.Content()); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, "\n\n")
}
