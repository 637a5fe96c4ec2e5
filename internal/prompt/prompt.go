package prompt

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// Template names. Stable identifiers: config overrides are keyed on them.
const (
	Variants     = "variants"
	Hypothetical = "hypothetical"
	Classify     = "classify"
	ChatReply    = "chat_reply"
	Reflect      = "reflect"
	Relevance    = "relevance"
	Analysis     = "analysis"
	Conclusion   = "conclusion"
	Synthesize   = "synthesize"
)

// Library holds the parsed prompt templates the pipeline renders at runtime.
// Texts are plain text/template documents so a deployment can replace any of
// them from config without a rebuild.
type Library struct {
	templates map[string]*template.Template
}

// Default returns a library with the built-in template texts.
func Default() *Library {
	l := &Library{templates: make(map[string]*template.Template, len(defaults))}
	for name, text := range defaults {
		l.templates[name] = template.Must(template.New(name).Parse(text))
	}
	return l
}

// Override replaces one template text. The name must be a known template.
func (l *Library) Override(name, text string) error {
	if _, ok := l.templates[name]; !ok {
		return fmt.Errorf("unknown prompt template %q (known: %s)", name, strings.Join(l.Names(), ", "))
	}
	t, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Errorf("parse prompt template %q: %w", name, err)
	}
	l.templates[name] = t
	return nil
}

// Render executes a template against data.
func (l *Library) Render(name string, data any) (string, error) {
	t, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt template %q: %w", name, err)
	}
	return sb.String(), nil
}

// Names lists the known template names, sorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VariantsData feeds the query variant generation template.
type VariantsData struct {
	Question string
	Count    int
}

// HypotheticalData feeds the hypothetical document template.
type HypotheticalData struct {
	Question string
}

// ClassifyData feeds the question classification template.
type ClassifyData struct {
	Transcript string
	Question   string
}

// ChatReplyData feeds the conversational reply template.
type ChatReplyData struct {
	Question string
}

// ReflectData feeds the question rewrite template.
type ReflectData struct {
	Transcript string
	Question   string
}

// RelevanceData feeds the context relevance gate template.
type RelevanceData struct {
	Question string
	Context  string
}

// AnalysisData feeds the deep analysis template.
type AnalysisData struct {
	Question string
	Context  string
}

// ConclusionData feeds the conclusion template.
type ConclusionData struct {
	Question string
	Analysis string
}

// SynthesizeData feeds the direct answer synthesis template.
type SynthesizeData struct {
	Question string
	Context  string
}
