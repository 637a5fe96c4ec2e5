package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/logger"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
)

// Label is a question routing decision.
type Label string

const (
	// LabelChat marks greetings, small talk and questions about the assistant.
	LabelChat Label = "CHAT"
	// LabelFollowUp marks questions that depend on the conversation so far.
	LabelFollowUp Label = "FOLLOW_UP"
	// LabelKnowledge marks self-contained questions for the document corpus.
	LabelKnowledge Label = "KNOWLEDGE"
)

// Conversational reports whether the label short-circuits retrieval.
func (l Label) Conversational() bool { return l == LabelChat }

// Router classifies incoming questions and produces conversational replies.
type Router struct {
	model   ModelClient
	prompts *prompt.Library
}

// New creates a question router.
func New(model ModelClient, prompts *prompt.Library) *Router {
	return &Router{model: model, prompts: prompts}
}

// Classify routes a question given the session history.
// Any failure or unrecognized model output defaults to LabelKnowledge:
// misrouting toward retrieval costs latency, misrouting toward chat
// loses the answer.
func (r *Router) Classify(ctx context.Context, question string, history domain.History) Label {
	log := logger.FromContext(ctx)

	p, err := r.prompts.Render(prompt.Classify, prompt.ClassifyData{
		Transcript: Transcript(history.Turns()),
		Question:   question,
	})
	if err != nil {
		log.Warn("Failed to render classify prompt", zap.Error(err))
		return LabelKnowledge
	}

	raw, err := r.model.Invoke(ctx, p)
	if err != nil {
		log.Warn("Question classification failed, defaulting to knowledge", zap.Error(err))
		return LabelKnowledge
	}

	label := parseLabel(raw)
	log.Debug("Question classified", zap.String("label", string(label)))
	return label
}

// Reply produces the canned conversational answer for a CHAT question.
func (r *Router) Reply(ctx context.Context, question string) (string, error) {
	p, err := r.prompts.Render(prompt.ChatReply, prompt.ChatReplyData{Question: question})
	if err != nil {
		return "", fmt.Errorf("render chat reply prompt: %w", err)
	}

	raw, err := r.model.Invoke(ctx, p)
	if err != nil {
		return "", fmt.Errorf("chat reply: %w", err)
	}

	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", fmt.Errorf("chat reply: model returned empty response")
	}
	return reply, nil
}

// parseLabel extracts the routing label from model output.
// FOLLOW_UP is checked before the others so that verbose answers
// mentioning several labels resolve to the most specific one.
func parseLabel(raw string) Label {
	normalized := strings.ToUpper(strings.TrimSpace(raw))

	switch Label(normalized) {
	case LabelChat, LabelFollowUp, LabelKnowledge:
		return Label(normalized)
	}

	for _, l := range []Label{LabelFollowUp, LabelChat, LabelKnowledge} {
		if strings.Contains(normalized, string(l)) {
			return l
		}
	}
	return LabelKnowledge
}

// Transcript renders turns as a numbered Q/A block for classification
// and reflection prompts.
func Transcript(turns []domain.Turn) string {
	if len(turns) == 0 {
		return "(no prior conversation)"
	}

	var sb strings.Builder
	for i, t := range turns {
		fmt.Fprintf(&sb, "Q%d: %s\n", i+1, t.Question)
		fmt.Fprintf(&sb, "A%d: %s\n", i+1, t.Answer)
	}
	return strings.TrimRight(sb.String(), "\n")
}
