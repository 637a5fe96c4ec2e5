package reflection

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/logger"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
	"github.com/kailas-cloud/ragfuse/internal/usecase/router"
)

// ModelClient executes one prompt against a chat model.
type ModelClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Engine rewrites follow-up questions into self-contained ones using
// recent conversation history.
type Engine struct {
	model    ModelClient
	prompts  *prompt.Library
	maxTurns int
}

// New creates a reflection engine. maxTurns caps how many recent turns
// feed the rewrite prompt (default 2).
func New(model ModelClient, prompts *prompt.Library, maxTurns int) *Engine {
	if maxTurns <= 0 {
		maxTurns = 2
	}
	return &Engine{model: model, prompts: prompts, maxTurns: maxTurns}
}

// Reflect returns a self-contained form of the question.
// An empty history is a strict no-op: the question comes back unchanged
// and the model is never called. Any failure, or an empty rewrite, falls
// back to the original question. Reflect never returns an error.
func (e *Engine) Reflect(ctx context.Context, question string, history domain.History) string {
	if history.Empty() {
		return question
	}

	log := logger.FromContext(ctx)

	p, err := e.prompts.Render(prompt.Reflect, prompt.ReflectData{
		Transcript: router.Transcript(history.Last(e.maxTurns)),
		Question:   question,
	})
	if err != nil {
		log.Warn("Failed to render reflect prompt", zap.Error(err))
		return question
	}

	raw, err := e.model.Invoke(ctx, p)
	if err != nil {
		log.Warn("Reflection failed, keeping original question", zap.Error(err))
		return question
	}

	rewritten := strings.TrimSpace(raw)
	if rewritten == "" {
		log.Warn("Reflection returned empty rewrite, keeping original question")
		return question
	}

	if rewritten != question {
		log.Debug("Question rewritten",
			zap.String("original", question),
			zap.String("rewritten", rewritten))
	}
	return rewritten
}
