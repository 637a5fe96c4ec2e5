package reasoning

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/logger"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
)

// ModelClient executes one prompt against a chat model.
type ModelClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Fixed user-facing answers for the non-success exits.
const (
	// InsufficientAnswer is returned whenever the retrieved context cannot
	// support an answer. The exact wording is part of the service contract.
	InsufficientAnswer = "I don't have enough information to answer this question."
	// FailedAnswer is returned when the model chain itself fails.
	FailedAnswer = "I could not finish reasoning about this question. Please try again."
)

// Step names in the reasoning trace.
const (
	StepContextCheck = "context_check"
	StepRelevance    = "relevance_check"
	StepAnalysis     = "analysis"
	StepConclusion   = "conclusion"
	StepError        = "error"
)

// Engine runs the multi-step reasoning chain: context presence check,
// relevance gate, analysis, conclusion.
type Engine struct {
	model   ModelClient
	prompts *prompt.Library
}

// New creates a deep reasoning engine.
func New(model ModelClient, prompts *prompt.Library) *Engine {
	return &Engine{model: model, prompts: prompts}
}

// DeepThink reasons over the context and answers the question.
//
// The trace always explains how the answer was reached: rejection exits
// (no context, irrelevant context) carry exactly one step plus the fixed
// insufficient-information answer; the success path carries the analysis
// and conclusion steps with the conclusion as the final answer. Model
// failures are absorbed into an error step with a fixed fallback answer.
// DeepThink never returns an error and never returns an empty answer.
func (e *Engine) DeepThink(ctx context.Context, question, contextText string) domain.ReasoningResult {
	if strings.TrimSpace(contextText) == "" {
		return domain.ReasoningResult{
			Steps: []domain.ReasoningStep{{
				Name:      StepContextCheck,
				Narration: "Checking the knowledge base for supporting information...",
				Content:   "No supporting documents were retrieved for this question.",
			}},
			Answer: InsufficientAnswer,
		}
	}

	relevant, err := e.checkRelevance(ctx, question, contextText)
	if err != nil {
		return e.failure(ctx, "relevance check", err)
	}
	if !relevant {
		return domain.ReasoningResult{
			Steps: []domain.ReasoningStep{{
				Name:      StepRelevance,
				Narration: "Evaluating the retrieved information...",
				Content:   "The retrieved context does not contain enough relevant information to answer this question.",
			}},
			Answer: InsufficientAnswer,
		}
	}

	analysis, err := e.analyze(ctx, question, contextText)
	if err != nil {
		return e.failure(ctx, "analysis", err)
	}

	conclusion, err := e.conclude(ctx, question, analysis)
	if err != nil {
		return e.failure(ctx, "conclusion", err)
	}

	return domain.ReasoningResult{
		Steps: []domain.ReasoningStep{
			{
				Name:      StepAnalysis,
				Narration: "Analyzing and connecting the retrieved information...",
				Content:   analysis,
			},
			{
				Name:      StepConclusion,
				Narration: "Forming the final answer from the analysis...",
				Content:   conclusion,
			},
		},
		Answer: conclusion,
	}
}

func (e *Engine) checkRelevance(ctx context.Context, question, contextText string) (bool, error) {
	p, err := e.prompts.Render(prompt.Relevance, prompt.RelevanceData{
		Question: question,
		Context:  contextText,
	})
	if err != nil {
		return false, fmt.Errorf("render relevance prompt: %w", err)
	}

	raw, err := e.model.Invoke(ctx, p)
	if err != nil {
		return false, fmt.Errorf("relevance check: %w", err)
	}

	// Lenient parse: the model is told to answer with one word but may
	// add punctuation or casing of its own.
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	return strings.HasPrefix(normalized, "YES"), nil
}

func (e *Engine) analyze(ctx context.Context, question, contextText string) (string, error) {
	p, err := e.prompts.Render(prompt.Analysis, prompt.AnalysisData{
		Question: question,
		Context:  contextText,
	})
	if err != nil {
		return "", fmt.Errorf("render analysis prompt: %w", err)
	}

	raw, err := e.model.Invoke(ctx, p)
	if err != nil {
		return "", fmt.Errorf("analysis: %w", err)
	}

	analysis := strings.TrimSpace(raw)
	if analysis == "" {
		return "", fmt.Errorf("analysis: model returned empty response")
	}
	return analysis, nil
}

func (e *Engine) conclude(ctx context.Context, question, analysis string) (string, error) {
	p, err := e.prompts.Render(prompt.Conclusion, prompt.ConclusionData{
		Question: question,
		Analysis: analysis,
	})
	if err != nil {
		return "", fmt.Errorf("render conclusion prompt: %w", err)
	}

	raw, err := e.model.Invoke(ctx, p)
	if err != nil {
		return "", fmt.Errorf("conclusion: %w", err)
	}

	conclusion := strings.TrimSpace(raw)
	if conclusion == "" {
		return "", fmt.Errorf("conclusion: model returned empty response")
	}
	return conclusion, nil
}

func (e *Engine) failure(ctx context.Context, stage string, err error) domain.ReasoningResult {
	logger.FromContext(ctx).Warn("Deep reasoning stage failed",
		zap.String("stage", stage), zap.Error(err))

	return domain.ReasoningResult{
		Steps: []domain.ReasoningStep{{
			Name:      StepError,
			Narration: fmt.Sprintf("Reasoning stopped during %s.", stage),
			Content:   "An error occurred while reasoning about this question.",
		}},
		Answer: FailedAnswer,
	}
}
