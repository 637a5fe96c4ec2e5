package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragfuse/internal/domain"
	"github.com/kailas-cloud/ragfuse/internal/logger"
	"github.com/kailas-cloud/ragfuse/internal/prompt"
	"github.com/kailas-cloud/ragfuse/internal/usecase/reasoning"
)

// RetryAnswer is the fixed reply when answer synthesis itself fails.
const RetryAnswer = "Something went wrong while answering. Please try again."

// Pipeline orchestrates one question through routing, reflection,
// expanded retrieval, reranking and answer production, and records the
// finished turn in the session history.
type Pipeline struct {
	router   Router
	reflect  Reflector
	retrieve Retriever
	rerank   Reranker
	reason   Reasoner
	model    ModelClient
	sessions SessionStore
	prompts  *prompt.Library
}

// NewPipeline wires the orchestrator.
func NewPipeline(
	r Router,
	reflect Reflector,
	retrieve Retriever,
	rerank Reranker,
	reason Reasoner,
	model ModelClient,
	sessions SessionStore,
	prompts *prompt.Library,
) *Pipeline {
	if rerank == nil {
		rerank = Passthrough{}
	}
	return &Pipeline{
		router:   r,
		reflect:  reflect,
		retrieve: retrieve,
		rerank:   rerank,
		reason:   reason,
		model:    model,
		sessions: sessions,
		prompts:  prompts,
	}
}

// Ask answers a question with a directly synthesized reply.
//
// CHAT questions short-circuit to a conversational reply without touching
// the corpus. Empty retrieval, or a context that cleans down to nothing,
// produces the fixed insufficient-information answer. Model failures
// during synthesis degrade to a retry message.
// Only corpus-level failures surface as errors.
func (p *Pipeline) Ask(ctx context.Context, sessionID, question string) (string, error) {
	log := logger.FromContext(ctx)
	history := p.history(ctx, sessionID)

	label := p.router.Classify(ctx, question, history)
	if label.Conversational() {
		reply, err := p.router.Reply(ctx, question)
		if err != nil {
			log.Warn("Conversational reply failed", zap.Error(err))
			reply = RetryAnswer
		}
		p.record(ctx, sessionID, question, reply)
		return reply, nil
	}

	query := p.reflect.Reflect(ctx, question, history)

	docs, err := p.retrieve.Retrieve(ctx, query)
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	if len(docs) == 0 {
		p.record(ctx, sessionID, question, reasoning.InsufficientAnswer)
		return reasoning.InsufficientAnswer, nil
	}

	contextText := p.assembleContext(ctx, query, docs)
	if strings.TrimSpace(contextText) == "" {
		// Documents can clean down to nothing (whitespace-only content);
		// never prompt the model without context.
		p.record(ctx, sessionID, question, reasoning.InsufficientAnswer)
		return reasoning.InsufficientAnswer, nil
	}

	answer := p.synthesize(ctx, query, contextText)
	p.record(ctx, sessionID, question, answer)
	return answer, nil
}

// DeepThink answers a question with a visible reasoning trace.
// The question always goes through reflection and retrieval; the reasoning
// engine handles empty or irrelevant context itself, so DeepThink only
// fails on corpus-level errors.
func (p *Pipeline) DeepThink(ctx context.Context, sessionID, question string) (domain.ReasoningResult, error) {
	history := p.history(ctx, sessionID)

	query := p.reflect.Reflect(ctx, question, history)

	docs, err := p.retrieve.Retrieve(ctx, query)
	if err != nil {
		return domain.ReasoningResult{}, fmt.Errorf("deep think: %w", err)
	}

	contextText := p.assembleContext(ctx, query, docs)

	result := p.reason.DeepThink(ctx, query, contextText)
	p.record(ctx, sessionID, question, result.Answer)
	return result, nil
}

// history loads the session history, degrading to an empty one on store failure.
func (p *Pipeline) history(ctx context.Context, sessionID string) domain.History {
	h, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to load session history",
			zap.String("session_id", sessionID), zap.Error(err))
		return domain.History{}
	}
	return h
}

// assembleContext reranks the documents and flattens them into cleaned
// prompt context. Reranker failure keeps the fused order.
func (p *Pipeline) assembleContext(ctx context.Context, query string, docs []domain.ScoredDocument) string {
	plain := domain.Documents(docs)

	ranked, err := p.rerank.Rerank(ctx, query, plain)
	if err != nil {
		logger.FromContext(ctx).Warn("Reranker failed, keeping fused order", zap.Error(err))
		ranked = plain
	}

	return buildContext(ranked)
}

// synthesize produces the direct answer over the assembled context.
func (p *Pipeline) synthesize(ctx context.Context, question, contextText string) string {
	log := logger.FromContext(ctx)

	pr, err := p.prompts.Render(prompt.Synthesize, prompt.SynthesizeData{
		Question: question,
		Context:  contextText,
	})
	if err != nil {
		log.Warn("Failed to render synthesis prompt", zap.Error(err))
		return RetryAnswer
	}

	raw, err := p.model.Invoke(ctx, pr)
	if err != nil {
		log.Warn("Answer synthesis failed", zap.Error(err))
		return RetryAnswer
	}

	answer := strings.TrimSpace(raw)
	if answer == "" {
		log.Warn("Answer synthesis returned empty response")
		return RetryAnswer
	}
	return answer
}

// record appends the finished turn; history loss is logged, not fatal.
func (p *Pipeline) record(ctx context.Context, sessionID, question, answer string) {
	if err := p.sessions.Append(ctx, sessionID, domain.Turn{Question: question, Answer: answer}); err != nil {
		logger.FromContext(ctx).Warn("Failed to record turn",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}
