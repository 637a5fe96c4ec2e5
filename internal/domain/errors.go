package domain

import "errors"

var (
	// ErrEmptyCorpus signals that retrieval ran against a corpus with no documents.
	ErrEmptyCorpus = errors.New("corpus is empty")
	// ErrModelProvider signals a language model provider failure.
	ErrModelProvider = errors.New("model provider error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSessionNotFound signals a missing conversation session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRateLimited signals a rate limit hit at a provider.
	ErrRateLimited = errors.New("rate limited")
)
