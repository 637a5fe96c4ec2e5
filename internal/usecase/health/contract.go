package health

import "context"

// Pinger checks session store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks a model or embedding provider.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

// CorpusSizer reports how many documents the corpus holds.
type CorpusSizer interface {
	Size(ctx context.Context) (int, error)
}
