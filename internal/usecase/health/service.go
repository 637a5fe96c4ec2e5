package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	sessions Pinger
	model    ProviderChecker
	corpus   CorpusSizer
}

// New creates a Service. Any dependency can be nil; its check is then skipped.
func New(sessions Pinger, model ProviderChecker, corpus CorpusSizer) *Service {
	return &Service{sessions: sessions, model: model, corpus: corpus}
}

// Check runs health checks against all wired components.
// An empty corpus is reported as an error: the service cannot answer
// anything without documents.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.sessions != nil {
		if err := s.sessions.Ping(ctx); err != nil {
			checks["sessions"] = CheckError
		} else {
			checks["sessions"] = CheckOK
		}
	}

	if s.model != nil {
		if err := s.model.HealthCheck(ctx); err != nil {
			checks["model"] = CheckError
		} else {
			checks["model"] = CheckOK
		}
	}

	if s.corpus != nil {
		if n, err := s.corpus.Size(ctx); err != nil || n == 0 {
			checks["corpus"] = CheckError
		} else {
			checks["corpus"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
