package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the cache is down; searches still reach the engine.
	Degraded Status = "degraded"
	// Unhealthy indicates the search engine is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentSearch = "search"
	ComponentCache  = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	search Pinger
	cache  Pinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(search, cache Pinger) *Service {
	return &Service{search: search, cache: cache}
}

// Check pings the search engine and, if configured, the cache.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{ComponentSearch: check(ctx, s.search)}
	if s.cache != nil {
		checks[ComponentCache] = check(ctx, s.cache)
	}

	status := Healthy
	switch {
	case checks[ComponentSearch] == CheckError:
		status = Unhealthy
	case checks[ComponentCache] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func check(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
