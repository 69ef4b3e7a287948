package health

import "context"

// DBPinger checks retrieval backend availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external provider (embedding or LLM).
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
