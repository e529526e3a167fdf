package driven

import "time"

// Metrics receives operational events from the core services.
// Implementations must be safe for concurrent use. This is optional:
// a nil Metrics records nothing.
type Metrics interface {
	// ObserveSearch records one ranking run.
	ObserveSearch(results int, elapsed time.Duration)

	// ObserveTurn records one chat turn by reply kind.
	ObserveTurn(kind string, elapsed time.Duration)

	// ObserveAICall records one call to an AI provider.
	// capability is "embed" or "generate"; outcome is "ok", "error",
	// "circuit_open", "rate_limited" or "cached".
	ObserveAICall(capability, outcome string, elapsed time.Duration)

	// SetSessions records the number of live sessions.
	SetSessions(n int)
}
