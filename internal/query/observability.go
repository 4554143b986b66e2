package query

import (
	"log/slog"
)

// Outcome classifies a cache event.
type Outcome string

const (
	OutcomeHit         Outcome = "hit"
	OutcomeStale       Outcome = "stale"
	OutcomeMiss        Outcome = "miss"
	OutcomeFetched     Outcome = "fetched"
	OutcomeError       Outcome = "error"
	OutcomeSuperseded  Outcome = "superseded"
	OutcomeInvalidated Outcome = "invalidated"
)

// Event describes one cache read, fetch completion or invalidation.
type Event struct {
	Key      Key
	Outcome  Outcome
	Attempts int
	Err      error
}

// Observer receives cache events.
type Observer interface {
	OnQuery(event Event)
}

// LogObserver writes cache events at debug level.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnQuery(event Event) {
	attrs := []any{"key", event.Key.String(), "outcome", string(event.Outcome)}
	if event.Attempts > 0 {
		attrs = append(attrs, "attempts", event.Attempts)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
	}
	o.logger.Debug("query", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnQuery(Event) {}
