package repository

import (
	"context"

	"TrendPull/internal/domain/models"
)

// CandleSource fetches the most recent candle window for the monitored
// symbol. A failed or empty fetch returns an error; callers treat it the same
// as "no new data yet".
type CandleSource interface {
	Fetch(ctx context.Context) ([]models.Candle, error)
}

// Notifier delivers an outbound alert message. Implementations own their own
// cooldown state and absorb delivery failures; a skipped or failed delivery
// never reaches the caller as an error worth acting on.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// EventSink receives the full event-log snapshot after every new trend event.
type EventSink interface {
	Broadcast(ctx context.Context, events []models.TrendEvent)
}

type Metrics interface {
	RecordCycle(outcome string)
	RecordError(kind string)
	RecordFlip(trend string)
	RecordNotification(result string)
	RecordLatency(op string, seconds float64)
}
