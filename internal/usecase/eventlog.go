package usecase

import (
	"sync"

	"TrendPull/internal/domain/models"
)

// EventLog is a bounded FIFO history of trend events. The monitor is the only
// writer; HTTP and WebSocket readers get copied snapshots, never the backing
// slice.
type EventLog struct {
	mu      sync.RWMutex
	limit   int
	entries []models.TrendEvent
}

func NewEventLog(limit int) *EventLog {
	return &EventLog{limit: limit, entries: make([]models.TrendEvent, 0, limit)}
}

// Append adds an event, evicting the oldest entries once the limit is
// exceeded.
func (l *EventLog) Append(e models.TrendEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// Snapshot returns a copy of the current log, oldest first.
func (l *EventLog) Snapshot() []models.TrendEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.TrendEvent, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
