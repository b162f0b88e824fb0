package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/domain/repository"
	"TrendPull/internal/indicator"
	"TrendPull/pkg/logger"
	"TrendPull/pkg/util"
)

// Monitoring parameters. These are deliberate constants rather than
// configuration: the job watches exactly one market with one tuned indicator
// setup, and changing any of them invalidates the tuning of the rest.
const (
	Symbol      = "BTCUSD"
	Resolution  = "2h"
	BarDuration = 2 * time.Hour

	CandleWindow = 200
	pollInterval = 20 * time.Second
	minHistory   = 20
	logLimit     = 50

	primaryLength   = 8
	primaryVolume   = 0.7
	secondaryLength = 5
	secondaryVolume = 0.618
)

// Monitor polls candles, runs the smoothed trend indicator over two parameter
// pairs, and fires an event when both agree on a direction different from the
// current one. Decisions are made once per completed bar.
type Monitor struct {
	source   repository.CandleSource
	notifier repository.Notifier
	sinks    []repository.EventSink
	metrics  repository.Metrics
	log      *logger.Logger
	events   *EventLog
	now      func() time.Time

	mu      sync.RWMutex
	trend   models.Trend
	lastBar int64
	lastErr error
}

type MonitorOption func(*Monitor)

// WithClock overrides the wall clock used for event timestamps, for tests.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) { m.now = now }
}

func NewMonitor(
	source repository.CandleSource,
	notifier repository.Notifier,
	sinks []repository.EventSink,
	metrics repository.Metrics,
	log *logger.Logger,
	opts ...MonitorOption,
) *Monitor {
	m := &Monitor{
		source:   source,
		notifier: notifier,
		sinks:    sinks,
		metrics:  metrics,
		log:      log,
		events:   NewEventLog(logLimit),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run evaluates immediately and then once per poll interval until ctx is
// cancelled. Every failure mode is absorbed; the loop itself never exits
// early.
func (m *Monitor) Run(ctx context.Context) {
	m.log.Info("monitor started",
		logger.String("symbol", Symbol),
		logger.String("resolution", Resolution),
		logger.Duration("poll_interval", pollInterval),
	)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	m.Evaluate(ctx)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return
		case <-ticker.C:
			m.Evaluate(ctx)
		}
	}
}

// Evaluate runs one poll/decide cycle.
func (m *Monitor) Evaluate(ctx context.Context) {
	start := m.now()
	outcome := m.evaluate(ctx)
	m.metrics.RecordCycle(outcome)
	m.metrics.RecordLatency("evaluate", time.Since(start).Seconds())
}

func (m *Monitor) evaluate(ctx context.Context) string {
	candles, err := m.source.Fetch(ctx)
	if err != nil {
		m.setErr(fmt.Errorf("fetch: %w", err))
		m.metrics.RecordError("fetch")
		m.log.Warn("candle fetch failed", logger.Error(err))
		return "fetch_error"
	}
	if len(candles) < minHistory {
		m.log.Debug("not enough history", logger.Int("candles", len(candles)))
		return "short_history"
	}

	high := make([]float64, len(candles))
	low := make([]float64, len(candles))
	close := make([]float64, len(candles))
	for i, c := range candles {
		high[i], low[i], close[i] = c.High, c.Low, c.Close
	}
	src := indicator.WeightedClose(high, low, close)
	primary := indicator.Colors(indicator.T3(src, primaryLength, primaryVolume))
	secondary := indicator.Colors(indicator.T3(src, secondaryLength, secondaryVolume))

	last := len(candles) - 1
	barStart := util.FloorToBar(candles[last].Timestamp, BarDuration)

	m.mu.Lock()

	// One decision per completed bar. Mid-bar polls and refetches of an
	// already-judged bar change nothing.
	if barStart <= m.lastBar {
		m.mu.Unlock()
		return "same_bar"
	}
	m.lastBar = barStart
	m.lastErr = nil

	next := models.TrendNone
	switch {
	case primary[last] == indicator.ColorRising && secondary[last] == indicator.ColorRising:
		next = models.TrendUp
	case primary[last] == indicator.ColorFalling && secondary[last] == indicator.ColorFalling:
		next = models.TrendDown
	}

	if next == models.TrendNone {
		m.mu.Unlock()
		m.log.Debug("indicators disagree, holding trend")
		return "disagreement"
	}
	if next == m.trend {
		m.mu.Unlock()
		return "no_flip"
	}

	m.trend = next
	event := models.TrendEvent{
		Trend: next,
		Time:  util.FormatLocal(m.now()),
	}
	m.events.Append(event)
	m.metrics.RecordFlip(string(next))
	m.log.Info("trend flip",
		logger.String("symbol", Symbol),
		logger.String("trend", string(next)),
		logger.String("time", event.Time),
	)

	m.mu.Unlock()

	m.dispatch(ctx, next, m.events.Snapshot())
	return "flip"
}

// dispatch delivers the alert and fans the log snapshot out to all sinks.
// Runs outside the state lock so readers are never blocked on delivery.
func (m *Monitor) dispatch(ctx context.Context, trend models.Trend, events []models.TrendEvent) {
	text := fmt.Sprintf("%s %s: trend flipped to %s", Symbol, Resolution, trend)
	if err := m.notifier.Notify(ctx, text); err != nil {
		m.metrics.RecordError("notify")
		m.log.Warn("alert delivery failed", logger.Error(err))
	}
	for _, sink := range m.sinks {
		sink.Broadcast(ctx, events)
	}
}

func (m *Monitor) setErr(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

// Trend returns the current confirmed trend.
func (m *Monitor) Trend() models.Trend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trend
}

// LastError returns the most recent cycle error, if the latest cycle failed.
func (m *Monitor) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Events returns a snapshot of the trend event log, oldest first.
func (m *Monitor) Events() []models.TrendEvent {
	return m.events.Snapshot()
}
