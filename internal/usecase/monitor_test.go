package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/domain/repository"
	"TrendPull/pkg/logger"
)

type fakeSource struct {
	candles []models.Candle
	err     error
}

func (f *fakeSource) Fetch(ctx context.Context) ([]models.Candle, error) {
	return f.candles, f.err
}

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

type fakeSink struct {
	broadcasts [][]models.TrendEvent
}

func (f *fakeSink) Broadcast(ctx context.Context, events []models.TrendEvent) {
	f.broadcasts = append(f.broadcasts, events)
}

type nopMetrics struct{}

func (nopMetrics) RecordCycle(string)            {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordFlip(string)             {}
func (nopMetrics) RecordNotification(string)     {}
func (nopMetrics) RecordLatency(string, float64) {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// flatCandles builds one candle per bar with a weighted close equal to
// values[i], ending at the bar that starts at lastBarStart milliseconds.
func flatCandles(values []float64, lastBarStart int64) []models.Candle {
	barMs := BarDuration.Milliseconds()
	out := make([]models.Candle, len(values))
	for i, v := range values {
		out[i] = models.Candle{
			Timestamp: lastBarStart - int64(len(values)-1-i)*barMs,
			Open:      v,
			High:      v,
			Low:       v,
			Close:     v,
		}
	}
	return out
}

func risingRamp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 0.5*float64(i)
	}
	return out
}

func fallingRamp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 300 - 0.5*float64(i)
	}
	return out
}

func newTestMonitor(t *testing.T, src repository.CandleSource, notifier repository.Notifier, sinks ...repository.EventSink) *Monitor {
	t.Helper()
	return NewMonitor(src, notifier, sinks, nopMetrics{}, testLogger(t))
}

const barMs = int64(2 * 60 * 60 * 1000)

func TestEvaluateFlipsToUptrendOnRisingSeries(t *testing.T) {
	src := &fakeSource{candles: flatCandles(risingRamp(CandleWindow), 100*barMs)}
	notifier := &fakeNotifier{}
	sink := &fakeSink{}
	fixed := time.Date(2026, 1, 2, 10, 0, 0, 0, time.Local)
	m := NewMonitor(src, notifier, []repository.EventSink{sink}, nopMetrics{}, testLogger(t),
		WithClock(func() time.Time { return fixed }))

	m.Evaluate(context.Background())

	if got := m.Trend(); got != models.TrendUp {
		t.Fatalf("trend = %q, want uptrend", got)
	}
	events := m.Events()
	if len(events) != 1 || events[0].Trend != models.TrendUp {
		t.Fatalf("events = %+v, want one uptrend event", events)
	}
	if events[0].Time != "2026-01-02 10:00:00" {
		t.Fatalf("event time = %q, want local wall-clock format", events[0].Time)
	}
	if len(notifier.texts) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.texts))
	}
	if len(sink.broadcasts) != 1 || len(sink.broadcasts[0]) != 1 {
		t.Fatalf("broadcasts = %+v, want one snapshot with one event", sink.broadcasts)
	}
}

func TestEvaluateFlipsToDowntrendOnFallingSeries(t *testing.T) {
	src := &fakeSource{candles: flatCandles(fallingRamp(CandleWindow), 100*barMs)}
	m := newTestMonitor(t, src, &fakeNotifier{}, &fakeSink{})

	m.Evaluate(context.Background())

	if got := m.Trend(); got != models.TrendDown {
		t.Fatalf("trend = %q, want downtrend", got)
	}
}

func TestEvaluateJudgesEachBarOnce(t *testing.T) {
	src := &fakeSource{candles: flatCandles(risingRamp(CandleWindow), 100*barMs)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, src, notifier, &fakeSink{})

	m.Evaluate(context.Background())
	m.Evaluate(context.Background())

	if len(m.Events()) != 1 {
		t.Fatalf("events = %d, want same bar judged once", len(m.Events()))
	}
	if len(notifier.texts) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.texts))
	}
}

func TestEvaluateHoldsTrendWhileRising(t *testing.T) {
	ramp := risingRamp(CandleWindow + 1)
	src := &fakeSource{candles: flatCandles(ramp[:CandleWindow], 100*barMs)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, src, notifier, &fakeSink{})

	m.Evaluate(context.Background())

	// Next completed bar, still rising: no new event.
	src.candles = flatCandles(ramp[1:], 101*barMs)
	m.Evaluate(context.Background())

	if len(m.Events()) != 1 {
		t.Fatalf("events = %d, want no event without a flip", len(m.Events()))
	}
}

func TestEvaluateSkipsShortHistory(t *testing.T) {
	src := &fakeSource{candles: flatCandles(risingRamp(19), 100*barMs)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, src, notifier, &fakeSink{})

	m.Evaluate(context.Background())

	if m.Trend() != models.TrendNone || len(m.Events()) != 0 {
		t.Fatalf("state should be untouched with short history")
	}
	if len(notifier.texts) != 0 {
		t.Fatalf("no notification expected")
	}
}

func TestEvaluateHoldsOnDisagreement(t *testing.T) {
	// A sharp drop on the last bar turns the fast pair down while the slow
	// pair is still rising.
	ramp := risingRamp(CandleWindow)
	ramp[len(ramp)-1] = ramp[len(ramp)-2] - 5.0
	src := &fakeSource{candles: flatCandles(ramp, 100*barMs)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(t, src, notifier, &fakeSink{})

	m.Evaluate(context.Background())

	if m.Trend() != models.TrendNone {
		t.Fatalf("trend = %q, want none on disagreement", m.Trend())
	}
	if len(m.Events()) != 0 || len(notifier.texts) != 0 {
		t.Fatalf("disagreement must not produce events or alerts")
	}
}

func TestEvaluateAbsorbsFetchErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	m := newTestMonitor(t, src, &fakeNotifier{}, &fakeSink{})

	m.Evaluate(context.Background())
	m.Evaluate(context.Background())

	if m.Trend() != models.TrendNone || len(m.Events()) != 0 {
		t.Fatalf("state should be untouched after fetch errors")
	}
	if m.LastError() == nil {
		t.Fatalf("last error should be recorded")
	}

	// Recovery clears the error once a bar is judged.
	src.err = nil
	src.candles = flatCandles(risingRamp(CandleWindow), 100*barMs)
	m.Evaluate(context.Background())
	if m.LastError() != nil {
		t.Fatalf("last error should clear after a successful cycle")
	}
}

func TestEvaluateNotifierFailureStillRecordsEvent(t *testing.T) {
	src := &fakeSource{candles: flatCandles(risingRamp(CandleWindow), 100*barMs)}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	sink := &fakeSink{}
	m := newTestMonitor(t, src, notifier, sink)

	m.Evaluate(context.Background())

	if len(m.Events()) != 1 {
		t.Fatalf("event must be recorded even when delivery fails")
	}
	if len(sink.broadcasts) != 1 {
		t.Fatalf("broadcast must still happen when delivery fails")
	}
}
