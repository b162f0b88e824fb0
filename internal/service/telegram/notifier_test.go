package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	xhttp "TrendPull/pkg/http"
	"TrendPull/pkg/logger"
)

type captureMetrics struct {
	mu      sync.Mutex
	results []string
}

func (m *captureMetrics) RecordCycle(string)            {}
func (m *captureMetrics) RecordError(string)            {}
func (m *captureMetrics) RecordFlip(string)             {}
func (m *captureMetrics) RecordLatency(string, float64) {}
func (m *captureMetrics) RecordNotification(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestNotifySendsMessage(t *testing.T) {
	var got sendMessageRequest
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	m := &captureMetrics{}
	n := NewNotifier(xhttp.NewClient(), testLogger(t), m, "tok", "-100123", WithBaseURL(srv.URL))

	if err := n.Notify(context.Background(), "BTCUSD uptrend"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotPath != "/bottok/sendMessage" {
		t.Fatalf("path = %s, want /bottok/sendMessage", gotPath)
	}
	if got.ChatID != "-100123" || got.Text != "BTCUSD uptrend" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if len(m.results) != 1 || m.results[0] != "sent" {
		t.Fatalf("metrics = %v, want [sent]", m.results)
	}
}

func TestNotifyRespectsCooldown(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	clock := time.Unix(1_700_000_000, 0)
	m := &captureMetrics{}
	n := NewNotifier(xhttp.NewClient(), testLogger(t), m, "tok", "1", WithBaseURL(srv.URL),
		WithNow(func() time.Time { return clock }))

	if err := n.Notify(context.Background(), "first"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := n.Notify(context.Background(), "suppressed"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want second delivery suppressed", calls)
	}

	clock = clock.Add(10*time.Minute + time.Second)
	if err := n.Notify(context.Background(), "after cooldown"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want delivery after cooldown", calls)
	}
}

func TestNotifyDisabledWithoutCredentials(t *testing.T) {
	m := &captureMetrics{}
	n := NewNotifier(xhttp.NewClient(), testLogger(t), m, "", "")
	if err := n.Notify(context.Background(), "ignored"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(m.results) != 1 || m.results[0] != "skipped" {
		t.Fatalf("metrics = %v, want [skipped]", m.results)
	}
}

func TestNotifyErrorDoesNotAdvanceCooldown(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	m := &captureMetrics{}
	n := NewNotifier(xhttp.NewClient(), testLogger(t), m, "tok", "1", WithBaseURL(srv.URL))

	if err := n.Notify(context.Background(), "fails"); err == nil {
		t.Fatalf("expected error from failed delivery")
	}
	if err := n.Notify(context.Background(), "retries"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want retry not suppressed", calls)
	}
}
