package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/handler/ws"
	"TrendPull/internal/leader"
	"TrendPull/internal/usecase"
	xlogger "TrendPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubSource struct{}

func (stubSource) Fetch(ctx context.Context) ([]models.Candle, error) { return nil, nil }

type stubNotifier struct{}

func (stubNotifier) Notify(ctx context.Context, text string) error { return nil }

type stubMetrics struct{}

func (stubMetrics) RecordCycle(string)            {}
func (stubMetrics) RecordError(string)            {}
func (stubMetrics) RecordFlip(string)             {}
func (stubMetrics) RecordNotification(string)     {}
func (stubMetrics) RecordLatency(string, float64) {}

func newTestServer(t *testing.T) (*httptest.Server, *leader.Guard) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	monitor := usecase.NewMonitor(stubSource{}, stubNotifier{}, nil, stubMetrics{}, log)
	guard := leader.New()
	h := NewEventsHandler(log, monitor, ws.NewHub(log), guard)

	e := echo.New()
	h.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, guard
}

func getJSON(t *testing.T, url string, dest interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	if code := getJSON(t, srv.URL+"/health", nil); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
}

func TestStatusReportsLeaderAndTrend(t *testing.T) {
	srv, guard := newTestServer(t)
	guard.Acquire()

	var body struct {
		Data models.StatusResponse `json:"data"`
	}
	if code := getJSON(t, srv.URL+"/api/status", &body); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !body.Data.Leader {
		t.Fatalf("leader = false, want true after acquire")
	}
	if body.Data.CurrentTrend != models.TrendNone {
		t.Fatalf("trend = %q, want none before any flip", body.Data.CurrentTrend)
	}
	if body.Data.Status != "ok" {
		t.Fatalf("status field = %q, want ok", body.Data.Status)
	}
}

func TestEventsRejectsOutOfRangeLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		Status int `json:"status"`
	}
	getJSON(t, srv.URL+"/api/events?limit=99", &body)
	if body.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400 for limit above range", body.Status)
	}
}

func TestEventsReturnsEmptyListInitially(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		Data struct {
			Rows  []models.TrendEvent `json:"rows"`
			Total int64               `json:"total"`
		} `json:"data"`
	}
	if code := getJSON(t, srv.URL+"/api/events", &body); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body.Data.Total != 0 || len(body.Data.Rows) != 0 {
		t.Fatalf("expected empty event list, got %+v", body.Data)
	}
}
