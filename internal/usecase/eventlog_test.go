package usecase

import (
	"fmt"
	"testing"

	"TrendPull/internal/domain/models"
)

func TestEventLogEvictsOldestFirst(t *testing.T) {
	l := NewEventLog(50)
	for i := 0; i < 51; i++ {
		l.Append(models.TrendEvent{Trend: models.TrendUp, Time: fmt.Sprintf("t%d", i)})
	}
	if l.Len() != 50 {
		t.Fatalf("log length = %d, want 50", l.Len())
	}
	snap := l.Snapshot()
	if snap[0].Time != "t1" {
		t.Fatalf("oldest entry = %s, want t1 (t0 evicted)", snap[0].Time)
	}
	if snap[len(snap)-1].Time != "t50" {
		t.Fatalf("newest entry = %s, want t50", snap[len(snap)-1].Time)
	}
}

func TestEventLogSnapshotIsCopy(t *testing.T) {
	l := NewEventLog(10)
	l.Append(models.TrendEvent{Trend: models.TrendDown, Time: "t0"})
	snap := l.Snapshot()
	snap[0].Time = "mutated"
	if l.Snapshot()[0].Time != "t0" {
		t.Fatalf("snapshot mutation leaked into the log")
	}
}
