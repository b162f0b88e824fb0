package util

import (
	"testing"
	"time"
)

func TestFloorToBar(t *testing.T) {
	bar := 2 * time.Hour
	barMs := bar.Milliseconds()

	boundary := int64(1700000000000) / barMs * barMs
	cases := []struct {
		ts   int64
		want int64
	}{
		{boundary, boundary},
		{boundary + 1, boundary},
		{boundary + barMs - 1, boundary},
		{boundary + barMs, boundary + barMs},
	}
	for _, c := range cases {
		if got := FloorToBar(c.ts, bar); got != c.want {
			t.Fatalf("FloorToBar(%d) = %d, want %d", c.ts, got, c.want)
		}
	}
}

func TestFloorToBarZeroDuration(t *testing.T) {
	if got := FloorToBar(12345, 0); got != 12345 {
		t.Fatalf("zero bar duration should pass through, got %d", got)
	}
}

func TestFormatLocal(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.Local)
	if got := FormatLocal(ts); got != "2024-10-10 10:10:10" {
		t.Fatalf("unexpected format %q", got)
	}
}
