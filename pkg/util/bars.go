package util

import "time"

// FloorToBar truncates an epoch-millisecond timestamp to the start of its
// bar. A candle inside an in-progress bar and the bar's opening tick both map
// to the same boundary.
func FloorToBar(tsMillis int64, bar time.Duration) int64 {
	barMs := bar.Milliseconds()
	if barMs <= 0 {
		return tsMillis
	}
	return (tsMillis / barMs) * barMs
}

// FormatLocal renders a timestamp in the process-local timezone the way the
// dashboard displays it.
func FormatLocal(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
