package models

// Trend is the monitor's current directional state.
type Trend string

const (
	TrendNone Trend = ""
	TrendUp   Trend = "uptrend"
	TrendDown Trend = "downtrend"
)

// TrendEvent records a single confirmed trend flip.
type TrendEvent struct {
	Trend Trend  `json:"trend"`
	Time  string `json:"time"` // local time, "2006-01-02 15:04:05"
}
