package models

// Candle is one normalized OHLC bar. Timestamp is epoch milliseconds; a
// fetched sequence is strictly ascending with no duplicate timestamps.
type Candle struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
}
