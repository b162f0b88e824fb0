// Package exchange fetches OHLC candle history from the exchange REST API.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"TrendPull/internal/domain/models"
	xhttp "TrendPull/pkg/http"
)

// Client pulls candles for one symbol/resolution pair. It implements
// repository.CandleSource.
type Client struct {
	http       *xhttp.Client
	baseURL    string
	symbol     string
	resolution string
	barSeconds int64
	limit      int
	now        func() time.Time
}

type Option func(*Client)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(http *xhttp.Client, baseURL, symbol, resolution string, bar time.Duration, limit int, opts ...Option) *Client {
	c := &Client{
		http:       http,
		baseURL:    baseURL,
		symbol:     symbol,
		resolution: resolution,
		barSeconds: int64(bar / time.Second),
		limit:      limit,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// candleRow mirrors one entry of the exchange response. Fields are pointers
// so rows with missing values can be detected and dropped instead of being
// read as zeros.
type candleRow struct {
	Time  *int64       `json:"time"`
	Open  *json.Number `json:"open"`
	High  *json.Number `json:"high"`
	Low   *json.Number `json:"low"`
	Close *json.Number `json:"close"`
}

type candleResponse struct {
	Success bool        `json:"success"`
	Result  []candleRow `json:"result"`
}

// Fetch requests the most recent window of candles, oldest first. Rows with
// missing fields are dropped and duplicate timestamps are collapsed to the
// last occurrence.
func (c *Client) Fetch(ctx context.Context) ([]models.Candle, error) {
	end := c.now().Unix()
	start := end - int64(c.limit)*c.barSeconds

	var resp candleResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"resolution": {c.resolution},
			"symbol":     {c.symbol},
			"start":      {strconv.FormatInt(start, 10)},
			"end":        {strconv.FormatInt(end, 10)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("fetch candles: exchange returned success=false")
	}

	candles := make([]models.Candle, 0, len(resp.Result))
	for _, row := range resp.Result {
		if row.Time == nil || row.Open == nil || row.High == nil || row.Low == nil || row.Close == nil {
			continue
		}
		open, err1 := row.Open.Float64()
		high, err2 := row.High.Float64()
		low, err3 := row.Low.Float64()
		cls, err4 := row.Close.Float64()
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		candles = append(candles, models.Candle{
			Timestamp: *row.Time * 1000,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     cls,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp < candles[j].Timestamp
	})

	deduped := candles[:0]
	for i, cd := range candles {
		if i+1 < len(candles) && candles[i+1].Timestamp == cd.Timestamp {
			continue
		}
		deduped = append(deduped, cd)
	}
	if len(deduped) == 0 {
		return nil, fmt.Errorf("fetch candles: no usable rows")
	}
	return deduped, nil
}
