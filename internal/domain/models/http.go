package models

// Requests and responses for the dashboard HTTP endpoints. Defined in domain
// for consistency and reuse.

type EventsRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=50"`
}

type StatusResponse struct {
	Status       string `json:"status"`
	CurrentTrend Trend  `json:"currentTrend"`
	LogCount     int    `json:"logCount"`
	LastError    string `json:"lastError,omitempty"`
	Leader       bool   `json:"leader"`
	Clients      int    `json:"clients"`
}
