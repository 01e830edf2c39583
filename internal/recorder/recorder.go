package recorder

import (
	"time"

	"StockEstimator/internal/model"
)

// FetchEvent records one "get data" round trip against the price backend.
type FetchEvent struct {
	SessionID string               `json:"session_id"`
	Timestamp time.Time            `json:"timestamp"`
	BaseURL   string               `json:"base_url"`
	Selection model.QuerySelection `json:"selection"`
	Samples   int                  `json:"samples"`
	Headline  string               `json:"headline"`
	Error     string               `json:"error,omitempty"`
}

// Recorder persists fetch history for later inspection.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	Close() error
}

// HistoryReader is implemented by recorders that can list what they stored.
type HistoryReader interface {
	RecentFetches(limit int) ([]FetchEvent, error)
}
