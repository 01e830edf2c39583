package screen

import (
	"time"

	"StockEstimator/internal/chart"
	"StockEstimator/internal/format"
	"StockEstimator/internal/model"
)

// View is a point-in-time snapshot of everything the screen displays.
type View struct {
	Heading        string               `json:"heading"`
	SessionID      string               `json:"session_id"`
	BaseURL        string               `json:"base_url"`
	Selection      model.QuerySelection `json:"selection"`
	Tickers        []model.Ticker       `json:"tickers"`
	Headline       string               `json:"headline"`
	Samples        int                  `json:"samples"`
	SubmitDisabled bool                 `json:"submit_disabled"`
	FormDisabled   bool                 `json:"form_disabled"`
	Error          string               `json:"error,omitempty"`
	FetchedAt      *time.Time           `json:"fetched_at,omitempty"`
	Scene          chart.Scene          `json:"scene"`
}

func (s *PriceChartScreen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Heading:        Heading,
		SessionID:      s.sessionID,
		BaseURL:        s.endpoint.BaseURL(),
		Selection:      s.sel,
		Tickers:        append([]model.Ticker(nil), model.Tickers...),
		Headline:       format.Headline(s.headline),
		Samples:        len(s.series),
		SubmitDisabled: s.submitDisabled,
		FormDisabled:   s.formDisabled,
		Scene:          s.scene,
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
	}
	if !s.fetchedAt.IsZero() {
		at := s.fetchedAt
		v.FetchedAt = &at
	}
	return v
}
