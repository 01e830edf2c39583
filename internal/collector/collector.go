package collector

import (
	"context"
	"sync"
	"time"

	"StockEstimator/internal/model"

	"github.com/shopspring/decimal"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series model.PriceSeries
	Err    error
	// Gate, when set, blocks each fetch until it is closed or the context ends.
	Gate chan struct{}

	mu    sync.Mutex
	calls []model.QuerySelection
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrices(ctx context.Context, sel model.QuerySelection) (model.PriceSeries, error) {
	m.mu.Lock()
	m.calls = append(m.calls, sel)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return GenerateMockSeries(100, 30), nil
}

// Calls returns the selections the mock was asked for, in order.
func (m *MockFetcher) Calls() []model.QuerySelection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.QuerySelection(nil), m.calls...)
}

// GenerateMockSeries builds count daily samples ending today around basePrice.
func GenerateMockSeries(basePrice float64, count int) model.PriceSeries {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	series := make(model.PriceSeries, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		series[i] = model.PriceSample{
			Date:  today.AddDate(0, 0, -(count - 1 - i)),
			Price: decimal.NewFromFloat(p).Round(4),
		}
	}
	return series
}
