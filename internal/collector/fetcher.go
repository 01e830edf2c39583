package collector

import (
	"context"

	"StockEstimator/internal/model"
)

// Fetcher defines the interface for retrieving a price series for a selection.
type Fetcher interface {
	FetchPrices(ctx context.Context, sel model.QuerySelection) (model.PriceSeries, error)
	Name() string
}

// EstimatedPrice returns the price of the last sample, or the unknown sentinel when
// the series is empty.
func EstimatedPrice(series model.PriceSeries) model.Headline {
	if len(series) == 0 {
		return model.UnknownHeadline
	}
	return model.Headline{Known: true, Price: series[len(series)-1].Price}
}
