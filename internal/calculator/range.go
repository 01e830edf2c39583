package calculator

import (
	"errors"
	"math"
	"time"

	"StockEstimator/internal/model"
)

// ErrEmptySeries is returned when an extent is requested over no samples.
var ErrEmptySeries = errors.New("no samples provided")

// PriceExtent scans the series and returns the lowest and highest price.
func PriceExtent(series model.PriceSeries) (low, high float64, err error) {
	if len(series) == 0 {
		return 0, 0, ErrEmptySeries
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, s := range series {
		p := s.Price.InexactFloat64()
		if p < low {
			low = p
		}
		if p > high {
			high = p
		}
	}
	return low, high, nil
}

// DateExtent scans the series and returns the earliest and latest date. Samples are
// not assumed to be ordered.
func DateExtent(series model.PriceSeries) (first, last time.Time, err error) {
	if len(series) == 0 {
		return time.Time{}, time.Time{}, ErrEmptySeries
	}
	first, last = series[0].Date, series[0].Date
	for _, s := range series[1:] {
		if s.Date.Before(first) {
			first = s.Date
		}
		if s.Date.After(last) {
			last = s.Date
		}
	}
	return first, last, nil
}

// Position returns where v sits within [low, high] (0.0~1.0). A degenerate range
// yields the midpoint.
func Position(v, low, high float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	return (v - low) / (high - low), nil
}
