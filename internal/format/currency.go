// Package format renders prices for display.
package format

import (
	"math"

	"StockEstimator/internal/model"

	"github.com/shopspring/decimal"
)

// Currency renders v with exactly two decimals, rounding half away from zero.
// A nil or zero value renders as the empty string.
func Currency(v *decimal.Decimal) string {
	if v == nil || v.IsZero() {
		return ""
	}
	return v.StringFixed(2)
}

// CurrencyFloat is Currency for plain floats. NaN and infinities render empty.
func CurrencyFloat(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	d := decimal.NewFromFloat(v)
	return Currency(&d)
}

// Headline renders the estimated price shown above the chart. Unknown prices
// show as "?"; a known zero price shows as "0.00".
func Headline(h model.Headline) string {
	if !h.Known {
		return model.UnknownHeadlineText
	}
	if h.Price.IsZero() {
		return "0.00"
	}
	return Currency(&h.Price)
}
