package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical day-granularity form used in queries and pickers.
const DateLayout = "2006-01-02"

// dateLayouts are the timestamp forms accepted from the price backend.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// PriceSample is a single (date, price) point of a series.
type PriceSample struct {
	Date  time.Time
	Price decimal.Decimal
}

// PriceSeries holds samples ordered by date ascending. Ordering is not verified.
type PriceSeries []PriceSample

// ParseDate parses a backend or user supplied date and truncates it to its UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.UTC().Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// samplePair is the object form the backend serializes tuples as.
type samplePair struct {
	Item1 string          `json:"item1"`
	Item2 json.RawMessage `json:"item2"`
}

// UnmarshalJSON accepts both {"item1": date, "item2": price} and [date, price].
func (p *PriceSample) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var rawDate string
	var rawPrice json.RawMessage

	switch {
	case len(data) > 0 && data[0] == '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("decode sample pair: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("decode sample pair: expected 2 elements, got %d", len(pair))
		}
		if err := json.Unmarshal(pair[0], &rawDate); err != nil {
			return fmt.Errorf("decode sample date: %w", err)
		}
		rawPrice = pair[1]
	case len(data) > 0 && data[0] == '{':
		var obj samplePair
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode sample object: %w", err)
		}
		rawDate, rawPrice = obj.Item1, obj.Item2
	default:
		return errors.New("decode sample: expected object or array")
	}

	date, err := ParseDate(rawDate)
	if err != nil {
		return fmt.Errorf("decode sample date: %w", err)
	}
	if len(rawPrice) == 0 || bytes.Equal(rawPrice, []byte("null")) {
		return errors.New("decode sample price: missing")
	}
	var price decimal.Decimal
	if err := price.UnmarshalJSON(rawPrice); err != nil {
		return fmt.Errorf("decode sample price: %w", err)
	}
	if price.IsNegative() {
		return fmt.Errorf("decode sample price: negative value %s", price)
	}

	p.Date = date
	p.Price = price
	return nil
}

// MarshalJSON writes the object form so a series round-trips through the backend shape.
func (p PriceSample) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Item1 string          `json:"item1"`
		Item2 decimal.Decimal `json:"item2"`
	}{p.Date.Format(DateLayout), p.Price})
}

// Headline is the most recent price shown next to the chart.
type Headline struct {
	Known bool
	Price decimal.Decimal
}

// UnknownHeadlineText is shown in place of a price that is not known yet.
const UnknownHeadlineText = "?"

// UnknownHeadline is the sentinel used when a series has no samples.
var UnknownHeadline = Headline{}

// String renders the headline raw, "?" when unknown.
func (h Headline) String() string {
	if !h.Known {
		return UnknownHeadlineText
	}
	return h.Price.String()
}
