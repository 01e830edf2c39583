package screen

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"StockEstimator/internal/model"
)

// ErrInvalidDate is returned for picker input that is not a recognised date.
var ErrInvalidDate = errors.New("invalid date")

// pickerLayout is the format the date picker displays.
const pickerLayout = "01/02/2006"

// ParsePickerDate accepts ISO dates, RFC 3339 timestamps and MM/DD/YYYY and
// returns the canonical YYYY-MM-DD form.
func ParsePickerDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(pickerLayout, raw); err == nil {
		return t.Format(model.DateLayout), nil
	}
	t, err := model.ParseDate(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t.Format(model.DateLayout), nil
}

// update applies fn to the selection unless the form is disabled.
func (s *PriceChartScreen) update(fn func(sel *model.QuerySelection)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.formDisabled {
		return ErrBusy
	}
	fn(&s.sel)
	return nil
}

// SelectSince is the "since" picker callback. It stores the calendar date of t.
func (s *PriceChartScreen) SelectSince(t time.Time) error {
	since := t.Format(model.DateLayout)
	return s.update(func(sel *model.QuerySelection) { sel.Since = since })
}

// SelectTill is the "till" picker callback. It stores the calendar date of t.
func (s *PriceChartScreen) SelectTill(t time.Time) error {
	till := t.Format(model.DateLayout)
	return s.update(func(sel *model.QuerySelection) { sel.Till = till })
}

func (s *PriceChartScreen) SetSince(raw string) error {
	since, err := ParsePickerDate(raw)
	if err != nil {
		return err
	}
	return s.update(func(sel *model.QuerySelection) { sel.Since = since })
}

func (s *PriceChartScreen) SetTill(raw string) error {
	till, err := ParsePickerDate(raw)
	if err != nil {
		return err
	}
	return s.update(func(sel *model.QuerySelection) { sel.Till = till })
}

func (s *PriceChartScreen) SetTicker(raw string) error {
	ticker, err := model.ParseTicker(raw)
	if err != nil {
		return err
	}
	return s.update(func(sel *model.QuerySelection) { sel.Ticker = ticker })
}

// SelectionInput is a partial selection; empty fields are left unchanged.
type SelectionInput struct {
	Ticker string `json:"ticker"`
	Since  string `json:"since"`
	Till   string `json:"till"`
}

// Apply validates every provided field and then stores them together. Nothing
// is stored if any field is invalid.
func (s *PriceChartScreen) Apply(in SelectionInput) error {
	var next model.QuerySelection
	var err error
	if in.Ticker != "" {
		if next.Ticker, err = model.ParseTicker(in.Ticker); err != nil {
			return err
		}
	}
	if in.Since != "" {
		if next.Since, err = ParsePickerDate(in.Since); err != nil {
			return err
		}
	}
	if in.Till != "" {
		if next.Till, err = ParsePickerDate(in.Till); err != nil {
			return err
		}
	}
	return s.update(func(sel *model.QuerySelection) {
		if next.Ticker != "" {
			sel.Ticker = next.Ticker
		}
		if next.Since != "" {
			sel.Since = next.Since
		}
		if next.Till != "" {
			sel.Till = next.Till
		}
	})
}
