package screen

import (
	"testing"
	"time"

	"StockEstimator/internal/collector"
	"StockEstimator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePickerDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2014-09-09", "2014-09-09"},
		{"09/09/2014", "2014-09-09"},
		{" 01/31/2020 ", "2020-01-31"},
		{"2020-01-09T00:00:00Z", "2020-01-09"},
		{"2020-01-09T22:15:00", "2020-01-09"},
	}
	for _, tt := range tests {
		got, err := ParsePickerDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "yesterday", "13/40/2020"} {
		_, err := ParsePickerDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestSetters_DoNotFetch(t *testing.T) {
	f := &collector.MockFetcher{}
	s := New(endpoint, f, WithClock(clock))

	require.NoError(t, s.SetTicker("AMZN"))
	require.NoError(t, s.SetSince("01/15/2015"))
	require.NoError(t, s.SelectTill(time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, model.QuerySelection{Ticker: model.TickerAMZN, Since: "2015-01-15", Till: "2021-06-30"}, s.Selection())
	assert.Empty(t, f.Calls())

	require.NoError(t, s.SelectSince(time.Date(2016, 2, 29, 15, 0, 0, 0, time.UTC)))
	require.NoError(t, s.SetTill("2022-03-01"))
	assert.Equal(t, "2016-02-29", s.Selection().Since)
	assert.Equal(t, "2022-03-01", s.Selection().Till)
}

func TestSetters_Invalid(t *testing.T) {
	s := New(endpoint, &collector.MockFetcher{}, WithClock(clock))
	before := s.Selection()

	assert.ErrorIs(t, s.SetTicker("tsla"), model.ErrUnknownTicker)
	assert.ErrorIs(t, s.SetSince("not a date"), ErrInvalidDate)
	assert.Equal(t, before, s.Selection())
}

func TestApply(t *testing.T) {
	s := New(endpoint, &collector.MockFetcher{}, WithClock(clock))

	require.NoError(t, s.Apply(SelectionInput{Ticker: "aapl", Till: "12/31/2025"}))
	assert.Equal(t, model.QuerySelection{Ticker: model.TickerAAPL, Since: "2014-09-09", Till: "2025-12-31"}, s.Selection())

	before := s.Selection()
	err := s.Apply(SelectionInput{Ticker: "msft", Since: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, before, s.Selection(), "nothing stored when any field is invalid")
}
