package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Ticker identifies the instrument being queried.
type Ticker string

const (
	TickerMSFT  Ticker = "msft"
	TickerGOOGL Ticker = "googl"
	TickerAMZN  Ticker = "amzn"
	TickerAAPL  Ticker = "aapl"
)

// Tickers lists the selectable symbols in display order.
var Tickers = []Ticker{TickerMSFT, TickerGOOGL, TickerAMZN, TickerAAPL}

// ErrUnknownTicker is returned for symbols outside Tickers.
var ErrUnknownTicker = errors.New("unknown ticker")

// ParseTicker validates s against Tickers. Matching is case-insensitive.
func ParseTicker(s string) (Ticker, error) {
	t := Ticker(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tickers {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTicker, s)
}

const (
	DefaultTicker        = TickerMSFT
	DefaultSince         = "2014-09-09"
	DefaultTillDaysAhead = 7
)

// QuerySelection is the user's current ticker and date range.
type QuerySelection struct {
	Ticker Ticker `json:"ticker"`
	Since  string `json:"since"`
	Till   string `json:"till"`
}

// DaysFromNow returns the ISO date days after now, in UTC.
func DaysFromNow(now time.Time, days int) string {
	return now.UTC().Add(time.Duration(days) * 24 * time.Hour).Format(DateLayout)
}

// DefaultSelection returns the selection a freshly opened screen starts with.
func DefaultSelection(now time.Time) QuerySelection {
	return QuerySelection{
		Ticker: DefaultTicker,
		Since:  DefaultSince,
		Till:   DaysFromNow(now, DefaultTillDaysAhead),
	}
}

// EndpointConfig is the resolved base URL of the price backend. The zero value is
// not usable; build it with NewEndpointConfig.
type EndpointConfig struct {
	baseURL string
}

// NewEndpointConfig normalizes raw to end with exactly one path separator.
func NewEndpointConfig(raw string) EndpointConfig {
	return EndpointConfig{baseURL: strings.TrimRight(strings.TrimSpace(raw), "/") + "/"}
}

// BaseURL returns the normalized base URL.
func (e EndpointConfig) BaseURL() string { return e.baseURL }

func (e EndpointConfig) String() string { return e.baseURL }
