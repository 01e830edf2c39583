package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockEstimator/internal/logger"
	"StockEstimator/internal/model"

	"go.uber.org/zap"
)

// PricePath is the backend route serving a price series for a date range.
const PricePath = "GetPriceForDateRange"

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: status %d, body: %s", e.URL, e.StatusCode, e.Body)
}

// EstimatorFetcher implements Fetcher against the StockEstimator REST API.
type EstimatorFetcher struct {
	Endpoint model.EndpointConfig
	Client   *http.Client
	log      *zap.Logger
}

// NewHTTPClient creates the client shared by discovery and retrieval, with optional proxy support.
func NewHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewEstimatorFetcher creates a fetcher bound to a resolved endpoint.
func NewEstimatorFetcher(endpoint model.EndpointConfig, client *http.Client, log *zap.Logger) *EstimatorFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &EstimatorFetcher{
		Endpoint: endpoint,
		Client:   client,
		log:      logger.OrNop(log),
	}
}

func (f *EstimatorFetcher) Name() string { return "stockestimator" }

// PriceURL builds the request URL for sel. Parameter order is fixed.
func PriceURL(endpoint model.EndpointConfig, sel model.QuerySelection) string {
	return fmt.Sprintf("%s%s?ticker=%s&since=%s&till=%s",
		endpoint.BaseURL(), PricePath,
		url.QueryEscape(string(sel.Ticker)),
		url.QueryEscape(sel.Since),
		url.QueryEscape(sel.Till))
}

func (f *EstimatorFetcher) FetchPrices(ctx context.Context, sel model.QuerySelection) (model.PriceSeries, error) {
	if _, err := model.ParseTicker(string(sel.Ticker)); err != nil {
		return nil, err
	}

	endpoint := PriceURL(f.Endpoint, sel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: endpoint, Body: string(body)}
	}

	var series model.PriceSeries
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return nil, fmt.Errorf("decode prices: %w", err)
	}
	if series == nil {
		series = model.PriceSeries{}
	}

	f.log.Debug("prices fetched",
		zap.String("url", endpoint),
		zap.Int("samples", len(series)),
		zap.Duration("duration", time.Since(start)))
	return series, nil
}

// IsHTTPError reports whether err carries a backend status failure.
func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
