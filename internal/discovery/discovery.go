// Package discovery resolves which price backend base URL to use for a session.
package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"StockEstimator/internal/logger"
	"StockEstimator/internal/model"

	"go.uber.org/zap"
)

// LocalDefault is kept when no candidate answers or none are configured.
const LocalDefault = "http://localhost:8083"

// Prober checks whether a candidate base URL is reachable.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, url string) error

func (f ProberFunc) Probe(ctx context.Context, url string) error { return f(ctx, url) }

// HTTPProber treats any response without a transport error as available.
// Status code and payload are not inspected.
type HTTPProber struct {
	Client *http.Client
}

// NewHTTPProber creates a prober on the given client, or http.DefaultClient when nil.
func NewHTTPProber(client *http.Client) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProber{Client: client}
}

func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// Discover probes candidates in order and returns the first that answers.
// Probes are sequential: each starts only after the previous failed. When every
// probe fails the first candidate is kept. Probe errors are logged, never returned.
func Discover(ctx context.Context, candidates []string, prober Prober, log *zap.Logger) model.EndpointConfig {
	log = logger.OrNop(log)
	if len(candidates) == 0 {
		return model.NewEndpointConfig(LocalDefault)
	}

	chosen := candidates[0]
	for _, url := range candidates {
		if ctx.Err() != nil {
			log.Warn("API discovery cancelled, keeping default", zap.String("url", chosen))
			break
		}
		if err := prober.Probe(ctx, url); err != nil {
			log.Error("API not available", zap.String("url", url), zap.Error(err))
			continue
		}
		log.Info("API url", zap.String("url", url))
		chosen = url
		break
	}

	return model.NewEndpointConfig(chosen)
}
