// Package screen holds the price chart view-model: the query controls, the
// fetched series, the chart scene and the headline price.
package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StockEstimator/internal/chart"
	"StockEstimator/internal/collector"
	"StockEstimator/internal/format"
	"StockEstimator/internal/logger"
	"StockEstimator/internal/model"
	"StockEstimator/internal/recorder"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Heading is the title shown above the controls.
const Heading = "Estimating future stock prices"

// ErrBusy is returned when the controls are disabled because a fetch is in flight.
var ErrBusy = errors.New("fetch in progress, controls are disabled")

// PriceChartScreen is safe for concurrent use.
type PriceChartScreen struct {
	endpoint  model.EndpointConfig
	fetcher   collector.Fetcher
	log       *zap.Logger
	rec       recorder.Recorder
	mount     chart.Mount
	now       func() time.Time
	sessionID string

	mu             sync.Mutex
	sel            model.QuerySelection
	selSet         bool
	series         model.PriceSeries
	headline       model.Headline
	scene          chart.Scene
	submitDisabled bool
	formDisabled   bool
	lastErr        error
	fetchedAt      time.Time
}

type Option func(*PriceChartScreen)

func WithLogger(log *zap.Logger) Option {
	return func(s *PriceChartScreen) { s.log = logger.OrNop(log) }
}

func WithRecorder(rec recorder.Recorder) Option {
	return func(s *PriceChartScreen) {
		if rec != nil {
			s.rec = rec
		}
	}
}

// WithMount sets where rendered scenes are drawn.
func WithMount(m chart.Mount) Option {
	return func(s *PriceChartScreen) { s.mount = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *PriceChartScreen) { s.now = now }
}

// WithSelection replaces the default initial selection.
func WithSelection(sel model.QuerySelection) Option {
	return func(s *PriceChartScreen) {
		s.sel = sel
		s.selSet = true
	}
}

// New builds a screen bound to a resolved endpoint. It performs no I/O; call
// Mount to load the first series.
func New(endpoint model.EndpointConfig, fetcher collector.Fetcher, opts ...Option) *PriceChartScreen {
	s := &PriceChartScreen{
		endpoint:  endpoint,
		fetcher:   fetcher,
		log:       zap.NewNop(),
		rec:       recorder.NewNoopRecorder(),
		now:       time.Now,
		sessionID: uuid.NewString(),
		headline:  model.UnknownHeadline,
		scene:     chart.Build(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.selSet {
		s.sel = model.DefaultSelection(s.now())
	}
	s.log = s.log.With(zap.String("session_id", s.sessionID))
	return s
}

// Mount is the initial-mount hook. It performs the first load.
func (s *PriceChartScreen) Mount(ctx context.Context) error {
	s.log.Debug("screen mounted", zap.String("endpoint", s.endpoint.String()))
	return s.GetData(ctx)
}

// GetData fetches the series for the current selection and redraws the chart.
// Controls stay disabled until the fetch settles.
func (s *PriceChartScreen) GetData(ctx context.Context) error {
	s.mu.Lock()
	if s.submitDisabled {
		s.mu.Unlock()
		return ErrBusy
	}
	s.submitDisabled = true
	s.formDisabled = true
	s.lastErr = nil
	sel := s.sel
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.settle(fmt.Errorf("get data: panic: %v", r))
			s.log.Error("get data panicked", zap.Any("panic", r))
			panic(r)
		}
	}()

	s.log.Sugar().Infof("getting future %s prices till %s based on data since %s", sel.Ticker, sel.Till, sel.Since)

	series, err := s.fetcher.FetchPrices(ctx, sel)
	if err != nil {
		s.settle(err)
		s.log.Error("fetch prices failed", zap.String("fetcher", s.fetcher.Name()), zap.Error(err))
		s.record(sel, 0, model.UnknownHeadline, err)
		return fmt.Errorf("get data: %w", err)
	}

	headline := collector.EstimatedPrice(series)
	scene := chart.Build(series)
	var renderErr error
	if s.mount != nil {
		renderErr = s.mount.Render(scene)
	}

	s.mu.Lock()
	s.series = series
	s.headline = headline
	s.scene = scene
	s.fetchedAt = s.now()
	s.mu.Unlock()
	s.settle(renderErr)

	s.record(sel, len(series), headline, renderErr)
	if renderErr != nil {
		s.log.Error("render chart failed", zap.Error(renderErr))
		return fmt.Errorf("get data: %w", renderErr)
	}
	s.log.Info("done", zap.Int("samples", len(series)), zap.String("headline", format.Headline(headline)))
	return nil
}

// settle re-enables the controls and stores the outcome.
func (s *PriceChartScreen) settle(err error) {
	s.mu.Lock()
	s.submitDisabled = false
	s.formDisabled = false
	s.lastErr = err
	s.mu.Unlock()
}

func (s *PriceChartScreen) record(sel model.QuerySelection, samples int, headline model.Headline, err error) {
	evt := &recorder.FetchEvent{
		SessionID: s.sessionID,
		Timestamp: s.now(),
		BaseURL:   s.endpoint.BaseURL(),
		Selection: sel,
		Samples:   samples,
		Headline:  format.Headline(headline),
	}
	if err != nil {
		evt.Error = err.Error()
	}
	if rerr := s.rec.RecordFetch(evt); rerr != nil {
		s.log.Warn("record fetch failed", zap.Error(rerr))
	}
}

func (s *PriceChartScreen) SessionID() string { return s.sessionID }

func (s *PriceChartScreen) Endpoint() model.EndpointConfig { return s.endpoint }

// Selection returns the current query selection.
func (s *PriceChartScreen) Selection() model.QuerySelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Scene returns the most recently built chart scene.
func (s *PriceChartScreen) Scene() chart.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

// Busy reports whether a fetch is in flight.
func (s *PriceChartScreen) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitDisabled
}
