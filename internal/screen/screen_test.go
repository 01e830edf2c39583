package screen

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockEstimator/internal/chart"
	"StockEstimator/internal/collector"
	"StockEstimator/internal/model"
	"StockEstimator/internal/recorder"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordFetch(evt *recorder.FetchEvent) error {
	return m.Called(evt).Error(0)
}

func (m *MockRecorder) Close() error { return m.Called().Error(0) }

var (
	endpoint = model.NewEndpointConfig("http://localhost:8083")
	clock    = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
)

func twoDays() model.PriceSeries {
	return model.PriceSeries{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Price: decimal.NewFromInt(100)},
		{Date: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), Price: decimal.NewFromInt(110)},
	}
}

func TestNew_DefaultsWithoutIO(t *testing.T) {
	f := &collector.MockFetcher{}
	s := New(endpoint, f, WithClock(clock))

	v := s.View()
	assert.Equal(t, Heading, v.Heading)
	assert.Equal(t, model.QuerySelection{Ticker: model.TickerMSFT, Since: "2014-09-09", Till: "2026-10-21"}, v.Selection)
	assert.Equal(t, model.Tickers, v.Tickers)
	assert.Equal(t, "?", v.Headline)
	assert.True(t, v.Scene.Empty)
	assert.False(t, v.SubmitDisabled)
	assert.NotEmpty(t, v.SessionID)
	assert.Nil(t, v.FetchedAt)
	assert.Empty(t, f.Calls())
}

func TestMount_LoadsScenario(t *testing.T) {
	f := &collector.MockFetcher{Series: twoDays()}
	mount := &chart.MemoryMount{}
	s := New(endpoint, f, WithClock(clock), WithMount(mount))

	require.NoError(t, s.Mount(context.Background()))

	calls := f.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, model.TickerMSFT, calls[0].Ticker)
	assert.Equal(t, "2014-09-09", calls[0].Since)
	assert.Equal(t, "2026-10-21", calls[0].Till)

	v := s.View()
	assert.Equal(t, "110.00", v.Headline)
	assert.Equal(t, 2, v.Samples)
	assert.Empty(t, v.Error)
	require.NotNil(t, v.FetchedAt)

	first, last := v.Scene.XDomain()
	assert.Equal(t, twoDays()[0].Date, first)
	assert.Equal(t, twoDays()[1].Date, last)
	low, high := v.Scene.YDomain()
	assert.Equal(t, 100.0, low)
	assert.Equal(t, 110.0, high)

	assert.Equal(t, 1, mount.Renders())
	assert.Contains(t, string(mount.Bytes()), "M50,480L580,20")
}

func TestGetData_EmptySeries(t *testing.T) {
	f := &collector.MockFetcher{Series: model.PriceSeries{}}
	s := New(endpoint, f, WithClock(clock))

	require.NoError(t, s.GetData(context.Background()))
	v := s.View()
	assert.Equal(t, "?", v.Headline)
	assert.True(t, v.Scene.Empty)
	assert.Equal(t, chart.NoDataText, v.Scene.Placeholder)
}

func TestGetData_BusyRejectsSecondTrigger(t *testing.T) {
	gate := make(chan struct{})
	f := &collector.MockFetcher{Series: twoDays(), Gate: gate}
	s := New(endpoint, f, WithClock(clock))

	done := make(chan error, 1)
	go func() { done <- s.GetData(context.Background()) }()

	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, s.GetData(context.Background()), ErrBusy)
	assert.Len(t, f.Calls(), 1)

	v := s.View()
	assert.True(t, v.SubmitDisabled)
	assert.True(t, v.FormDisabled)
	assert.True(t, s.Busy())
	assert.ErrorIs(t, s.SetTicker("aapl"), ErrBusy)
	assert.ErrorIs(t, s.SelectSince(time.Now()), ErrBusy)

	close(gate)
	require.NoError(t, <-done)

	v = s.View()
	assert.False(t, v.SubmitDisabled)
	assert.False(t, v.FormDisabled)
	assert.Equal(t, "110.00", v.Headline)
	assert.NoError(t, s.SetTicker("aapl"))
}

func TestGetData_FailureReenablesControls(t *testing.T) {
	offline := errors.New("offline")
	f := &collector.MockFetcher{Err: offline}
	rec := &MockRecorder{}
	rec.On("RecordFetch", mock.MatchedBy(func(e *recorder.FetchEvent) bool {
		return e.Error == "offline" && e.Headline == "?" && e.BaseURL == "http://localhost:8083/"
	})).Return(nil).Once()

	s := New(endpoint, f, WithClock(clock), WithRecorder(rec))
	err := s.GetData(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, offline)
	assert.Equal(t, "get data: offline", err.Error())

	v := s.View()
	assert.False(t, v.SubmitDisabled)
	assert.False(t, v.FormDisabled)
	assert.Equal(t, "offline", v.Error)
	assert.Equal(t, "?", v.Headline)
	rec.AssertExpectations(t)

	f.Err = nil
	f.Series = twoDays()
	rec.On("RecordFetch", mock.Anything).Return(nil).Once()
	require.NoError(t, s.GetData(context.Background()))
	assert.Empty(t, s.View().Error)
}

type panickingFetcher struct{}

func (panickingFetcher) Name() string { return "panicking" }

func (panickingFetcher) FetchPrices(context.Context, model.QuerySelection) (model.PriceSeries, error) {
	panic("backend client blew up")
}

func TestGetData_PanicReenablesControls(t *testing.T) {
	s := New(endpoint, panickingFetcher{}, WithClock(clock))

	assert.PanicsWithValue(t, "backend client blew up", func() { _ = s.GetData(context.Background()) })
	assert.False(t, s.Busy())

	v := s.View()
	assert.False(t, v.SubmitDisabled)
	assert.False(t, v.FormDisabled)
	assert.Contains(t, v.Error, "backend client blew up")
	require.NoError(t, s.SetTicker("amzn"))
}

func TestGetData_RecordsSuccess(t *testing.T) {
	rec := &MockRecorder{}
	rec.On("RecordFetch", mock.MatchedBy(func(e *recorder.FetchEvent) bool {
		return e.Samples == 2 && e.Headline == "110.00" && e.Error == "" && e.Timestamp.Equal(clock())
	})).Return(errors.New("disk full")).Once()

	s := New(endpoint, &collector.MockFetcher{Series: twoDays()}, WithClock(clock), WithRecorder(rec))
	// a failing recorder never fails the fetch
	require.NoError(t, s.GetData(context.Background()))
	rec.AssertExpectations(t)
}

type failingMount struct{}

func (failingMount) Render(chart.Scene) error { return errors.New("read-only") }

func TestGetData_RenderFailure(t *testing.T) {
	s := New(endpoint, &collector.MockFetcher{Series: twoDays()}, WithClock(clock), WithMount(failingMount{}))
	err := s.GetData(context.Background())
	assert.EqualError(t, err, "get data: read-only")

	v := s.View()
	assert.False(t, v.SubmitDisabled)
	assert.Equal(t, "read-only", v.Error)
	assert.Equal(t, "110.00", v.Headline)
}

func TestGetData_LogLines(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sel := model.QuerySelection{Ticker: model.TickerGOOGL, Since: "2014-09-09", Till: "2020-01-09"}
	s := New(endpoint, &collector.MockFetcher{Series: twoDays()},
		WithLogger(zap.New(core)), WithSelection(sel))

	require.NoError(t, s.GetData(context.Background()))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "getting future googl prices till 2020-01-09 based on data since 2014-09-09", entries[0].Message)
	assert.Equal(t, "done", entries[1].Message)
	assert.Equal(t, s.SessionID(), entries[1].ContextMap()["session_id"])
}
