package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"StockEstimator/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(prices ...float64) model.PriceSeries {
	out := make(model.PriceSeries, len(prices))
	for i, p := range prices {
		out[i] = model.PriceSample{Date: date(2020, 1, 1+i), Price: decimal.NewFromFloat(p)}
	}
	return out
}

func TestBuild_Domains(t *testing.T) {
	scene := Build(series(100, 110))
	require.False(t, scene.Empty)

	first, last := scene.XDomain()
	assert.Equal(t, date(2020, 1, 1), first)
	assert.Equal(t, date(2020, 1, 2), last)

	low, high := scene.YDomain()
	assert.Equal(t, 100.0, low)
	assert.Equal(t, 110.0, high)

	require.NotNil(t, scene.Line)
	assert.Equal(t, "M50,480L580,20", scene.Line.D())
	assert.Equal(t, "line", scene.Line.Class)
	assert.Equal(t, LineStroke, scene.Line.Stroke)
	assert.Equal(t, "none", scene.Line.Fill)
}

func TestBuild_DomainsUnordered(t *testing.T) {
	s := model.PriceSeries{
		{Date: date(2020, 2, 1), Price: decimal.NewFromInt(30)},
		{Date: date(2020, 1, 1), Price: decimal.NewFromInt(50)},
		{Date: date(2020, 3, 1), Price: decimal.NewFromInt(10)},
	}
	scene := Build(s)
	first, last := scene.XDomain()
	assert.Equal(t, date(2020, 1, 1), first)
	assert.Equal(t, date(2020, 3, 1), last)
	low, high := scene.YDomain()
	assert.Equal(t, 10.0, low)
	assert.Equal(t, 50.0, high)
}

func TestBuild_SingleSample(t *testing.T) {
	scene := Build(series(42))
	require.NotNil(t, scene.Line)
	assert.Equal(t, []Point{{X: 315, Y: 250}}, scene.Line.Points)
}

func TestBuild_NearDegeneratePrices(t *testing.T) {
	scene := Build(series(1234.5, 1234.5000000000002))
	require.Len(t, scene.Axes, 3)

	y := scene.Axes[1]
	require.Len(t, y.Ticks, 2)
	assert.Equal(t, Tick{Pos: 480, Label: "1234.5"}, y.Ticks[0])
	assert.InDelta(t, 20, y.Ticks[1].Pos, 1e-9)
	assert.Equal(t, "M50,480L580,20", scene.Line.D())
}

func TestBuild_Axes(t *testing.T) {
	scene := Build(series(100, 105, 110))
	require.Len(t, scene.Axes, 3)

	x, y, grid := scene.Axes[0], scene.Axes[1], scene.Axes[2]
	assert.Equal(t, "x axis", x.Class)
	assert.Equal(t, "translate(0,480)", x.Transform())
	assert.Equal(t, -500.0, x.InnerTickSize)
	assert.Equal(t, 10.0, x.TickPadding)

	assert.Equal(t, "y axis", y.Class)
	assert.Equal(t, "translate(50,0)", y.Transform())
	assert.Equal(t, -600.0, y.InnerTickSize)
	require.Len(t, y.Ticks, 11)
	assert.Equal(t, Tick{Pos: 480, Label: "100"}, y.Ticks[0])

	assert.Equal(t, "grid", grid.Class)
	assert.Equal(t, -530.0, grid.InnerTickSize)
	assert.Equal(t, 50.0, grid.TickPadding)
	for _, tick := range grid.Ticks {
		assert.Empty(t, tick.Label)
	}

	for _, a := range scene.Axes {
		assert.Equal(t, AxisFill, a.Fill)
		assert.Zero(t, a.OuterTickSize)
	}
	assert.Equal(t, "M50,0V0H580V0", x.DomainPath())
	assert.Equal(t, "M0,480H0V20H0", y.DomainPath())
}

func TestBuild_Empty(t *testing.T) {
	for _, s := range []model.PriceSeries{nil, {}} {
		scene := Build(s)
		assert.True(t, scene.Empty)
		assert.Equal(t, NoDataText, scene.Placeholder)
		assert.Empty(t, scene.Axes)
		assert.Nil(t, scene.Line)
	}
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, Build(series(100, 110))))

	doc := buf.String()
	assert.Contains(t, doc, "<svg")
	assert.Contains(t, doc, `d="M50,480L580,20"`)
	assert.Contains(t, doc, `class="line"`)
	assert.Contains(t, doc, `stroke="#2A9FD6"`)
	assert.Contains(t, doc, `transform="translate(0,480)"`)
	assert.Contains(t, doc, `transform="translate(50,0)"`)
	assert.Contains(t, doc, "</svg>")
}

func TestRenderSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, Build(nil)))
	assert.Contains(t, buf.String(), NoDataText)
	assert.NotContains(t, buf.String(), "<path")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderSVG_WriteError(t *testing.T) {
	err := RenderSVG(failingWriter{}, Build(series(1, 2)))
	assert.EqualError(t, err, "disk full")
}

func TestFileMount_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "chart.svg")
	m := FileMount{Path: path}

	require.NoError(t, m.Render(Build(series(100, 110))))
	require.NoError(t, m.Render(Build(nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), NoDataText)
	assert.NotContains(t, string(data), "M50,480L580,20")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryMount(t *testing.T) {
	m := &MemoryMount{}
	assert.Nil(t, m.Bytes())

	scene := Build(series(100, 110))
	require.NoError(t, m.Render(scene))
	first := append([]byte(nil), m.Bytes()...)
	require.NoError(t, m.Render(scene))

	assert.Equal(t, 2, m.Renders())
	assert.Equal(t, first, m.Bytes())
}

func TestBuild_DoesNotMutateSeries(t *testing.T) {
	s := series(3, 1, 2)
	before := append(model.PriceSeries(nil), s...)
	Build(s)
	assert.Equal(t, before, s)
}
