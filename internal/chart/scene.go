package chart

import (
	"math"
	"strconv"
	"strings"
	"time"

	"StockEstimator/internal/calculator"
	"StockEstimator/internal/model"
)

// Chart geometry.
const (
	Width  = 600
	Height = 500

	AxisFill   = "#888888"
	LineStroke = "#2A9FD6"

	NoDataText = "no data"
)

// Margins around the plot area.
type Margins struct {
	Top, Right, Bottom, Left float64
}

var DefaultMargins = Margins{Top: 20, Right: 20, Bottom: 20, Left: 50}

type Orient string

const (
	OrientBottom Orient = "bottom"
	OrientLeft   Orient = "left"
)

// Tick is a single axis mark. Pos is the pixel offset along the axis.
type Tick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Axis describes a d3-style axis group: tick lines of InnerTickSize drawn
// perpendicular to the axis, labels offset by TickPadding.
type Axis struct {
	Class         string  `json:"class"`
	Orient        Orient  `json:"orient"`
	TranslateX    float64 `json:"translate_x"`
	TranslateY    float64 `json:"translate_y"`
	InnerTickSize float64 `json:"inner_tick_size"`
	OuterTickSize float64 `json:"outer_tick_size"`
	TickPadding   float64 `json:"tick_padding"`
	RangeStart    float64 `json:"range_start"`
	RangeEnd      float64 `json:"range_end"`
	Fill          string  `json:"fill"`
	Ticks         []Tick  `json:"ticks"`
}

func (a Axis) Transform() string {
	return "translate(" + num(a.TranslateX) + "," + num(a.TranslateY) + ")"
}

// DomainPath is the axis baseline, including outer ticks at both ends.
func (a Axis) DomainPath() string {
	o := a.OuterTickSize
	if a.Orient == OrientLeft {
		return "M" + num(-o) + "," + num(a.RangeStart) + "H0V" + num(a.RangeEnd) + "H" + num(-o)
	}
	return "M" + num(a.RangeStart) + "," + num(o) + "V0H" + num(a.RangeEnd) + "V" + num(o)
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is a polyline through Points.
type Path struct {
	Class       string  `json:"class"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Fill        string  `json:"fill"`
	Points      []Point `json:"points"`
}

// D returns the SVG path data using straight segments between points.
func (p Path) D() string {
	if len(p.Points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(num(pt.X))
		b.WriteByte(',')
		b.WriteString(num(pt.Y))
	}
	return b.String()
}

// Scene is everything needed to draw the price chart.
type Scene struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Margins     Margins     `json:"margins"`
	Empty       bool        `json:"empty"`
	Placeholder string      `json:"placeholder,omitempty"`
	X           TimeScale   `json:"-"`
	Y           LinearScale `json:"-"`
	Axes        []Axis      `json:"axes,omitempty"`
	Line        *Path       `json:"line,omitempty"`
}

// XDomain returns the first and last date on the time axis.
func (s Scene) XDomain() (time.Time, time.Time) { return s.X.Domain[0], s.X.Domain[1] }

// YDomain returns the lowest and highest price on the value axis.
func (s Scene) YDomain() (float64, float64) { return s.Y.Domain[0], s.Y.Domain[1] }

// Build turns a series into a drawable scene. It performs no I/O.
func Build(series model.PriceSeries) Scene {
	m := DefaultMargins
	scene := Scene{Width: Width, Height: Height, Margins: m}

	first, last, err := calculator.DateExtent(series)
	if err != nil {
		scene.Empty = true
		scene.Placeholder = NoDataText
		return scene
	}
	low, high, _ := calculator.PriceExtent(series)

	scene.X = TimeScale{
		Domain: [2]time.Time{first, last},
		Range:  [2]float64{m.Left, Width - m.Right},
	}
	scene.Y = LinearScale{
		Domain: [2]float64{low, high},
		Range:  [2]float64{Height - m.Top, m.Bottom},
	}

	scene.Axes = []Axis{
		timeAxis(scene.X, 5),
		valueAxis(scene.Y, 10),
		gridAxis(scene.Y, 5),
	}

	line := &Path{
		Class:       "line",
		Stroke:      LineStroke,
		StrokeWidth: 1,
		Fill:        "none",
		Points:      make([]Point, 0, len(series)),
	}
	for _, s := range series {
		line.Points = append(line.Points, Point{
			X: scene.X.Map(s.Date),
			Y: scene.Y.Map(s.Price.InexactFloat64()),
		})
	}
	scene.Line = line
	return scene
}

func timeAxis(x TimeScale, count int) Axis {
	a := Axis{
		Class:         "x axis",
		Orient:        OrientBottom,
		TranslateY:    Height - DefaultMargins.Bottom,
		InnerTickSize: -Height,
		OuterTickSize: 0,
		TickPadding:   10,
		RangeStart:    x.Range[0],
		RangeEnd:      x.Range[1],
		Fill:          AxisFill,
	}
	for _, t := range x.Ticks(count) {
		a.Ticks = append(a.Ticks, Tick{Pos: x.Map(t), Label: FormatTime(t)})
	}
	return a
}

func valueAxis(y LinearScale, count int) Axis {
	a := Axis{
		Class:         "y axis",
		Orient:        OrientLeft,
		TranslateX:    DefaultMargins.Left,
		InnerTickSize: -Width,
		OuterTickSize: 0,
		TickPadding:   10,
		RangeStart:    y.Range[0],
		RangeEnd:      y.Range[1],
		Fill:          AxisFill,
	}
	format := y.TickFormat(count)
	for _, v := range y.Ticks(count) {
		a.Ticks = append(a.Ticks, Tick{Pos: y.Map(v), Label: format(v)})
	}
	return a
}

// gridAxis draws horizontal background lines across the plot with no labels.
func gridAxis(y LinearScale, count int) Axis {
	m := DefaultMargins
	a := Axis{
		Class:         "grid",
		Orient:        OrientLeft,
		TranslateX:    m.Left,
		InnerTickSize: -(Width - m.Left - m.Right),
		OuterTickSize: 0,
		TickPadding:   50,
		RangeStart:    y.Range[0],
		RangeEnd:      y.Range[1],
		Fill:          AxisFill,
	}
	for _, v := range y.Ticks(count) {
		a.Ticks = append(a.Ticks, Tick{Pos: y.Map(v)})
	}
	return a
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
