package chart

import (
	"math"
	"sort"
	"strconv"
	"time"

	"StockEstimator/internal/calculator"
)

// maxTicks bounds the number of ticks a single axis can produce.
const maxTicks = 1000

// fraction returns where v sits between d0 and d1, 0.5 when they coincide.
// The domain may be given in either order.
func fraction(v, d0, d1 float64) float64 {
	if d0 > d1 {
		f, _ := calculator.Position(v, d1, d0)
		return 1 - f
	}
	f, _ := calculator.Position(v, d0, d1)
	return f
}

// LinearScale maps a continuous value domain onto a pixel range.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
}

// Map projects v into the range. A degenerate domain maps everything onto the
// midpoint of the range.
func (s LinearScale) Map(v float64) float64 {
	r0, r1 := s.Range[0], s.Range[1]
	return r0 + fraction(v, s.Domain[0], s.Domain[1])*(r1-r0)
}

// Ticks returns roughly count evenly spaced round values inside the domain.
func (s LinearScale) Ticks(count int) []float64 {
	lo, hi := s.Domain[0], s.Domain[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return []float64{lo}
	}
	// A span lost in float noise has no representable step multiples, so the
	// endpoints are the only meaningful ticks.
	if negligible(lo, hi) {
		return []float64{lo, hi}
	}
	step := tickStep(lo, hi, count)
	start := math.Ceil(lo / step)
	stop := math.Floor(hi / step)
	n := stop - start
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n >= maxTicks || math.Abs(start) >= 1<<53 {
		return []float64{lo, hi}
	}
	ticks := make([]float64, 0, int(n)+1)
	for i := 0; i <= int(n); i++ {
		ticks = append(ticks, roundTo((start+float64(i))*step, step))
	}
	return ticks
}

// TickFormat returns a formatter with just enough decimals for the tick step.
func (s LinearScale) TickFormat(count int) func(float64) string {
	lo, hi := s.Domain[0], s.Domain[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	digits := 0
	switch {
	case negligible(lo, hi):
		digits = -1
	case hi > lo:
		digits = decimalsFor(tickStep(lo, hi, count))
	}
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', digits, 64)
	}
}

// negligible reports a non-empty span that is float noise next to its endpoints.
func negligible(lo, hi float64) bool {
	return hi > lo && hi-lo <= math.Max(math.Abs(lo), math.Abs(hi))*1e-12
}

// tickStep picks 1, 2 or 5 times a power of ten so that span/step is close to count.
func tickStep(lo, hi float64, count int) float64 {
	if count <= 0 {
		count = 10
	}
	span := hi - lo
	step := math.Pow(10, math.Floor(math.Log10(span/float64(count))))
	switch err := float64(count) / span * step; {
	case err <= 0.15:
		step *= 10
	case err <= 0.35:
		step *= 5
	case err <= 0.75:
		step *= 2
	}
	return step
}

func decimalsFor(step float64) int {
	d := -int(math.Floor(math.Log10(step) + 0.01))
	if d < 0 {
		return 0
	}
	return d
}

func roundTo(v, step float64) float64 {
	p := math.Pow(10, float64(decimalsFor(step)+1))
	return math.Round(v*p) / p
}

// TimeScale maps a date domain onto a pixel range.
type TimeScale struct {
	Domain [2]time.Time
	Range  [2]float64
}

// Map projects t into the range. A degenerate domain maps onto the range midpoint.
func (s TimeScale) Map(t time.Time) float64 {
	r0, r1 := s.Range[0], s.Range[1]
	return r0 + fraction(unixSeconds(t), unixSeconds(s.Domain[0]), unixSeconds(s.Domain[1]))*(r1-r0)
}

// unixSeconds avoids time.Duration, which saturates for spans beyond ~292 years.
func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

type timeUnit int

const (
	unitHour timeUnit = iota
	unitDay
	unitWeek
	unitMonth
	unitYear
)

type timeInterval struct {
	unit     timeUnit
	step     int
	duration time.Duration
}

const day = 24 * time.Hour

// timeIntervals lists candidate tick intervals by approximate duration.
var timeIntervals = []timeInterval{
	{unitHour, 1, time.Hour},
	{unitHour, 3, 3 * time.Hour},
	{unitHour, 6, 6 * time.Hour},
	{unitHour, 12, 12 * time.Hour},
	{unitDay, 1, day},
	{unitDay, 2, 2 * day},
	{unitWeek, 1, 7 * day},
	{unitMonth, 1, 30 * day},
	{unitMonth, 3, 90 * day},
	{unitYear, 1, 365 * day},
}

// pickInterval returns the interval whose duration is closest to span/count.
func pickInterval(span time.Duration, count int) timeInterval {
	if count <= 0 {
		count = 10
	}
	target := span / time.Duration(count)
	i := sort.Search(len(timeIntervals), func(i int) bool { return timeIntervals[i].duration >= target })
	switch {
	case i == len(timeIntervals):
		years := span.Hours() / 24 / 365
		step := int(math.Max(1, tickStep(0, years, count)))
		return timeInterval{unitYear, step, time.Duration(step) * 365 * day}
	case i == 0:
		return timeIntervals[0]
	}
	prev, next := timeIntervals[i-1], timeIntervals[i]
	if float64(target)/float64(prev.duration) < float64(next.duration)/float64(target) {
		return prev
	}
	return next
}

// floor truncates t to the start of the interval boundary that contains it.
func (iv timeInterval) floor(t time.Time) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch iv.unit {
	case unitHour:
		return time.Date(y, m, d, t.Hour()-t.Hour()%iv.step, 0, 0, 0, time.UTC)
	case unitDay:
		return time.Date(y, m, d-(d-1)%iv.step, 0, 0, 0, 0, time.UTC)
	case unitWeek:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, time.UTC)
	case unitMonth:
		mi := int(m) - 1
		return time.Date(y, time.Month(mi-mi%iv.step+1), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y-y%iv.step, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// next advances a boundary by one interval step, realigning day steps at month starts.
func (iv timeInterval) next(t time.Time) time.Time {
	switch iv.unit {
	case unitHour:
		return iv.floor(t.Add(time.Duration(iv.step) * time.Hour))
	case unitDay:
		return iv.floor(t.AddDate(0, 0, iv.step))
	case unitWeek:
		return t.AddDate(0, 0, 7)
	case unitMonth:
		return t.AddDate(0, iv.step, 0)
	default:
		return t.AddDate(iv.step, 0, 0)
	}
}

// Ticks returns interval boundaries inside the domain, roughly count of them.
func (s TimeScale) Ticks(count int) []time.Time {
	lo, hi := s.Domain[0], s.Domain[1]
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	if lo.Equal(hi) {
		return []time.Time{lo}
	}
	iv := pickInterval(hi.Sub(lo), count)
	var ticks []time.Time
	t := iv.floor(lo)
	if t.Before(lo) {
		t = iv.next(t)
	}
	for ; !t.After(hi); t = iv.next(t) {
		ticks = append(ticks, t)
	}
	return ticks
}

// FormatTime labels a tick by the coarsest calendar boundary it falls on.
func FormatTime(t time.Time) string {
	t = t.UTC()
	switch {
	case t.Hour() != 0 || t.Minute() != 0:
		return t.Format("15:04")
	case t.Day() != 1:
		return t.Format("Jan 02")
	case t.Month() != time.January:
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}
