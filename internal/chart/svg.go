package chart

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// errWriter keeps the first write error, since svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// RenderSVG writes the scene as a standalone SVG document.
func RenderSVG(w io.Writer, scene Scene) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	width, height := scene.Width, scene.Height
	if width == 0 || height == 0 {
		width, height = Width, Height
	}
	canvas.Start(width, height)

	if scene.Empty {
		canvas.Text(width/2, height/2, scene.Placeholder,
			`class="placeholder"`, "text-anchor:middle;fill:"+AxisFill)
		canvas.End()
		return ew.err
	}

	for _, a := range scene.Axes {
		renderAxis(canvas, a)
	}
	if scene.Line != nil {
		l := scene.Line
		canvas.Path(l.D(),
			fmt.Sprintf(`class=%q`, l.Class),
			fmt.Sprintf(`stroke=%q`, l.Stroke),
			fmt.Sprintf(`stroke-width="%s"`, num(l.StrokeWidth)),
			fmt.Sprintf(`fill=%q`, l.Fill))
	}
	canvas.End()
	return ew.err
}

func renderAxis(canvas *svg.SVG, a Axis) {
	canvas.Gtransform(a.Transform())
	cls := fmt.Sprintf(`class=%q`, a.Class)
	inner := px(a.InnerTickSize)
	offset := int(math.Max(a.InnerTickSize, 0) + a.TickPadding)

	for _, t := range a.Ticks {
		pos := px(t.Pos)
		switch a.Orient {
		case OrientLeft:
			canvas.Line(0, pos, -inner, pos, cls, "stroke:"+a.Fill)
			if t.Label != "" {
				canvas.Text(-offset, pos, t.Label, `dy=".32em"`, "text-anchor:end;fill:"+a.Fill)
			}
		default:
			canvas.Line(pos, 0, pos, inner, cls, "stroke:"+a.Fill)
			if t.Label != "" {
				canvas.Text(pos, offset, t.Label, `dy=".71em"`, "text-anchor:middle;fill:"+a.Fill)
			}
		}
	}
	canvas.Path(a.DomainPath(), `class="domain"`, "fill:none;stroke:"+a.Fill)
	canvas.Gend()
}

func px(v float64) int { return int(math.Round(v)) }
