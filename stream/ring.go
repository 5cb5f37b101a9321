package stream

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledchart/chart"
	"github.com/matt-g-everett/ledchart/util"
)

// Ring draws chart series onto a ring of LEDs. Pixel 0 is the top of the
// ring and clockwise runs towards higher pixel numbers. Series are drawn in
// index order, so later series cover earlier ones.
type Ring struct {
	pixels     int
	background colorful.Color
	luts       map[int][]float64
}

// NewRing creates a Ring of the given size.
func NewRing(pixels int, background colorful.Color) *Ring {
	r := new(Ring)
	r.pixels = pixels
	r.background = background
	r.luts = make(map[int][]float64)
	return r
}

// Render draws one frame from a snapshot.
func (r *Ring) Render(states []chart.SeriesState) *Frame {
	f := NewFrame(r.pixels)
	f.Fill(r.background)
	for _, s := range states {
		if !s.Visible || s.Reveal <= 0 {
			continue
		}
		switch {
		case s.Spec.DrawAsPoint:
			r.drawPoint(f, s)
		case s.Spec.Style == chart.StyleLineHorizontal || s.Spec.Style == chart.StyleLineVertical:
			r.drawLine(f, s)
		default:
			r.drawArc(f, s)
		}
	}
	return f
}

func (r *Ring) lut(length int) []float64 {
	lut, ok := r.luts[length]
	if !ok {
		lut = util.GenerateLut(length, nil)
		r.luts[length] = lut
	}
	return lut
}

// paint blends c over pixel pos by alpha.
func paint(f *Frame, pos int, c colorful.Color, alpha float64) {
	n := f.Len()
	if n == 0 {
		return
	}
	pos = ((pos % n) + n) % n
	if alpha >= 1 {
		f.Set(pos, c)
		return
	}
	f.Set(pos, f.At(pos).BlendRgb(c, util.Clamp(alpha, 0, 1)).Clamped())
}

func (r *Ring) origin(s chart.SeriesState) int {
	// Inset.X rotates the origin by a fraction of the ring; a ring has no
	// second dimension for Inset.Y.
	return int(math.Round(s.Spec.Inset.X * float64(r.pixels)))
}

func direction(s chart.SeriesState) int {
	if s.Spec.SpinClockwise {
		return 1
	}
	return -1
}

// drawArc fills from the origin for Percent of the ring. Donuts shade along
// the series gradient, pies use the flat series colour.
func (r *Ring) drawArc(f *Frame, s chart.SeriesState) {
	// Rounded to drop float noise that would light a cap pixel by 1e-16.
	length := math.Round(util.Clamp(s.Percent, 0, 1)*float64(r.pixels)*1e6) / 1e6
	whole := int(math.Floor(length))
	part := length - float64(whole)
	origin, dir := r.origin(s), direction(s)

	gradient := NewSeriesGradient(s)
	colourAt := func(i int) colorful.Color {
		if s.Spec.Style == chart.StylePie || length <= 1 {
			return s.Colour
		}
		return gradient.GetColor(float64(i) / (length - 1))
	}

	for i := 0; i < whole; i++ {
		paint(f, origin+dir*i, colourAt(i), s.Reveal)
	}
	end := whole
	if s.Spec.CapRounded && part > 0 {
		paint(f, origin+dir*whole, colourAt(whole), s.Reveal*part)
		end++
	}
	if whole > 0 {
		r.drawEdges(f, s, origin, origin+dir*(whole-1))
	}
	if whole < r.pixels {
		r.drawShadow(f, s, origin+dir*end, dir)
	}
}

// drawLine fills a strip from its first pixel, or from its last for
// vertical lines wired bottom-up.
func (r *Ring) drawLine(f *Frame, s chart.SeriesState) {
	count := int(math.Round(util.Clamp(s.Percent, 0, 1) * float64(r.pixels)))
	start, dir := 0, 1
	if s.Spec.Style == chart.StyleLineVertical {
		start, dir = r.pixels-1, -1
	}
	for i := 0; i < count; i++ {
		paint(f, start+dir*i, s.Colour, s.Reveal)
	}
	if count < r.pixels {
		r.drawShadow(f, s, start+dir*count, dir)
	}
}

// drawPoint lights LineWidth pixels (at least one) at the value. Overflowing
// points wrap around the ring.
func (r *Ring) drawPoint(f *Frame, s chart.SeriesState) {
	if s.Percent <= 0 && !s.Spec.ShowPointWhenEmpty {
		return
	}
	width := int(math.Max(1, math.Round(s.Spec.LineWidth)))
	origin, dir := r.origin(s), direction(s)
	pos := origin + dir*int(math.Floor(s.Percent*float64(r.pixels)+1e-9))
	for i := 0; i < width; i++ {
		paint(f, pos+dir*i, s.Colour, s.Reveal)
	}
	r.drawShadow(f, s, pos+dir*width, dir)
}

// drawShadow fades the shadow colour out over Shadow.Size of the ring,
// starting at pixel from.
func (r *Ring) drawShadow(f *Frame, s chart.SeriesState, from, dir int) {
	length := int(math.Ceil(s.Spec.Shadow.Size * float64(r.pixels)))
	if length <= 0 {
		return
	}
	for i, weight := range r.lut(length) {
		paint(f, from+dir*i, s.Spec.Shadow.Colour, weight*s.Reveal)
	}
}

// drawEdges shades the first (inner) or last (outer) pixel of an arc.
func (r *Ring) drawEdges(f *Frame, s chart.SeriesState, first, last int) {
	for _, d := range s.Spec.EdgeDetails {
		pos := last
		if d.Type == chart.EdgeInner {
			pos = first
		}
		paint(f, pos, d.Colour, d.Ratio*s.Reveal)
	}
}
