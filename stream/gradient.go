package stream

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledchart/chart"
)

// GradientTable stores colour stops ordered by position in 0..1.
type GradientTable []struct {
	Colour colorful.Color
	Pos    float64
}

// NewSeriesGradient runs from the series colour to its secondary colour, or
// holds the series colour when it has none.
func NewSeriesGradient(s chart.SeriesState) GradientTable {
	end := s.Colour
	if s.Spec.HasSecondary {
		end = s.Spec.SecondaryColour
	}
	return GradientTable{
		{s.Colour, 0},
		{end, 1},
	}
}

// GetColor gets a colour at the specified point on the look-up table.
func (g GradientTable) GetColor(t float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Color{}
	}
	if t <= g[0].Pos {
		return g[0].Colour
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			if c2.Pos == c1.Pos {
				return c2.Colour
			}
			return c1.Colour.BlendHcl(c2.Colour, (t-c1.Pos)/(c2.Pos-c1.Pos)).Clamped()
		}
	}

	// At (or past) the last stop.
	return g[len(g)-1].Colour
}
