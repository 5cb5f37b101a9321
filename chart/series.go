package chart

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Index identifies a series within an Engine. Indexes are never reused.
type Index int

// Style determines how a series is drawn.
type Style int

const (
	// StyleDonut draws an arc with a hole in the middle.
	StyleDonut Style = iota
	// StylePie draws from the centre point to the outer limit.
	StylePie
	// StyleLineHorizontal draws a horizontal straight line.
	StyleLineHorizontal
	// StyleLineVertical draws a vertical straight line.
	StyleLineVertical
)

var styleNames = map[Style]string{
	StyleDonut:          "donut",
	StylePie:            "pie",
	StyleLineHorizontal: "horizontal-line",
	StyleLineVertical:   "vertical-line",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStyle converts a style name back into a Style.
func ParseStyle(name string) (Style, bool) {
	for s, n := range styleNames {
		if n == name {
			return s, true
		}
	}
	return StyleDonut, false
}

// EdgeType selects which edge of the arc an EdgeDetail is drawn on.
type EdgeType int

const (
	EdgeOuter EdgeType = iota
	EdgeInner
)

// EdgeDetail shades a proportion of the arc width along one edge.
type EdgeDetail struct {
	Type   EdgeType
	Colour colorful.Color
	Ratio  float64
}

// Inset moves the series in from the outside of the drawing area.
type Inset struct {
	X float64
	Y float64
}

// Shadow is drawn as a fade around the series.
type Shadow struct {
	Colour colorful.Color
	Size   float64
}

// DefaultSpinDuration is the time taken to animate a full sweep when an event
// does not set its own duration.
const DefaultSpinDuration = 5000 * time.Millisecond

// MinDuration is the exclusive lower bound for any animation duration.
const MinDuration = 100 * time.Millisecond

// SeriesSpec holds the construction parameters of a series. Build one with
// NewSeriesSpec; the engine treats the style fields as opaque.
type SeriesSpec struct {
	Colour             colorful.Color
	SecondaryColour    colorful.Color
	HasSecondary       bool
	LineWidth          float64
	Min                float64
	Max                float64
	Initial            float64
	Style              Style
	SpinClockwise      bool
	CapRounded         bool
	InitialVisibility  bool
	Inset              Inset
	Shadow             Shadow
	SpinDuration       time.Duration
	Easing             Easing
	DrawAsPoint        bool
	ShowPointWhenEmpty bool
	AllowOverflow      bool
	EdgeDetails        []EdgeDetail
	Label              string
}

// SeriesOption configures a SeriesSpec.
type SeriesOption func(*SeriesSpec)

// WithSecondaryColour sets the colour blended towards along the arc.
func WithSecondaryColour(c colorful.Color) SeriesOption {
	return func(s *SeriesSpec) {
		s.SecondaryColour = c
		s.HasSecondary = true
	}
}

// WithLineWidth sets the width of the line used to draw the series.
// A negative width leaves the choice to the renderer.
func WithLineWidth(width float64) SeriesOption {
	return func(s *SeriesSpec) {
		s.LineWidth = width
	}
}

// WithRange sets the value range and the initial value.
func WithRange(min, max, initial float64) SeriesOption {
	return func(s *SeriesSpec) {
		s.Min = min
		s.Max = max
		s.Initial = initial
	}
}

// WithStyle sets how the series is drawn.
func WithStyle(style Style) SeriesOption {
	return func(s *SeriesSpec) {
		s.Style = style
	}
}

// WithSpinClockwise sets the direction the series grows in.
func WithSpinClockwise(clockwise bool) SeriesOption {
	return func(s *SeriesSpec) {
		s.SpinClockwise = clockwise
	}
}

// WithCapRounded draws the partial end pixel of an arc.
func WithCapRounded(rounded bool) SeriesOption {
	return func(s *SeriesSpec) {
		s.CapRounded = rounded
	}
}

// WithInitialVisibility sets whether the series starts visible.
func WithInitialVisibility(visible bool) SeriesOption {
	return func(s *SeriesSpec) {
		s.InitialVisibility = visible
	}
}

// WithInset offsets the series origin by a fraction of the chart.
func WithInset(x, y float64) SeriesOption {
	return func(s *SeriesSpec) {
		s.Inset = Inset{X: x, Y: y}
	}
}

// WithShadow trails a fading shadow of colour c over size of the chart.
func WithShadow(c colorful.Color, size float64) SeriesOption {
	return func(s *SeriesSpec) {
		s.Shadow = Shadow{Colour: c, Size: size}
	}
}

// WithSpinDuration sets the default animation length for events on this series.
func WithSpinDuration(d time.Duration) SeriesOption {
	return func(s *SeriesSpec) {
		s.SpinDuration = d
	}
}

// WithEasing sets the default easing for events on this series.
func WithEasing(e Easing) SeriesOption {
	return func(s *SeriesSpec) {
		if e != nil {
			s.Easing = e
		}
	}
}

// WithDrawAsPoint draws the series as a point indicator. Points may move
// outside the range, so overflow is allowed as well.
func WithDrawAsPoint(point bool) SeriesOption {
	return func(s *SeriesSpec) {
		s.DrawAsPoint = point
		if point {
			s.AllowOverflow = true
		}
	}
}

// WithShowPointWhenEmpty keeps a point series drawn at its minimum.
func WithShowPointWhenEmpty(show bool) SeriesOption {
	return func(s *SeriesSpec) {
		s.ShowPointWhenEmpty = show
	}
}

// WithOverflow lets event targets fall outside min..max.
func WithOverflow(allow bool) SeriesOption {
	return func(s *SeriesSpec) {
		s.AllowOverflow = allow
	}
}

// WithEdgeDetail shades the inner or outer edge of the series.
func WithEdgeDetail(d EdgeDetail) SeriesOption {
	return func(s *SeriesSpec) {
		s.EdgeDetails = append(s.EdgeDetails, d)
	}
}

// WithLabel sets a display label, reported by the HTTP API.
func WithLabel(label string) SeriesOption {
	return func(s *SeriesSpec) {
		s.Label = label
	}
}

// NewSeriesSpec creates a validated SeriesSpec.
func NewSeriesSpec(colour colorful.Color, opts ...SeriesOption) (SeriesSpec, error) {
	s := SeriesSpec{
		Colour:             colour,
		LineWidth:          -1,
		Max:                100,
		SpinClockwise:      true,
		CapRounded:         true,
		InitialVisibility:  true,
		ShowPointWhenEmpty: true,
		SpinDuration:       DefaultSpinDuration,
		Easing:             defaultEasing,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.validate(); err != nil {
		return SeriesSpec{}, err
	}
	return s, nil
}

func (s SeriesSpec) validate() error {
	if !finite(s.Min) || !finite(s.Max) || !(s.Min < s.Max) {
		return ErrInvalidRange
	}
	if !(s.Initial >= s.Min && s.Initial <= s.Max) {
		return ErrInitialOutOfRange
	}
	if s.SpinDuration <= MinDuration {
		return ErrDurationTooShort
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// InRange reports whether v lies within the series range.
func (s SeriesSpec) InRange(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// SeriesState is a read-only view of a series at the last Advance.
type SeriesState struct {
	Index   Index
	Value   float64
	Percent float64
	Visible bool
	// Reveal is the display fraction: 0 when hidden, 1 when fully shown,
	// ramping while a show or hide event is active.
	Reveal float64
	Colour colorful.Color
	Spec   SeriesSpec
}

// series is the engine-owned mutable state of one series.
type series struct {
	index   Index
	spec    SeriesSpec
	value   float64
	visible bool
	reveal  float64
	colour  colorful.Color
	queue   *eventQueue

	observers []observer
}

func newSeries(index Index, spec SeriesSpec) *series {
	s := new(series)
	s.index = index
	s.spec = spec
	s.queue = newEventQueue()
	s.restore()
	return s
}

// restore puts the series back to its initial value, colour and visibility.
func (s *series) restore() {
	s.value = s.spec.Initial
	s.visible = s.spec.InitialVisibility
	s.colour = s.spec.Colour
	s.reveal = 0
	if s.visible {
		s.reveal = 1
	}
}

func (s *series) percent() float64 {
	return (s.value - s.spec.Min) / (s.spec.Max - s.spec.Min)
}

func (s *series) state() SeriesState {
	return SeriesState{
		Index:   s.index,
		Value:   s.value,
		Percent: s.percent(),
		Visible: s.visible,
		Reveal:  s.reveal,
		Colour:  s.colour,
		Spec:    s.spec,
	}
}
