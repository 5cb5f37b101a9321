// Package scene reads chart scenes (series and the events that animate them)
// from YAML and installs them into a chart.Engine.
package scene

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledchart/chart"
	"gopkg.in/yaml.v2"
)

// Event types understood in scene files.
const (
	TypeMove   = "move"
	TypeShow   = "show"
	TypeHide   = "hide"
	TypeColour = "colour"
)

// Scene is a set of series and the events to run against them.
type Scene struct {
	Series []Series `yaml:"series"`
	Events []Event  `yaml:"events"`
	// Loop resubmits the events once the last of them has completed.
	Loop bool `yaml:"loop"`
	// Replay is a cron spec ("@every 30s", "0 * * * *") restarting the scene.
	Replay string `yaml:"replay"`
}

// Range of a series.
type Range struct {
	Min     float64  `yaml:"min"`
	Max     float64  `yaml:"max"`
	Initial *float64 `yaml:"initial"`
}

// Series describes one chart series.
type Series struct {
	Name            string   `yaml:"name"`
	Colour          string   `yaml:"colour"`
	SecondaryColour string   `yaml:"secondaryColour"`
	LineWidth       *float64 `yaml:"lineWidth"`
	Range           *Range   `yaml:"range"`
	Style           string   `yaml:"style"`
	SpinClockwise   *bool    `yaml:"spinClockwise"`
	CapRounded      *bool    `yaml:"capRounded"`
	Visible         *bool    `yaml:"visible"`
	Inset           struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	} `yaml:"inset"`
	Shadow struct {
		Colour string  `yaml:"colour"`
		Size   float64 `yaml:"size"`
	} `yaml:"shadow"`
	SpinDurationMs int64  `yaml:"spinDurationMs"`
	Easing         string `yaml:"easing"`
	DrawAsPoint    bool   `yaml:"drawAsPoint"`
	Label          string `yaml:"label"`
}

// Event describes one event, referring to its series by name.
type Event struct {
	Series     string   `yaml:"series"`
	Type       string   `yaml:"type"`
	Value      *float64 `yaml:"value"`
	Colour     string   `yaml:"colour"`
	DelayMs    int64    `yaml:"delayMs"`
	DurationMs int64    `yaml:"durationMs"`
	Easing     string   `yaml:"easing"`
	Anchor     string   `yaml:"anchor"`
}

// Binding maps series names to the indexes an engine assigned them.
type Binding map[string]chart.Index

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scene.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return &s, nil
}

func (s *Scene) applyDefaults() {
	for i := range s.Series {
		if s.Series[i].Name == "" {
			s.Series[i].Name = fmt.Sprintf("series%d", i)
		}
		if s.Series[i].Colour == "" {
			s.Series[i].Colour = "#202020"
		}
	}
	for i := range s.Events {
		if s.Events[i].Type == "" {
			s.Events[i].Type = TypeMove
		}
	}
}

// validate checks everything that does not need an engine, so errors name
// the scene item at fault.
func (s *Scene) validate() error {
	if len(s.Series) == 0 {
		return errors.New("at least one series must be defined")
	}
	names := make(map[string]bool)
	for _, sr := range s.Series {
		if names[sr.Name] {
			return fmt.Errorf("series %s: duplicate name", sr.Name)
		}
		names[sr.Name] = true
		if _, err := sr.spec(); err != nil {
			return fmt.Errorf("series %s: %w", sr.Name, err)
		}
	}
	for i, ev := range s.Events {
		if !names[ev.Series] {
			return fmt.Errorf("event %d: unknown series %q", i, ev.Series)
		}
		if _, err := ev.spec(0); err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Series, err)
		}
	}
	return nil
}

func parseColour(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("bad colour %q: %w", hex, err)
	}
	return c, nil
}

func (sr Series) spec() (chart.SeriesSpec, error) {
	colour, err := parseColour(sr.Colour)
	if err != nil {
		return chart.SeriesSpec{}, err
	}

	opts := []chart.SeriesOption{
		chart.WithInset(sr.Inset.X, sr.Inset.Y),
		chart.WithDrawAsPoint(sr.DrawAsPoint),
		chart.WithLabel(sr.Label),
	}
	if sr.SecondaryColour != "" {
		c, err := parseColour(sr.SecondaryColour)
		if err != nil {
			return chart.SeriesSpec{}, err
		}
		opts = append(opts, chart.WithSecondaryColour(c))
	}
	if sr.LineWidth != nil {
		opts = append(opts, chart.WithLineWidth(*sr.LineWidth))
	}
	if sr.Range != nil {
		initial := sr.Range.Min
		if sr.Range.Initial != nil {
			initial = *sr.Range.Initial
		}
		opts = append(opts, chart.WithRange(sr.Range.Min, sr.Range.Max, initial))
	}
	if sr.Style != "" {
		style, ok := chart.ParseStyle(sr.Style)
		if !ok {
			return chart.SeriesSpec{}, fmt.Errorf("unknown style %q", sr.Style)
		}
		opts = append(opts, chart.WithStyle(style))
	}
	if sr.SpinClockwise != nil {
		opts = append(opts, chart.WithSpinClockwise(*sr.SpinClockwise))
	}
	if sr.CapRounded != nil {
		opts = append(opts, chart.WithCapRounded(*sr.CapRounded))
	}
	if sr.Visible != nil {
		opts = append(opts, chart.WithInitialVisibility(*sr.Visible))
	}
	if sr.Shadow.Colour != "" {
		c, err := parseColour(sr.Shadow.Colour)
		if err != nil {
			return chart.SeriesSpec{}, err
		}
		opts = append(opts, chart.WithShadow(c, sr.Shadow.Size))
	}
	if sr.SpinDurationMs != 0 {
		opts = append(opts, chart.WithSpinDuration(time.Duration(sr.SpinDurationMs)*time.Millisecond))
	}
	if sr.Easing != "" {
		easing, err := chart.EasingByName(sr.Easing)
		if err != nil {
			return chart.SeriesSpec{}, err
		}
		opts = append(opts, chart.WithEasing(easing))
	}
	return chart.NewSeriesSpec(colour, opts...)
}

func (ev Event) spec(index chart.Index) (chart.EventSpec, error) {
	opts := []chart.EventOption{
		chart.WithDelay(time.Duration(ev.DelayMs) * time.Millisecond),
		chart.WithDuration(time.Duration(ev.DurationMs) * time.Millisecond),
	}
	if ev.Easing != "" {
		easing, err := chart.EasingByName(ev.Easing)
		if err != nil {
			return chart.EventSpec{}, err
		}
		opts = append(opts, chart.WithEventEasing(easing))
	}
	switch ev.Anchor {
	case "", "head":
	case "submission":
		opts = append(opts, chart.WithAnchor(chart.AnchorSubmission))
	default:
		return chart.EventSpec{}, fmt.Errorf("unknown anchor %q", ev.Anchor)
	}
	if ev.Value != nil {
		opts = append(opts, chart.WithValue(*ev.Value))
	}
	var colour colorful.Color
	if ev.Colour != "" {
		c, err := parseColour(ev.Colour)
		if err != nil {
			return chart.EventSpec{}, err
		}
		colour = c
		opts = append(opts, chart.WithColour(c))
	}

	switch ev.Type {
	case TypeMove:
		if ev.Value == nil {
			return chart.EventSpec{}, errors.New("move event needs a value")
		}
		return chart.NewMoveEvent(index, *ev.Value, opts...)
	case TypeShow, TypeHide:
		return chart.NewVisibilityEvent(index, ev.Type == TypeShow, opts...)
	case TypeColour:
		if ev.Colour == "" {
			return chart.EventSpec{}, errors.New("colour event needs a colour")
		}
		return chart.NewColourEvent(index, colour, opts...)
	}
	return chart.EventSpec{}, fmt.Errorf("unknown event type %q", ev.Type)
}

// Install adds every series of the scene to e.
func (s *Scene) Install(e *chart.Engine) (Binding, error) {
	b := make(Binding, len(s.Series))
	for _, sr := range s.Series {
		spec, err := sr.spec()
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", sr.Name, err)
		}
		index, err := e.AddSeries(spec)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", sr.Name, err)
		}
		b[sr.Name] = index
	}
	return b, nil
}

// Submit queues the scene's events in file order.
func (s *Scene) Submit(e *chart.Engine, b Binding) ([]chart.EventID, error) {
	ids := make([]chart.EventID, 0, len(s.Events))
	for i, ev := range s.Events {
		index, ok := b[ev.Series]
		if !ok {
			return ids, fmt.Errorf("event %d: unknown series %q", i, ev.Series)
		}
		spec, err := ev.spec(index)
		if err != nil {
			return ids, fmt.Errorf("event %d (%s): %w", i, ev.Series, err)
		}
		id, err := e.AddEvent(spec)
		if err != nil {
			return ids, fmt.Errorf("event %d (%s): %w", i, ev.Series, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Names inverts b, mapping each index back to its series name.
func (b Binding) Names() map[chart.Index]string {
	names := make(map[chart.Index]string, len(b))
	for name, index := range b {
		names[index] = name
	}
	return names
}
