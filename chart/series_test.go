package chart

import (
	"errors"
	"math"
	"testing"
	"testing/quick"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

var grey = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// TestAddSeriesReturnsInitial verifies that any valid range is accepted and
// the series starts at its initial value.
func TestAddSeriesReturnsInitial(t *testing.T) {
	property := func(a, b int16, frac uint8) bool {
		min, max := float64(a), float64(b)
		if min == max {
			return true
		}
		if min > max {
			min, max = max, min
		}
		initial := min + (max-min)*float64(frac)/255

		spec, err := NewSeriesSpec(grey, WithRange(min, max, initial))
		if err != nil {
			return false
		}
		e := NewEngine()
		index, err := e.AddSeries(spec)
		if err != nil {
			return false
		}
		v, err := e.Value(index)
		return err == nil && v == initial
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestInvalidRangeRejected verifies that min >= max never builds.
func TestInvalidRangeRejected(t *testing.T) {
	property := func(a, b int16) bool {
		min, max := float64(a), float64(b)
		if min < max {
			min, max = max, min
		}
		_, err := NewSeriesSpec(grey, WithRange(min, max, min))
		return errors.Is(err, ErrInvalidRange)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestSeriesSpecValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []SeriesOption
		want error
	}{
		{"defaults", nil, nil},
		{"initial below", []SeriesOption{WithRange(0, 50, -1)}, ErrInitialOutOfRange},
		{"initial above", []SeriesOption{WithRange(0, 50, 51)}, ErrInitialOutOfRange},
		{"initial at max", []SeriesOption{WithRange(0, 50, 50)}, nil},
		{"equal bounds", []SeriesOption{WithRange(10, 10, 10)}, ErrInvalidRange},
		{"spin too short", []SeriesOption{WithSpinDuration(100 * time.Millisecond)}, ErrDurationTooShort},
		{"spin ok", []SeriesOption{WithSpinDuration(101 * time.Millisecond)}, nil},
		{"nan min", []SeriesOption{WithRange(math.NaN(), 100, 0)}, ErrInvalidRange},
		{"nan max", []SeriesOption{WithRange(0, math.NaN(), 0)}, ErrInvalidRange},
		{"infinite max", []SeriesOption{WithRange(0, math.Inf(1), 0)}, ErrInvalidRange},
		{"infinite min", []SeriesOption{WithRange(math.Inf(-1), 0, 0)}, ErrInvalidRange},
		{"nan initial", []SeriesOption{WithRange(0, 100, math.NaN())}, ErrInitialOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSeriesSpec(grey, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSeriesSpecDefaults(t *testing.T) {
	spec, err := NewSeriesSpec(grey)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if spec.Min != 0 || spec.Max != 100 || spec.Initial != 0 {
		t.Errorf("unexpected range %v..%v (%v)", spec.Min, spec.Max, spec.Initial)
	}
	if !spec.InitialVisibility || !spec.SpinClockwise || !spec.CapRounded || !spec.ShowPointWhenEmpty {
		t.Errorf("unexpected boolean defaults: %+v", spec)
	}
	if spec.SpinDuration != DefaultSpinDuration {
		t.Errorf("expected spin duration %v, got %v", DefaultSpinDuration, spec.SpinDuration)
	}
	if spec.Style != StyleDonut {
		t.Errorf("expected donut style, got %v", spec.Style)
	}
}

func TestDrawAsPointAllowsOverflow(t *testing.T) {
	spec, err := NewSeriesSpec(grey, WithDrawAsPoint(true))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !spec.AllowOverflow {
		t.Error("expected point series to allow overflow")
	}
}

func TestParseStyle(t *testing.T) {
	for _, s := range []Style{StyleDonut, StylePie, StyleLineHorizontal, StyleLineVertical} {
		got, ok := ParseStyle(s.String())
		if !ok || got != s {
			t.Errorf("round trip of %v gave %v (%v)", s, got, ok)
		}
	}
	if _, ok := ParseStyle("spiral"); ok {
		t.Error("expected unknown style to fail")
	}
}

func TestEventSpecValidation(t *testing.T) {
	if _, err := NewMoveEvent(0, 10, WithDuration(100*time.Millisecond)); !errors.Is(err, ErrDurationTooShort) {
		t.Errorf("expected ErrDurationTooShort, got %v", err)
	}
	if _, err := NewMoveEvent(0, 10, WithDuration(-time.Second)); !errors.Is(err, ErrDurationTooShort) {
		t.Errorf("expected ErrDurationTooShort for negative duration, got %v", err)
	}
	if _, err := NewMoveEvent(0, 10, WithDelay(-time.Millisecond)); !errors.Is(err, ErrNegativeDelay) {
		t.Errorf("expected ErrNegativeDelay, got %v", err)
	}
	ev, err := NewVisibilityEvent(3, false, WithValue(7))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if ev.Index != 3 || ev.Visibility != VisibilityHide || !ev.HasValue || ev.Value != 7 {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestEasingByName(t *testing.T) {
	for _, name := range []string{"linear", "InOutQuad", "in-out-quad", "out_bounce", "decelerate", ""} {
		fn, err := EasingByName(name)
		if err != nil {
			t.Errorf("%q: %v", name, err)
			continue
		}
		if got := fn(1); got < 0.999 || got > 1.001 {
			t.Errorf("%q: expected f(1) = 1, got %v", name, got)
		}
	}
	if _, err := EasingByName("wobble"); err == nil {
		t.Error("expected unknown easing to fail")
	}
	if len(EasingNames()) == 0 {
		t.Error("expected registered easings")
	}
}
