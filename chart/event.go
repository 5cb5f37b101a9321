package chart

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// EventID identifies an accepted event.
type EventID uint64

// Visibility is the visibility an event applies to its series.
type Visibility int

const (
	// VisibilityUnchanged leaves the series visibility alone.
	VisibilityUnchanged Visibility = iota
	// VisibilityShow makes the series visible when the event activates.
	VisibilityShow
	// VisibilityHide hides the series when the event completes.
	VisibilityHide
)

// Anchor selects the instant an event's delay is measured from.
type Anchor int

const (
	// AnchorHead measures the delay from the moment the event reaches the head
	// of its series queue.
	AnchorHead Anchor = iota
	// AnchorSubmission measures the delay from submission. An event whose delay
	// has already run out when it reaches the head activates straight away.
	AnchorSubmission
)

// State is the lifecycle state of an event.
type State int

// Events move from pending to active to completed, or to cancelled from
// either of the first two.
const (
	StatePending State = iota
	StateActive
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// EventInfo describes an event to listeners and in tick reports.
type EventInfo struct {
	ID      EventID
	Index   Index
	Spec    EventSpec
	StartMs int64
	EndMs   int64
}

// EventListener is called once when an event starts or ends.
type EventListener func(EventInfo) error

// EventSpec is an immutable request to change a series. Build one with
// NewMoveEvent, NewVisibilityEvent or NewColourEvent.
type EventSpec struct {
	Index      Index
	HasValue   bool
	Value      float64
	Visibility Visibility
	HasColour  bool
	Colour     colorful.Color
	Delay      time.Duration
	// Duration of the animation. Zero uses the series spin duration.
	Duration time.Duration
	// Easing overrides the series easing when set.
	Easing  Easing
	Anchor  Anchor
	OnStart EventListener
	OnEnd   EventListener
}

// EventOption configures an EventSpec.
type EventOption func(*EventSpec)

// WithDelay holds the event back for d once its anchor instant is reached.
func WithDelay(d time.Duration) EventOption {
	return func(e *EventSpec) {
		e.Delay = d
	}
}

// WithDuration sets how long the animation runs.
func WithDuration(d time.Duration) EventOption {
	return func(e *EventSpec) {
		e.Duration = d
	}
}

// WithEventEasing overrides the series easing for this event.
func WithEventEasing(easing Easing) EventOption {
	return func(e *EventSpec) {
		e.Easing = easing
	}
}

// WithValue adds a value change to a visibility or colour event.
func WithValue(v float64) EventOption {
	return func(e *EventSpec) {
		e.HasValue = true
		e.Value = v
	}
}

// WithVisibility adds a visibility change to a move or colour event.
func WithVisibility(show bool) EventOption {
	return func(e *EventSpec) {
		e.Visibility = VisibilityHide
		if show {
			e.Visibility = VisibilityShow
		}
	}
}

// WithColour blends the series colour to c over the event duration.
func WithColour(c colorful.Color) EventOption {
	return func(e *EventSpec) {
		e.HasColour = true
		e.Colour = c
	}
}

// WithAnchor selects what the delay is measured from.
func WithAnchor(a Anchor) EventOption {
	return func(e *EventSpec) {
		e.Anchor = a
	}
}

// WithStartListener calls fn once when the event activates.
func WithStartListener(fn EventListener) EventOption {
	return func(e *EventSpec) {
		e.OnStart = fn
	}
}

// WithEndListener calls fn once when the event completes. It is not called
// for cancelled events.
func WithEndListener(fn EventListener) EventOption {
	return func(e *EventSpec) {
		e.OnEnd = fn
	}
}

// NewMoveEvent creates an event moving series index to value.
func NewMoveEvent(index Index, value float64, opts ...EventOption) (EventSpec, error) {
	return newEvent(index, append([]EventOption{WithValue(value)}, opts...))
}

// NewVisibilityEvent creates an event showing or hiding series index.
func NewVisibilityEvent(index Index, show bool, opts ...EventOption) (EventSpec, error) {
	return newEvent(index, append([]EventOption{WithVisibility(show)}, opts...))
}

// NewColourEvent creates an event blending the colour of series index to c.
func NewColourEvent(index Index, c colorful.Color, opts ...EventOption) (EventSpec, error) {
	return newEvent(index, append([]EventOption{WithColour(c)}, opts...))
}

func newEvent(index Index, opts []EventOption) (EventSpec, error) {
	e := EventSpec{Index: index}
	for _, opt := range opts {
		opt(&e)
	}
	if err := e.validate(); err != nil {
		return EventSpec{}, err
	}
	return e, nil
}

func (e EventSpec) validate() error {
	if e.Duration != 0 && e.Duration <= MinDuration {
		return ErrDurationTooShort
	}
	if e.Delay < 0 {
		return ErrNegativeDelay
	}
	if !e.HasValue && !e.HasColour && e.Visibility == VisibilityUnchanged {
		return ErrEmptyEvent
	}
	return nil
}
