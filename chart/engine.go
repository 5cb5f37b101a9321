// Package chart animates ranged series (arcs, pies and lines) by running
// queued events against a caller-supplied clock.
//
// An Engine is driven by calling Advance once per display refresh with a
// monotonically non-decreasing millisecond timestamp. Each series runs at
// most one event at a time; further events wait in submission order. The
// Engine is not safe for concurrent use: it belongs to the goroutine that
// runs the render loop.
package chart

import (
	"log/slog"
	"sort"

	"github.com/matt-g-everett/ledchart/util"
)

// TickReport lists what happened during one Advance.
type TickReport struct {
	NowMs     int64
	Started   []EventInfo
	Completed []EventInfo
	// Failures holds a *ListenerError for every listener that failed.
	Failures []error
}

// Engine owns a set of series and their event queues.
type Engine struct {
	series map[Index]*series
	busy   map[Index]*series

	nextIndex    Index
	nextEvent    EventID
	nextObserver ObserverID

	lastNowMs int64
	ticked    bool

	logger  *slog.Logger
	verbose bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithVerbose enables debug logging of every activation and completion.
func WithVerbose(verbose bool) EngineOption {
	return func(e *Engine) {
		e.verbose = verbose
	}
}

// NewEngine creates an empty Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := new(Engine)
	e.series = make(map[Index]*series)
	e.busy = make(map[Index]*series)
	e.logger = slog.Default()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) debug(msg string, args ...any) {
	if e.verbose {
		e.logger.Debug(msg, args...)
	}
}

// AddSeries registers a series and returns its index.
func (e *Engine) AddSeries(spec SeriesSpec) (Index, error) {
	if err := spec.validate(); err != nil {
		return 0, err
	}
	if spec.Easing == nil {
		spec.Easing = defaultEasing
	}
	index := e.nextIndex
	e.nextIndex++
	e.series[index] = newSeries(index, spec)
	e.debug("series added", "series", index, "min", spec.Min, "max", spec.Max, "initial", spec.Initial)
	return index, nil
}

// DeleteSeries removes a series, cancelling its events without calling any
// listeners.
func (e *Engine) DeleteSeries(index Index) error {
	s, ok := e.series[index]
	if !ok {
		return ErrUnknownSeries
	}
	n := s.queue.cancel()
	delete(e.series, index)
	delete(e.busy, index)
	e.debug("series deleted", "series", index, "cancelled", n)
	return nil
}

// DeleteAll removes every series and cancels every event. Indexes handed out
// before are not reused.
func (e *Engine) DeleteAll() {
	n := 0
	for _, s := range e.series {
		n += s.queue.cancel()
	}
	e.series = make(map[Index]*series)
	e.busy = make(map[Index]*series)
	e.debug("all series deleted", "cancelled", n)
}

// Reset cancels every event and returns each series to its initial value,
// colour and visibility.
func (e *Engine) Reset() {
	n := 0
	for _, s := range e.series {
		n += s.queue.cancel()
		s.restore()
	}
	e.busy = make(map[Index]*series)
	e.debug("engine reset", "cancelled", n)
}

// CancelEvents drops all pending and active events of one series, leaving
// its value where it is. No listeners are called.
func (e *Engine) CancelEvents(index Index) (int, error) {
	s, ok := e.series[index]
	if !ok {
		return 0, ErrUnknownSeries
	}
	n := s.queue.cancel()
	delete(e.busy, index)
	return n, nil
}

// AddEvent queues an event behind any others for the same series.
func (e *Engine) AddEvent(spec EventSpec) (EventID, error) {
	if err := spec.validate(); err != nil {
		return 0, err
	}
	s, ok := e.series[spec.Index]
	if !ok {
		return 0, ErrUnknownSeries
	}
	if spec.HasValue && (!finite(spec.Value) || (!s.spec.AllowOverflow && !s.spec.InRange(spec.Value))) {
		return 0, ErrTargetOutOfRange
	}

	e.nextEvent++
	ev := &queuedEvent{id: e.nextEvent, spec: spec, state: StatePending}
	s.queue.push(ev, e.lastNowMs, e.ticked)
	e.busy[s.index] = s
	e.debug("event queued", "series", s.index, "event", ev.id, "queued", s.queue.len())
	return ev.id, nil
}

// Advance moves every busy series to nowMs. Timestamps older than the last
// one seen are treated as the last one.
func (e *Engine) Advance(nowMs int64) TickReport {
	if e.ticked && nowMs < e.lastNowMs {
		e.logger.Warn("clock went backwards", "now", nowMs, "last", e.lastNowMs)
		nowMs = e.lastNowMs
	}
	e.lastNowMs = nowMs
	e.ticked = true

	r := TickReport{NowMs: nowMs}
	indexes := make([]Index, 0, len(e.busy))
	for index := range e.busy {
		indexes = append(indexes, index)
	}
	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })

	for _, index := range indexes {
		s, ok := e.busy[index]
		if !ok {
			continue
		}
		s.queue.stamp(nowMs)
		e.advanceSeries(s, nowMs, &r)
	}
	return r
}

// owns reports whether s is still live. Listeners may delete series.
func (e *Engine) owns(s *series) bool {
	return e.series[s.index] == s
}

// running reports whether ev is still the active head of s. Listeners may
// cancel it or remove its series.
func (e *Engine) running(s *series, ev *queuedEvent) bool {
	return e.owns(s) && s.queue.head() == ev && ev.state == StateActive
}

func (e *Engine) advanceSeries(s *series, nowMs int64, r *TickReport) {
	chained := false
	for e.owns(s) {
		ev := s.queue.head()
		if ev == nil {
			delete(e.busy, s.index)
			return
		}

		if ev.state == StatePending {
			due := ev.dueMs()
			if nowMs < due {
				return
			}
			// A successor with no delay left starts where its predecessor
			// finished in this same pass, so the boundary is continuous.
			startMs := nowMs
			if chained && due == ev.headMs {
				startMs = due
			}
			e.activate(s, ev, startMs, r)
			if !e.running(s, ev) {
				continue
			}
		}

		if ev.evaluated && ev.evaluatedMs == nowMs {
			return
		}
		done := e.step(s, ev, nowMs, r)
		if !e.running(s, ev) {
			continue
		}
		if !done {
			return
		}
		e.complete(s, ev, r)
		chained = true
	}
}

// activate starts ev at startMs and delivers the 0% progress call.
func (e *Engine) activate(s *series, ev *queuedEvent, startMs int64, r *TickReport) {
	ev.state = StateActive
	ev.startMs = startMs
	ev.duration = ev.spec.Duration
	if ev.duration == 0 {
		ev.duration = s.spec.SpinDuration
	}
	ev.easing = ev.spec.Easing
	if ev.easing == nil {
		ev.easing = s.spec.Easing
	}

	ev.startValue = s.value
	ev.targetValue = s.value
	if ev.spec.HasValue {
		ev.targetValue = ev.spec.Value
		if !s.spec.AllowOverflow {
			ev.targetValue = util.Clamp(ev.targetValue, s.spec.Min, s.spec.Max)
		}
	}
	ev.startColour = s.colour
	ev.startReveal = s.reveal
	if ev.spec.Visibility == VisibilityShow {
		s.visible = true
	}

	info := ev.info()
	r.Started = append(r.Started, info)
	e.debug("event started", "series", s.index, "event", ev.id, "start", ev.startValue, "target", ev.targetValue, "at", startMs)
	e.notifyEvent(ev.spec.OnStart, ev, StageStart, r)
	if !e.running(s, ev) {
		return
	}
	e.step(s, ev, startMs, r)
}

// step evaluates the active event at nowMs and reports whether it has run
// its full duration.
func (e *Engine) step(s *series, ev *queuedEvent, nowMs int64, r *TickReport) bool {
	t := util.Clamp(float64(nowMs-ev.startMs)/float64(ev.durationMs()), 0, 1)
	done := t >= 1
	eased := 1.0
	if !done {
		eased = ev.easing(t)
	}

	if done {
		s.value = ev.targetValue
	} else {
		s.value = util.Lerp(ev.startValue, ev.targetValue, eased)
		if !s.spec.AllowOverflow {
			s.value = util.Clamp(s.value, s.spec.Min, s.spec.Max)
		}
	}

	blend := util.Clamp(eased, 0, 1)
	if ev.spec.HasColour {
		if done {
			s.colour = ev.spec.Colour
		} else {
			s.colour = ev.startColour.BlendHcl(ev.spec.Colour, blend).Clamped()
		}
	}
	switch ev.spec.Visibility {
	case VisibilityShow:
		s.reveal = util.Lerp(ev.startReveal, 1, blend)
	case VisibilityHide:
		s.reveal = util.Lerp(ev.startReveal, 0, blend)
	}

	ev.evaluated = true
	ev.evaluatedMs = nowMs
	e.notifyProgress(s, ev, Progress{
		Index:   s.index,
		EventID: ev.id,
		Percent: eased,
		Value:   s.value,
		Reveal:  s.reveal,
	}, r)
	return done
}

func (e *Engine) complete(s *series, ev *queuedEvent, r *TickReport) {
	ev.state = StateCompleted
	if ev.spec.Visibility == VisibilityHide {
		s.visible = false
		s.reveal = 0
	}
	info := ev.info()
	s.queue.pop(info.EndMs)

	r.Completed = append(r.Completed, info)
	e.debug("event completed", "series", s.index, "event", ev.id, "value", s.value, "at", info.EndMs)
	e.notifyEvent(ev.spec.OnEnd, ev, StageEnd, r)
}

// Value returns the current value of a series.
func (e *Engine) Value(index Index) (float64, error) {
	s, ok := e.series[index]
	if !ok {
		return 0, ErrUnknownSeries
	}
	return s.value, nil
}

// Visible reports whether a series is visible.
func (e *Engine) Visible(index Index) (bool, error) {
	s, ok := e.series[index]
	if !ok {
		return false, ErrUnknownSeries
	}
	return s.visible, nil
}

// Series returns a read-only view of one series.
func (e *Engine) Series(index Index) (SeriesState, error) {
	s, ok := e.series[index]
	if !ok {
		return SeriesState{}, ErrUnknownSeries
	}
	return s.state(), nil
}

// Snapshot returns the state of every series ordered by index.
func (e *Engine) Snapshot() []SeriesState {
	states := make([]SeriesState, 0, len(e.series))
	for _, s := range e.series {
		states = append(states, s.state())
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Index < states[j].Index })
	return states
}

// Active returns the event currently animating a series, if any.
func (e *Engine) Active(index Index) (EventInfo, bool) {
	s, ok := e.series[index]
	if !ok {
		return EventInfo{}, false
	}
	if h := s.queue.head(); h != nil && h.state == StateActive {
		return h.info(), true
	}
	return EventInfo{}, false
}

// Pending returns the number of queued events for a series, including the
// active one.
func (e *Engine) Pending(index Index) (int, error) {
	s, ok := e.series[index]
	if !ok {
		return 0, ErrUnknownSeries
	}
	return s.queue.len(), nil
}

// Busy reports whether any series has queued or active events.
func (e *Engine) Busy() bool {
	return len(e.busy) > 0
}

// IsEmpty reports whether the engine holds no series.
func (e *Engine) IsEmpty() bool {
	return len(e.series) == 0
}

// Len returns the number of series.
func (e *Engine) Len() int {
	return len(e.series)
}
