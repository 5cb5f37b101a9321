package chart

import (
	"container/list"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// queuedEvent is an accepted event together with its scheduling state.
type queuedEvent struct {
	id    EventID
	spec  EventSpec
	state State

	// submittedMs and headMs are only meaningful once stamped/headKnown are set;
	// events submitted before the first Advance are stamped by it.
	submittedMs int64
	stamped     bool
	headMs      int64
	headKnown   bool

	startMs     int64
	duration    time.Duration
	easing      Easing
	evaluated   bool
	evaluatedMs int64

	startValue  float64
	targetValue float64
	startColour colorful.Color
	startReveal float64
}

func (e *queuedEvent) durationMs() int64 {
	return e.duration.Milliseconds()
}

// dueMs is the earliest instant the event may activate. Only valid at the
// head of the queue.
func (e *queuedEvent) dueMs() int64 {
	delay := e.spec.Delay.Milliseconds()
	if e.spec.Anchor == AnchorSubmission {
		due := e.submittedMs + delay
		if due < e.headMs {
			due = e.headMs
		}
		return due
	}
	return e.headMs + delay
}

func (e *queuedEvent) info() EventInfo {
	info := EventInfo{
		ID:    e.id,
		Index: e.spec.Index,
		Spec:  e.spec,
	}
	if e.state == StateActive || e.state == StateCompleted {
		info.StartMs = e.startMs
		info.EndMs = e.startMs + e.durationMs()
	}
	return info
}

// eventQueue holds the events of one series in submission order. Only the
// front element may be active.
type eventQueue struct {
	events *list.List
}

func newEventQueue() *eventQueue {
	q := new(eventQueue)
	q.events = list.New()
	return q
}

// push appends e. When the engine has already ticked, nowMs is the logical
// submission instant; otherwise the next Advance stamps it.
func (q *eventQueue) push(e *queuedEvent, nowMs int64, ticked bool) {
	if ticked {
		e.submittedMs = nowMs
		e.stamped = true
	}
	if q.events.Len() == 0 && e.stamped {
		e.headMs = e.submittedMs
		e.headKnown = true
	}
	q.events.PushBack(e)
}

// stamp fills in submission and head instants that were unknown at push time.
func (q *eventQueue) stamp(nowMs int64) {
	for el := q.events.Front(); el != nil; el = el.Next() {
		e := el.Value.(*queuedEvent)
		if !e.stamped {
			e.submittedMs = nowMs
			e.stamped = true
		}
	}
	if h := q.head(); h != nil && !h.headKnown {
		h.headMs = nowMs
		h.headKnown = true
	}
}

func (q *eventQueue) head() *queuedEvent {
	if el := q.events.Front(); el != nil {
		return el.Value.(*queuedEvent)
	}
	return nil
}

// pop removes the head and starts the head-of-queue clock of its successor
// at atMs.
func (q *eventQueue) pop(atMs int64) *queuedEvent {
	el := q.events.Front()
	if el == nil {
		return nil
	}
	q.events.Remove(el)
	if next := q.head(); next != nil {
		next.headMs = atMs
		next.headKnown = true
	}
	return el.Value.(*queuedEvent)
}

func (q *eventQueue) len() int {
	return q.events.Len()
}

// cancel drops every queued event and returns how many there were.
func (q *eventQueue) cancel() int {
	n := 0
	for el := q.events.Front(); el != nil; el = el.Next() {
		el.Value.(*queuedEvent).state = StateCancelled
		n++
	}
	q.events.Init()
	return n
}
