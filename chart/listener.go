package chart

// ObserverID identifies a progress observer attached to a series.
type ObserverID uint64

// Progress is delivered to observers on every Advance while an event is
// active on their series, including the first (0%) and last (100%) calls.
type Progress struct {
	Index   Index
	EventID EventID
	// Percent is the eased completion of the active event.
	Percent float64
	Value   float64
	Reveal  float64
}

// ProgressFunc observes series progress.
type ProgressFunc func(Progress) error

type observer struct {
	id ObserverID
	fn ProgressFunc
}

// Observe attaches fn to series index. Observers are called in the order
// they were attached.
func (e *Engine) Observe(index Index, fn ProgressFunc) (ObserverID, error) {
	s, ok := e.series[index]
	if !ok {
		return 0, ErrUnknownSeries
	}
	e.nextObserver++
	s.observers = append(s.observers, observer{id: e.nextObserver, fn: fn})
	return e.nextObserver, nil
}

// Unobserve detaches an observer. It reports whether one was removed.
func (e *Engine) Unobserve(index Index, id ObserverID) bool {
	s, ok := e.series[index]
	if !ok {
		return false
	}
	for i, o := range s.observers {
		if o.id == id {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Engine) notifyProgress(s *series, ev *queuedEvent, p Progress, r *TickReport) {
	// Observers may attach or detach others while being called.
	observers := make([]observer, len(s.observers))
	copy(observers, s.observers)
	for _, o := range observers {
		fn := o.fn
		if err := guard(func() error { return fn(p) }); err != nil {
			e.listenerFailed(r, s.index, ev.id, StageProgress, err)
		}
	}
}

func (e *Engine) notifyEvent(fn EventListener, ev *queuedEvent, stage Stage, r *TickReport) {
	if fn == nil {
		return
	}
	info := ev.info()
	if err := guard(func() error { return fn(info) }); err != nil {
		e.listenerFailed(r, ev.spec.Index, ev.id, stage, err)
	}
}

func (e *Engine) listenerFailed(r *TickReport, index Index, id EventID, stage Stage, err error) {
	lerr := &ListenerError{Index: index, EventID: id, Stage: stage, Err: err}
	r.Failures = append(r.Failures, lerr)
	e.logger.Warn("listener failed", "series", index, "event", id, "stage", stage, "error", err)
}
