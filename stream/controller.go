package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/matt-g-everett/ledchart/chart"
	"github.com/matt-g-everett/ledchart/scene"
	"github.com/robfig/cron/v3"
)

const commandQueueSize = 64

// Controller drives a chart engine from the frame loop. Commands arrive on
// any goroutine through Submit and are applied at the start of the next
// frame; everything touching the engine happens inside CalculateFrame.
type Controller struct {
	engine *chart.Engine
	ring   *Ring

	scene    *scene.Scene
	binding  scene.Binding
	names    map[chart.Index]string
	inFlight map[chart.EventID]bool

	replay     cron.Schedule
	nextReplay time.Time
	start      time.Time

	commands chan Command

	publisher        Publisher
	completionsTopic string

	transitionMs int64
	fadeFrom     *Frame
	fadeStartMs  int64
	lastFrame    *Frame

	mu       sync.RWMutex
	snapshot []chart.SeriesState

	logger *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithControllerLogger sets the logger used by the controller.
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCompletions publishes a CompletionMessage to topic for every finished
// event.
func WithCompletions(p Publisher, topic string) ControllerOption {
	return func(c *Controller) {
		c.publisher = p
		c.completionsTopic = topic
	}
}

// WithStartTime sets the wall clock time matching runtime 0, used for cron
// replays.
func WithStartTime(t time.Time) ControllerOption {
	return func(c *Controller) {
		c.start = t
	}
}

// WithTransition crossfades between frames for ms after a replay.
func WithTransition(ms int64) ControllerOption {
	return func(c *Controller) {
		c.transitionMs = ms
	}
}

// NewController creates an instance of a Controller.
func NewController(engine *chart.Engine, ring *Ring, opts ...ControllerOption) *Controller {
	c := new(Controller)
	c.engine = engine
	c.ring = ring
	c.binding = make(scene.Binding)
	c.names = make(map[chart.Index]string)
	c.inFlight = make(map[chart.EventID]bool)
	c.commands = make(chan Command, commandQueueSize)
	c.start = time.Now()
	c.logger = slog.Default()
	for _, opt := range opts {
		opt(c)
	}
	c.snapshot = engine.Snapshot()
	return c
}

// LoadScene installs a scene's series and queues its events. It must be
// called before frames are being calculated.
func (c *Controller) LoadScene(s *scene.Scene) error {
	if s.Replay != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		schedule, err := parser.Parse(s.Replay)
		if err != nil {
			return fmt.Errorf("invalid replay schedule %q: %w", s.Replay, err)
		}
		c.replay = schedule
		c.nextReplay = schedule.Next(c.start)
	}

	b, err := s.Install(c.engine)
	if err != nil {
		return err
	}
	c.scene = s
	c.binding = b
	c.names = b.Names()
	if err := c.submitScene(); err != nil {
		return err
	}
	c.snapshot = c.engine.Snapshot()
	c.logger.Info("Scene loaded", "series", len(s.Series), "events", len(s.Events), "loop", s.Loop, "replay", s.Replay)
	return nil
}

func (c *Controller) submitScene() error {
	ids, err := c.scene.Submit(c.engine, c.binding)
	for _, id := range ids {
		c.inFlight[id] = true
	}
	return err
}

// Submit queues a command for the next frame.
func (c *Controller) Submit(cmd Command) error {
	select {
	case c.commands <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Snapshot returns the series state as of the last frame. Safe for
// concurrent use.
func (c *Controller) Snapshot() []chart.SeriesState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]chart.SeriesState, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// Name returns the scene name of a series, if it has one.
func (c *Controller) Name(index chart.Index) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names[index]
}

// Step applies queued commands, handles replays and advances the engine to
// runtimeMs.
func (c *Controller) Step(runtimeMs int64) chart.TickReport {
	c.drainCommands()

	if c.replay != nil {
		now := c.start.Add(time.Duration(runtimeMs) * time.Millisecond)
		if !now.Before(c.nextReplay) {
			c.replayScene(runtimeMs)
			c.nextReplay = c.replay.Next(now)
		}
	}

	r := c.engine.Advance(runtimeMs)
	c.handleCompletions(r)

	c.mu.Lock()
	c.snapshot = c.engine.Snapshot()
	c.mu.Unlock()
	return r
}

// CalculateFrame steps the chart and renders it.
func (c *Controller) CalculateFrame(runtimeMs int64) *Frame {
	c.Step(runtimeMs)
	f := c.ring.Render(c.Snapshot())

	if c.fadeFrom != nil {
		t := float64(runtimeMs-c.fadeStartMs) / float64(c.transitionMs)
		if t >= 1 {
			c.fadeFrom = nil
		} else {
			f = c.fadeFrom.InterpolateFrame(f, t)
		}
	}
	c.lastFrame = f
	return f
}

func (c *Controller) replayScene(runtimeMs int64) {
	c.logger.Info("Replaying scene", "runtimeMs", runtimeMs)
	c.engine.Reset()
	// Nothing is busy after a reset, so this only moves the engine clock and
	// the resubmitted events are timed from the replay.
	c.engine.Advance(runtimeMs)
	c.inFlight = make(map[chart.EventID]bool)
	if c.scene != nil {
		if err := c.submitScene(); err != nil {
			c.logger.Warn("Failed to resubmit scene", "error", err)
		}
	}
	if c.transitionMs > 0 && c.lastFrame != nil {
		c.fadeFrom = c.lastFrame
		c.fadeStartMs = runtimeMs
	}
}

func (c *Controller) handleCompletions(r chart.TickReport) {
	looped := false
	for _, info := range r.Completed {
		if c.inFlight[info.ID] {
			delete(c.inFlight, info.ID)
			looped = len(c.inFlight) == 0
		}
		c.publishCompletion(info)
	}

	if looped && c.scene != nil && c.scene.Loop {
		c.logger.Debug("Scene complete, looping")
		if err := c.submitScene(); err != nil {
			c.logger.Warn("Failed to resubmit scene", "error", err)
		}
	}
}

func (c *Controller) publishCompletion(info chart.EventInfo) {
	if c.publisher == nil {
		return
	}
	msg := CompletionMessage{
		Series:  c.names[info.Index],
		Index:   int(info.Index),
		EventID: uint64(info.ID),
		StartMs: info.StartMs,
		EndMs:   info.EndMs,
	}
	if s, err := c.engine.Series(info.Index); err == nil {
		msg.Value = s.Value
		msg.Visible = s.Visible
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.Warn("Failed to encode completion", "error", err)
		return
	}
	if err := c.publisher.Publish(c.completionsTopic, payload); err != nil {
		c.logger.Warn("Failed to publish completion", "topic", c.completionsTopic, "error", err)
	}
}

func (c *Controller) drainCommands() {
	for {
		select {
		case cmd := <-c.commands:
			if err := c.apply(cmd); err != nil {
				c.logger.Warn("Command rejected", "type", cmd.Type, "series", cmd.Series, "error", err)
			}
		default:
			return
		}
	}
}

func (c *Controller) resolve(cmd Command) (chart.Index, error) {
	if cmd.Series != "" {
		index, ok := c.binding[cmd.Series]
		if !ok {
			return 0, fmt.Errorf("series %q: %w", cmd.Series, chart.ErrUnknownSeries)
		}
		return index, nil
	}
	if cmd.Index == nil {
		return 0, fmt.Errorf("command %s needs a series or index", cmd.Type)
	}
	return chart.Index(*cmd.Index), nil
}

func (c *Controller) apply(cmd Command) error {
	switch cmd.Type {
	case CommandReset:
		c.engine.Reset()
		c.inFlight = make(map[chart.EventID]bool)
		// The cancelled events never complete, so a looping scene restarts here.
		if c.scene != nil && c.scene.Loop {
			return c.submitScene()
		}
		return nil
	case CommandDeleteAll:
		c.engine.DeleteAll()
		c.inFlight = make(map[chart.EventID]bool)
		c.binding = make(scene.Binding)
		c.scene = nil
		c.mu.Lock()
		c.names = make(map[chart.Index]string)
		c.mu.Unlock()
		return nil
	}

	index, err := c.resolve(cmd)
	if err != nil {
		return err
	}
	if cmd.Type == CommandCancel {
		n, err := c.engine.CancelEvents(index)
		if err != nil {
			return err
		}
		c.logger.Debug("Events cancelled", "series", index, "count", n)
		return nil
	}

	spec, err := cmd.event(index)
	if err != nil {
		return err
	}
	_, err = c.engine.AddEvent(spec)
	return err
}
