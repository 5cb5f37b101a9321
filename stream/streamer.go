package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// An Animation implements a way to render frames over time.
type Animation interface {
	CalculateFrame(runtimeMs int64) *Frame
}

// Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	publisher Publisher
	animation Animation
	topic     string
	interval  time.Duration
	logger    *slog.Logger
}

// NewStreamer creates an instance of a Streamer publishing at the configured
// frame rate.
func NewStreamer(config Config, publisher Publisher, animation Animation, logger *slog.Logger) *Streamer {
	s := new(Streamer)
	s.publisher = publisher
	s.animation = animation
	s.topic = config.Mqtt.Topics.Stream
	s.interval = time.Duration(float64(time.Second) / config.Frame.RateHz)
	s.logger = logger
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// SendFrame renders the frame for runtimeMs and publishes it.
func (s *Streamer) SendFrame(runtimeMs int64) error {
	f := s.animation.CalculateFrame(runtimeMs)
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(s.topic, b); err != nil {
		return fmt.Errorf("failed to publish frame: %w", err)
	}
	return nil
}

// Run causes the Streamer to send Frames until ctx is cancelled. Runtime is
// measured from the call to Run.
func (s *Streamer) Run(ctx context.Context) error {
	start := time.Now()
	publishTimer := time.NewTicker(s.interval)
	defer publishTimer.Stop()

	s.logger.Info("Streaming", "topic", s.topic, "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Streaming stopped")
			return ctx.Err()
		case <-publishTimer.C:
			if err := s.SendFrame(time.Since(start).Milliseconds()); err != nil {
				s.logger.Warn("Frame dropped", "error", err)
			}
		}
	}
}
