package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

type solid struct {
	frames []int64
}

func (s *solid) CalculateFrame(runtimeMs int64) *Frame {
	s.frames = append(s.frames, runtimeMs)
	f := NewFrame(4)
	f.Fill(red)
	return f
}

func testConfig() Config {
	var c Config
	c.Mqtt.URL = "tcp://localhost:1883"
	c.applyDefaults()
	c.Frame.RateHz = 100
	return c
}

func TestSendFrame(t *testing.T) {
	p := new(recordingPublisher)
	a := new(solid)
	s := NewStreamer(testConfig(), p, a, nil)

	if err := s.SendFrame(42); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(a.frames) != 1 || a.frames[0] != 42 {
		t.Errorf("unexpected frames %v", a.frames)
	}
	if len(p.messages) != 1 || p.messages[0].topic != "ledchart/stream" {
		t.Fatalf("unexpected messages %v", p.messages)
	}
	if n := binary.LittleEndian.Uint16(p.messages[0].payload); n != 4 {
		t.Errorf("expected 4 pixels, got %d", n)
	}
}

func TestSendFrameReportsPublishErrors(t *testing.T) {
	p := &recordingPublisher{err: errors.New("offline")}
	s := NewStreamer(testConfig(), p, new(solid), nil)
	if err := s.SendFrame(0); err == nil {
		t.Error("expected publish error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	p := new(recordingPublisher)
	a := new(solid)
	s := NewStreamer(testConfig(), p, a, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if len(p.messages) == 0 {
		t.Fatal("expected frames to be published")
	}
	for i := 1; i < len(a.frames); i++ {
		if a.frames[i] < a.frames[i-1] {
			t.Errorf("runtime went backwards: %v", a.frames)
		}
	}
}

func TestCommandSubscriberSubmits(t *testing.T) {
	c := newTestController(t, single)
	sub := NewCommandSubscriber(nil, "events", c, nil)

	sub.handlePayload([]byte(`{"type":"move","series":"cpu","value":30,"durationMs":500}`))
	sub.handlePayload([]byte(`not json`))
	sub.handlePayload([]byte(`{"series":"cpu"}`))

	if len(c.commands) != 1 {
		t.Fatalf("expected one queued command, got %d", len(c.commands))
	}
	c.Step(0)
	if n, _ := c.engine.Pending(0); n != 2 {
		t.Errorf("expected scene event plus command, got %d pending", n)
	}
}
