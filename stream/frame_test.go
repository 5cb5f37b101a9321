package stream

import (
	"encoding/binary"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	black = colorful.Color{}
	red   = colorful.Color{R: 1}
	blue  = colorful.Color{B: 1}
)

func TestMarshalBinary(t *testing.T) {
	f := NewFrame(3)
	f.Set(0, red)
	f.Set(2, blue)

	data, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if len(data) != 2+3*3 {
		t.Fatalf("expected 11 bytes, got %d", len(data))
	}
	if n := binary.LittleEndian.Uint16(data); n != 3 {
		t.Errorf("expected pixel count 3, got %d", n)
	}
	want := []byte{255, 0, 0, 0, 0, 0, 0, 0, 255}
	for i, b := range want {
		if data[2+i] != b {
			t.Errorf("byte %d: expected %d, got %d", 2+i, b, data[2+i])
		}
	}
}

func TestMarshalBinaryClampsColours(t *testing.T) {
	f := NewFrame(1)
	f.Set(0, colorful.Color{R: 1.5, G: -0.5, B: 0.5})
	data, _ := f.MarshalBinary()
	if data[2] != 255 || data[3] != 0 {
		t.Errorf("expected clamped channels, got %v", data[2:])
	}
}

func TestSetWraps(t *testing.T) {
	f := NewFrame(4)
	f.Set(-1, red)
	f.Set(5, blue)
	if f.At(3) != red {
		t.Errorf("expected -1 to wrap to 3, got %v", f.At(3))
	}
	if f.At(1) != blue {
		t.Errorf("expected 5 to wrap to 1, got %v", f.At(1))
	}
}

func TestInterpolateFrame(t *testing.T) {
	a := NewFrame(2)
	a.Fill(red)
	b := NewFrame(2)
	b.Fill(blue)

	if got := a.InterpolateFrame(b, 0).At(0); got.DistanceRgb(red) > 1e-3 {
		t.Errorf("expected red at 0, got %v", got)
	}
	if got := a.InterpolateFrame(b, 1).At(1); got.DistanceRgb(blue) > 1e-3 {
		t.Errorf("expected blue at 1, got %v", got)
	}
}
