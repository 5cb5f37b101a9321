package util

import (
	"github.com/fogleman/ease"
)

// Clamp limits v to lo..hi.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// GenerateLut builds a fade look-up table of the given length running from 1
// down to 0 along fn. A nil fn uses ease.InOutQuad.
func GenerateLut(length int, fn func(float64) float64) []float64 {
	if fn == nil {
		fn = ease.InOutQuad
	}
	lut := make([]float64, length)
	if length == 1 {
		lut[0] = 1
		return lut
	}
	for i := 0; i < length; i++ {
		value := float64(i) / float64(length-1)
		lut[i] = 1 - fn(value)
	}
	return lut
}
