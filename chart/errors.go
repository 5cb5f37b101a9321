package chart

import (
	"errors"
	"fmt"
)

// ErrInvalidRange indicates a series range where min is not below max.
var ErrInvalidRange = errors.New("minimum value must be less than maximum value")

// ErrInitialOutOfRange indicates an initial value outside min..max.
var ErrInitialOutOfRange = errors.New("initial value must be in the range of min..max")

// ErrDurationTooShort indicates an animation duration of 100ms or less.
var ErrDurationTooShort = errors.New("duration must be greater than 100ms")

// ErrNegativeDelay indicates an event delay below zero.
var ErrNegativeDelay = errors.New("delay must not be negative")

// ErrUnknownSeries indicates an index that does not reference a live series.
var ErrUnknownSeries = errors.New("unknown series")

// ErrTargetOutOfRange indicates an event value outside the target series range.
var ErrTargetOutOfRange = errors.New("target value outside series range")

// ErrEmptyEvent indicates an event that changes neither value, visibility nor colour.
var ErrEmptyEvent = errors.New("event has nothing to change")

// Stage names the listener call that failed.
type Stage string

const (
	StageStart    Stage = "start"
	StageProgress Stage = "progress"
	StageEnd      Stage = "end"
)

// ListenerError wraps a failure raised by a listener during Advance.
type ListenerError struct {
	Index   Index
	EventID EventID
	Stage   Stage
	Err     error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("%s listener for series %d (event %d): %v", e.Stage, e.Index, e.EventID, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// guard runs fn, converting a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
