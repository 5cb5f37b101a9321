package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledchart/chart"
)

// Command types accepted on the events topic.
const (
	CommandMove      = "move"
	CommandShow      = "show"
	CommandHide      = "hide"
	CommandColour    = "colour"
	CommandCancel    = "cancel"
	CommandReset     = "reset"
	CommandDeleteAll = "delete-all"
)

// ErrCommandQueueFull is returned by Submit when the controller is not
// keeping up.
var ErrCommandQueueFull = errors.New("command queue full")

// Command asks the controller to change the chart. Series are addressed by
// scene name, or by index when no name is given.
type Command struct {
	Type       string   `json:"type"`
	Series     string   `json:"series,omitempty"`
	Index      *int     `json:"index,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	Colour     string   `json:"colour,omitempty"`
	DelayMs    int64    `json:"delayMs,omitempty"`
	DurationMs int64    `json:"durationMs,omitempty"`
	Easing     string   `json:"easing,omitempty"`
}

// CompletionMessage is published when an event finishes.
type CompletionMessage struct {
	Series  string  `json:"series,omitempty"`
	Index   int     `json:"index"`
	EventID uint64  `json:"eventID"`
	Value   float64 `json:"value"`
	Visible bool    `json:"visible"`
	StartMs int64   `json:"startMs"`
	EndMs   int64   `json:"endMs"`
}

// DecodeCommand parses a JSON command.
func DecodeCommand(payload []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return cmd, fmt.Errorf("failed to decode command: %w", err)
	}
	if cmd.Type == "" {
		return cmd, errors.New("command type must be set")
	}
	return cmd, nil
}

func (cmd Command) options() ([]chart.EventOption, error) {
	opts := []chart.EventOption{
		chart.WithDelay(time.Duration(cmd.DelayMs) * time.Millisecond),
		chart.WithDuration(time.Duration(cmd.DurationMs) * time.Millisecond),
	}
	if cmd.Easing != "" {
		easing, err := chart.EasingByName(cmd.Easing)
		if err != nil {
			return nil, err
		}
		opts = append(opts, chart.WithEventEasing(easing))
	}
	return opts, nil
}

// event builds the chart event for an event command.
func (cmd Command) event(index chart.Index) (chart.EventSpec, error) {
	opts, err := cmd.options()
	if err != nil {
		return chart.EventSpec{}, err
	}
	switch cmd.Type {
	case CommandMove:
		if cmd.Value == nil {
			return chart.EventSpec{}, errors.New("move command needs a value")
		}
		return chart.NewMoveEvent(index, *cmd.Value, opts...)
	case CommandShow, CommandHide:
		if cmd.Value != nil {
			opts = append(opts, chart.WithValue(*cmd.Value))
		}
		return chart.NewVisibilityEvent(index, cmd.Type == CommandShow, opts...)
	case CommandColour:
		c, err := colorful.Hex(cmd.Colour)
		if err != nil {
			return chart.EventSpec{}, fmt.Errorf("bad colour %q: %w", cmd.Colour, err)
		}
		return chart.NewColourEvent(index, c, opts...)
	}
	return chart.EventSpec{}, fmt.Errorf("unknown command type %q", cmd.Type)
}
