// Package report turns sampled chart runs into text charts, summaries and
// spreadsheets.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matt-g-everett/ledchart/chart"
)

const (
	chartWidth  = 80
	chartHeight = 10
)

// Sample is the state of every series at one point of a run.
type Sample struct {
	RuntimeMs int64
	Series    []chart.SeriesState
}

// Recorder collects samples and tick reports during a run.
type Recorder struct {
	Samples   []Sample
	Started   []chart.EventInfo
	Completed []chart.EventInfo
	Failures  []error
}

// Record adds one tick.
func (r *Recorder) Record(tick chart.TickReport, states []chart.SeriesState) {
	r.Samples = append(r.Samples, Sample{RuntimeMs: tick.NowMs, Series: states})
	r.Started = append(r.Started, tick.Started...)
	r.Completed = append(r.Completed, tick.Completed...)
	r.Failures = append(r.Failures, tick.Failures...)
}

// Generator generates ASCII charts
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a new chart generator
func NewGenerator() *Generator {
	return &Generator{
		width:  chartWidth,
		height: chartHeight,
	}
}

// seriesName falls back to the index for unnamed series.
func seriesName(names map[chart.Index]string, index chart.Index) string {
	if name, ok := names[index]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", index)
}

// indexes lists every series seen in the samples, in order.
func indexes(samples []Sample) []chart.Index {
	seen := make(map[chart.Index]bool)
	var out []chart.Index
	for _, s := range samples {
		for _, st := range s.Series {
			if !seen[st.Index] {
				seen[st.Index] = true
				out = append(out, st.Index)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func find(states []chart.SeriesState, index chart.Index) (chart.SeriesState, bool) {
	for _, st := range states {
		if st.Index == index {
			return st, true
		}
	}
	return chart.SeriesState{}, false
}

// GenerateValueChart draws one block per series showing its percentage of
// range over the run. Hidden samples are drawn with '.'.
func (g *Generator) GenerateValueChart(samples []Sample, names map[chart.Index]string) string {
	if len(samples) == 0 {
		return "No data to display"
	}

	var sb strings.Builder
	columns := g.width - 6
	if len(samples) < columns {
		columns = len(samples)
	}

	for _, index := range indexes(samples) {
		sb.WriteString("\n")
		sb.WriteString(seriesName(names, index))
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", g.width))
		sb.WriteString("\n")

		for row := g.height; row >= 1; row-- {
			threshold := float64(row) / float64(g.height)
			sb.WriteString(fmt.Sprintf("%3d%%|", row*100/g.height))
			for x := 0; x < columns; x++ {
				pointIndex := 0
				if columns > 1 {
					pointIndex = int(float64(x) / float64(columns-1) * float64(len(samples)-1))
				}
				st, ok := find(samples[pointIndex].Series, index)
				switch {
				case !ok || st.Percent < threshold-0.5/float64(g.height):
					sb.WriteString(" ")
				case !st.Visible:
					sb.WriteString(".")
				default:
					sb.WriteString("█")
				}
			}
			sb.WriteString("\n")
		}

		sb.WriteString("    +")
		sb.WriteString(strings.Repeat("-", columns))
		sb.WriteString("\n")
		first, last := samples[0].RuntimeMs, samples[len(samples)-1].RuntimeMs
		end := FormatMs(last)
		gap := columns - len(FormatMs(first)) - len(end)
		if gap < 1 {
			gap = 1
		}
		sb.WriteString("     ")
		sb.WriteString(FormatMs(first))
		sb.WriteString(strings.Repeat(" ", gap))
		sb.WriteString(end)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	return sb.String()
}

// GenerateEventSummary generates a summary of events per series
func (g *Generator) GenerateEventSummary(r *Recorder, names map[chart.Index]string) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Event Summary\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	started := make(map[chart.Index]int)
	for _, ev := range r.Started {
		started[ev.Index]++
	}
	completed := make(map[chart.Index]int)
	for _, ev := range r.Completed {
		completed[ev.Index]++
	}

	sb.WriteString(fmt.Sprintf("Events Started: %d\n", len(r.Started)))
	sb.WriteString(fmt.Sprintf("Events Completed: %d\n", len(r.Completed)))
	sb.WriteString(fmt.Sprintf("Listener Failures: %d\n", len(r.Failures)))

	var final []chart.SeriesState
	if len(r.Samples) > 0 {
		final = r.Samples[len(r.Samples)-1].Series
	}
	for _, index := range indexes(r.Samples) {
		line := fmt.Sprintf("  - %s: %d started, %d completed", seriesName(names, index), started[index], completed[index])
		if st, ok := find(final, index); ok {
			line += fmt.Sprintf(", final value %.2f", st.Value)
			if !st.Visible {
				line += " (hidden)"
			}
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateTimeline lists completed events in the order they finished.
func (g *Generator) GenerateTimeline(completed []chart.EventInfo, names map[chart.Index]string, limit int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Timeline")
	if limit > 0 && limit < len(completed) {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", limit))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	displayCount := len(completed)
	if limit > 0 && limit < displayCount {
		displayCount = limit
	}
	for _, ev := range completed[:displayCount] {
		sb.WriteString(fmt.Sprintf("[%s - %s] %s %s\n",
			FormatMs(ev.StartMs), FormatMs(ev.EndMs), seriesName(names, ev.Index), describe(ev.Spec)))
	}
	if limit > 0 && limit < len(completed) {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", len(completed)-limit))
	}
	sb.WriteString("\n")

	return sb.String()
}

func describe(spec chart.EventSpec) string {
	var parts []string
	if spec.HasValue {
		parts = append(parts, fmt.Sprintf("-> %.2f", spec.Value))
	}
	switch spec.Visibility {
	case chart.VisibilityShow:
		parts = append(parts, "show")
	case chart.VisibilityHide:
		parts = append(parts, "hide")
	}
	if spec.HasColour {
		parts = append(parts, "colour "+spec.Colour.Hex())
	}
	return strings.Join(parts, ", ")
}

// FormatMs formats a runtime in a human-readable way
func FormatMs(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%dm%ds", ms/60000, (ms%60000)/1000)
}
