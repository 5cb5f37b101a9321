package cmd

import (
	"fmt"
	"time"

	"github.com/matt-g-everett/ledchart/chart"
	"github.com/matt-g-everett/ledchart/report"
	"github.com/matt-g-everett/ledchart/scene"
	"github.com/spf13/cobra"
)

var (
	sceneFile     string
	duration      time.Duration
	step          time.Duration
	xlsxFile      string
	showSummary   bool
	showTimeline  bool
	timelineLimit int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Sample a scene without hardware",
	Long: `simulate runs a scene against a simulated clock and prints a chart of
every series over time. Loops and replays are not simulated; each event of
the scene runs once.`,
	RunE: runSimulation,
}

func init() {
	simulateCmd.Flags().StringVarP(&sceneFile, "scene", "s", "scene.yaml", "Path to scene file")
	simulateCmd.Flags().DurationVarP(&duration, "duration", "d", 20*time.Second, "Simulated time to run for")
	simulateCmd.Flags().DurationVar(&step, "step", 100*time.Millisecond, "Time between samples")
	simulateCmd.Flags().StringVarP(&xlsxFile, "xlsx", "x", "", "Export samples to this spreadsheet")
	simulateCmd.Flags().BoolVar(&showSummary, "summary", true, "Show event summary")
	simulateCmd.Flags().BoolVarP(&showTimeline, "timeline", "t", false, "Show completed events")
	simulateCmd.Flags().IntVarP(&timelineLimit, "timeline-limit", "l", 50, "Limit number of timeline events to display")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if step < time.Millisecond {
		return fmt.Errorf("step must be at least 1ms, got %s", step)
	}
	s, err := scene.Load(sceneFile)
	if err != nil {
		return err
	}

	logger := newLogger(verbose)
	engine := chart.NewEngine(chart.WithLogger(logger), chart.WithVerbose(verbose))
	binding, err := s.Install(engine)
	if err != nil {
		return err
	}
	if _, err := s.Submit(engine, binding); err != nil {
		return err
	}
	names := binding.Names()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded scene from %s\n", sceneFile)
	fmt.Fprintf(out, "  - Series: %d\n", len(s.Series))
	fmt.Fprintf(out, "  - Events: %d\n", len(s.Events))
	fmt.Fprintf(out, "  - Duration: %s (step %s)\n", duration, step)

	rec := new(report.Recorder)
	for now := int64(0); now <= duration.Milliseconds(); now += step.Milliseconds() {
		rec.Record(engine.Advance(now), engine.Snapshot())
	}

	gen := report.NewGenerator()
	fmt.Fprintln(out, gen.GenerateValueChart(rec.Samples, names))
	if showSummary {
		fmt.Fprintln(out, gen.GenerateEventSummary(rec, names))
	}
	if showTimeline {
		fmt.Fprintln(out, gen.GenerateTimeline(rec.Completed, names, timelineLimit))
	}

	if xlsxFile != "" {
		if err := report.ExportXLSX(xlsxFile, rec.Samples, names); err != nil {
			return err
		}
		fmt.Fprintf(out, "Samples written to %s\n", xlsxFile)
	}
	return nil
}
