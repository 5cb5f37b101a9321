package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ledchart",
	Short: "Animated progress charts for LED rings",
	Long: `ledchart animates ranged series (donuts, pies, lines and points) by
running queued events against them, and streams the result to an ledrx
device over MQTT.

Use "run" to stream a scene to a device, or "simulate" to sample a scene
without any hardware and print or export the result.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
