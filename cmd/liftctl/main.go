// Liftctl is the offline companion CLI: it works directly against the
// local anchor state file, so day labels, adjustment decisions, and
// warm-up plans are available without a running server.
package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var stateDir string

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))

	root := &cobra.Command{
		Use:           "liftctl",
		Short:         "LiftCycle training adaptation CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&stateDir, "state-dir", defaultStateDir(), "directory holding the anchor state database")

	root.AddCommand(anchorCmd(), labelCmd(), adjustCmd(), warmupCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func defaultStateDir() string {
	if dir := os.Getenv("LIFTCYCLE_STATE_DIR"); dir != "" {
		return dir
	}
	return "data"
}
