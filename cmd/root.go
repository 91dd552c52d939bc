// Package cmd implements the certifiable-bench command-line driver: the
// process-wide harness named out of scope by the spec, built here as a
// concrete reference wiring of Runner, Comparator and golden reference
// persistence.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/mushkilali/certifiable-bench/bench/compare"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "certifiable-bench",
	Short: "Deterministic latency, throughput and WCET benchmark with cross-platform result binding",
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (debug, info, warn, error)")
	cobra.OnInitialize(func() {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(goldenCmd)
}
