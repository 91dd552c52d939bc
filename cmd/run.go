package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mushkilali/certifiable-bench/bench"
	"github.com/mushkilali/certifiable-bench/bench/golden"
	"github.com/mushkilali/certifiable-bench/bench/hash"
	"github.com/mushkilali/certifiable-bench/bench/probe"
	"github.com/mushkilali/certifiable-bench/bench/report"
)

var (
	runConfigPath    string
	runOutputPath    string
	runGoldenPath    string
	runOutputSize    int
	runWarmup        int
	runMeasure       int
	runBatchSize     int
	runVerify        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark against the built-in demo inference routine",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := bench.ConfigDefault()
		if runConfigPath != "" {
			loaded, err := bench.LoadConfig(runConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("warmup") {
			cfg.WarmupIterations = runWarmup
		}
		if cmd.Flags().Changed("measure") {
			cfg.MeasureIterations = runMeasure
		}
		if cmd.Flags().Changed("batch-size") {
			cfg.BatchSize = runBatchSize
		}
		if cmd.Flags().Changed("verify") {
			cfg.VerifyOutputs = runVerify
		}

		samples := make([]int64, cfg.MeasureIterations)
		input := make([]byte, 64)
		output := make([]byte, runOutputSize)

		opts := bench.RunnerOptions{
			EnvProbe:      probe.Env{},
			PlatformProbe: probe.Platform{},
			HWProbe:       probe.HWCounters{},
		}

		var goldenHash *[32]byte
		goldenAbsent := false
		if runGoldenPath != "" {
			ref, err := golden.LoadFile(runGoldenPath)
			if err == nil {
				digest, err := golden.OutputHashDigest(ref)
				if err != nil {
					return err
				}
				raw := [32]byte(digest)
				goldenHash = &raw
			} else {
				if _, statErr := os.Stat(runGoldenPath); errors.Is(statErr, os.ErrNotExist) {
					goldenAbsent = true
				}
				logrus.Warnf("golden reference %q unreadable, running without verification gate: %v", runGoldenPath, err)
			}
		}

		res, err := bench.RunFull(cfg, samples, len(samples), opts, demoInference, nil, input, output, goldenHash, int64(runOutputSize))
		if err != nil {
			return fmt.Errorf("benchmark run failed: %w", err)
		}

		logrus.Infof("platform=%s p99=%dns wcet_bound=%dns faults=%s valid=%v",
			res.Platform, res.Latency.P99Ns, res.Latency.WCETBoundNs, res.Faults, res.IsValid())

		if runOutputPath != "" {
			if err := report.SaveResult(res, runOutputPath); err != nil {
				return err
			}
		} else {
			doc, err := report.Marshal(report.FromResult(res))
			if err != nil {
				return err
			}
			fmt.Println(string(doc))
		}

		if goldenAbsent {
			// No existing golden reference: this run establishes one.
			ref := golden.FromRun(hash.Digest(res.OutputHash), res.Latency.SampleCount, int64(runOutputSize), res.Platform)
			if err := golden.SaveFile(runGoldenPath, ref); err != nil {
				return err
			}
			logrus.Infof("wrote new golden reference to %s", runGoldenPath)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to a YAML config file (overrides defaults)")
	runCmd.Flags().StringVar(&runOutputPath, "output", "", "Path to write the JSON result report (default: stdout)")
	runCmd.Flags().StringVar(&runGoldenPath, "golden", "", "Path to a golden reference file to verify against (or create if absent)")
	runCmd.Flags().IntVar(&runOutputSize, "output-size", 32, "Size in bytes of the inference routine's output buffer")
	runCmd.Flags().IntVar(&runWarmup, "warmup", 100, "Warmup iterations")
	runCmd.Flags().IntVar(&runMeasure, "measure", 1000, "Measured iterations")
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 1, "Batch size")
	runCmd.Flags().BoolVar(&runVerify, "verify", true, "Verify outputs via streaming hash")
}
