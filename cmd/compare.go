package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mushkilali/certifiable-bench/bench/compare"
	"github.com/mushkilali/certifiable-bench/bench/hash"
	"github.com/mushkilali/certifiable-bench/bench/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare <result-a.json> <result-b.json>",
	Short: "Gate two saved results on output-digest equality and report performance deltas",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		docA, err := report.LoadDocument(args[0])
		if err != nil {
			return err
		}
		docB, err := report.LoadDocument(args[1])
		if err != nil {
			return err
		}

		a, err := comparableFromDocument(docA)
		if err != nil {
			return fmt.Errorf("result %q: %w", args[0], err)
		}
		b, err := comparableFromDocument(docB)
		if err != nil {
			return fmt.Errorf("result %q: %w", args[1], err)
		}

		c := compare.Gate(a, b)

		fmt.Printf("outputs_identical=%v comparable=%v\n", c.OutputsIdentical, c.Comparable)
		if !c.Comparable {
			fmt.Println("results are not comparable: output hashes differ")
			return nil
		}

		fmt.Printf("latency_diff_ns=%+d latency_ratio=%.4f\n", c.LatencyDiffNs, compare.FormatQ16(c.LatencyRatioQ16))
		fmt.Printf("throughput_diff=%+d throughput_ratio=%.4f\n", c.ThroughputDiff, compare.FormatQ16(c.ThroughputRatioQ16))
		fmt.Printf("wcet_diff_ns=%+d wcet_ratio=%.4f\n", c.WCETDiffNs, compare.FormatQ16(c.WCETRatioQ16))
		return nil
	},
}

func comparableFromDocument(doc report.Document) (*compare.Comparable, error) {
	digest, err := hash.FromHex(doc.OutputHash)
	if err != nil {
		return nil, fmt.Errorf("malformed output_hash: %w", err)
	}
	return &compare.Comparable{
		OutputHash:       digest,
		Platform:         doc.Platform,
		P99Ns:            doc.Latency.P99Ns,
		InferencesPerSec: doc.Throughput.InferencesPerSec,
		WCETBoundNs:      doc.Latency.WCETBoundNs,
	}, nil
}
