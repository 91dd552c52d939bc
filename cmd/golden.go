package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mushkilali/certifiable-bench/bench/golden"
	"github.com/mushkilali/certifiable-bench/bench/hash"
	"github.com/mushkilali/certifiable-bench/bench/report"
)

var goldenCmd = &cobra.Command{
	Use:   "golden <result.json> <golden.yaml>",
	Short: "Create or verify a golden reference file from a saved result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := report.LoadDocument(args[0])
		if err != nil {
			return err
		}
		digest, err := hash.FromHex(doc.OutputHash)
		if err != nil {
			return fmt.Errorf("malformed output_hash in %q: %w", args[0], err)
		}

		if existing, loadErr := golden.LoadFile(args[1]); loadErr == nil {
			existingDigest, err := golden.OutputHashDigest(existing)
			if err != nil {
				return err
			}
			if hash.Equal(digest, existingDigest) {
				fmt.Println("output_hash matches golden reference: deterministic")
			} else {
				fmt.Println("output_hash DOES NOT match golden reference: not deterministic")
			}
			return nil
		}

		ref := golden.FromRun(digest, doc.Latency.SampleCount, 0, doc.Platform)
		if err := golden.SaveFile(args[1], ref); err != nil {
			return err
		}
		fmt.Printf("wrote golden reference to %s\n", args[1])
		return nil
	},
}
