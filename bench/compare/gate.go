package compare

import (
	"github.com/mushkilali/certifiable-bench/bench"
	"github.com/mushkilali/certifiable-bench/bench/hash"
)

// Q16Frac is the fractional-bit width of the fixed-point ratios this
// package persists (§4.5, §9 "integer ratio printing"). Ratios are never
// converted to floating point to make a decision; float conversion is
// permitted only at the final presentation boundary (see FormatQ16).
const Q16Frac = 16

// Comparison is the result of Gate: the equality verdict plus the
// performance deltas, all zero unless Comparable is true (§4.5's gate
// rule — "all performance deltas and ratios are zero" when not
// comparable, not merely hidden).
type Comparison struct {
	OutputsIdentical bool
	Comparable       bool

	LatencyDiffNs   int64
	LatencyRatioQ16 int64

	ThroughputDiff   int64
	ThroughputRatioQ16 int64

	WCETDiffNs   int64
	WCETRatioQ16 int64
}

// Gate implements spec §4.5: two results are comparable only if their
// output hashes are bit-identical, using the constant-time comparison
// from bench/hash (the hashes being compared here may themselves have
// been persisted to and loaded from a golden file, so the same
// side-channel argument applies). When not comparable, every
// performance field is left at its zero value — not computed, per the
// spec's explicit instruction.
func Gate(a, b *Comparable) Comparison {
	c := Comparison{
		OutputsIdentical: hash.Equal(a.OutputHash, b.OutputHash),
	}
	c.Comparable = c.OutputsIdentical
	if !c.Comparable {
		return c
	}

	c.LatencyDiffNs = b.P99Ns - a.P99Ns
	c.LatencyRatioQ16 = ratioQ16(b.P99Ns, a.P99Ns)

	c.ThroughputDiff = b.InferencesPerSec - a.InferencesPerSec
	c.ThroughputRatioQ16 = ratioQ16(b.InferencesPerSec, a.InferencesPerSec)

	c.WCETDiffNs = b.WCETBoundNs - a.WCETBoundNs
	c.WCETRatioQ16 = ratioQ16(b.WCETBoundNs, a.WCETBoundNs)

	return c
}

// Comparable is the minimal projection of a bench.Result the gate and
// ratio arithmetic need. Keeping it as its own small struct (rather than
// taking *bench.Result directly) lets the CLI and tests build one from a
// loaded golden/report file without depending on a live Runner.
type Comparable struct {
	OutputHash       hash.Digest
	Platform         string
	P99Ns            int64
	InferencesPerSec int64
	WCETBoundNs      int64
}

// FromResult projects the fields Gate needs out of a full bench.Result.
func FromResult(r *bench.Result) *Comparable {
	return &Comparable{
		OutputHash:       hash.Digest(r.OutputHash),
		Platform:         r.Platform,
		P99Ns:            r.Latency.P99Ns,
		InferencesPerSec: r.Throughput.InferencesPerSec,
		WCETBoundNs:      r.Latency.WCETBoundNs,
	}
}

// ratioQ16 computes (numerator << 16) / denominator as Q16.16, collapsing
// to 0 when denominator <= 0 rather than trapping (§4's "division-by-zero
// collapses the ratio to 0, never traps").
func ratioQ16(numerator, denominator int64) int64 {
	if denominator <= 0 {
		return 0
	}
	return (numerator << Q16Frac) / denominator
}

// FormatQ16 converts a Q16.16 fixed-point ratio to a float64 purely for
// human-readable printing (§9's "integer ratio printing" note): never
// call this to make a decision, branch, or persist a value.
func FormatQ16(q16 int64) float64 {
	return float64(q16) / float64(int64(1)<<Q16Frac)
}
