package stats

import (
	"math"
	"testing"
)

// TestPercentile_S3 is spec scenario S3.
func TestPercentile_S3(t *testing.T) {
	samples := []int64{100, 200, 300, 400, 500}
	tests := []struct {
		p    int
		want int64
	}{
		{0, 100},
		{25, 200},
		{50, 300},
		{75, 400},
		{100, 500},
	}
	for _, tt := range tests {
		if got := Percentile(samples, tt.p); got != tt.want {
			t.Errorf("Percentile(samples, %d) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

// TestDetectOutliersMAD_S4 is spec scenario S4: exactly one outlier, at index 4.
func TestDetectOutliersMAD_S4(t *testing.T) {
	samples := []int64{100, 110, 120, 130, 1000}
	sortedScratch := make([]int64, len(samples))
	devScratch := make([]int64, len(samples))
	flags := make([]bool, len(samples))

	count, err := DetectOutliersMAD(samples, sortedScratch, devScratch, flags)
	if err != nil {
		t.Fatalf("DetectOutliersMAD: %v", err)
	}
	if count != 1 {
		t.Fatalf("outlier count = %d, want 1", count)
	}
	for i, flagged := range flags {
		want := i == 4
		if flagged != want {
			t.Errorf("flags[%d] = %v, want %v", i, flagged, want)
		}
	}
}

// TestDetectOutliersMAD_AllIdentical is spec invariant #4: if all samples
// are equal, the flagged-outlier count is 0 (MAD == 0 means "flag nothing").
func TestDetectOutliersMAD_AllIdentical(t *testing.T) {
	samples := make([]int64, 10)
	for i := range samples {
		samples[i] = 42
	}
	sortedScratch := make([]int64, len(samples))
	devScratch := make([]int64, len(samples))
	flags := make([]bool, len(samples))

	count, err := DetectOutliersMAD(samples, sortedScratch, devScratch, flags)
	if err != nil {
		t.Fatalf("DetectOutliersMAD: %v", err)
	}
	if count != 0 {
		t.Errorf("outlier count = %d, want 0 for identical samples", count)
	}
}

func TestDetectOutliersMAD_ScratchSizeMismatch(t *testing.T) {
	samples := []int64{1, 2, 3}
	_, err := DetectOutliersMAD(samples, make([]int64, 2), make([]int64, 3), make([]bool, 3))
	if err != ErrScratchSizeMismatch {
		t.Errorf("got err %v, want ErrScratchSizeMismatch", err)
	}
}

// TestComputeStats_Invariants checks spec invariant #2 across a range of
// sample sets: min <= median <= max, min <= mean <= max, p50 <= p95 <= p99 <= max.
func TestComputeStats_Invariants(t *testing.T) {
	cases := [][]int64{
		{5},
		{5, 5},
		{1, 2, 3, 4, 5},
		{100, 110, 120, 130, 1000},
		{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
	}
	for _, c := range cases {
		cp := append([]int64(nil), c...)
		s, err := ComputeStats(cp)
		if err != nil {
			t.Fatalf("ComputeStats(%v): %v", c, err)
		}
		if !(s.Min <= s.Median && s.Median <= s.Max) {
			t.Errorf("case %v: min<=median<=max violated: %+v", c, s)
		}
		if !(s.Min <= s.Mean && s.Mean <= s.Max) {
			t.Errorf("case %v: min<=mean<=max violated: %+v", c, s)
		}
		if !(s.Median <= s.P95 && s.P95 <= s.P99 && s.P99 <= s.Max) {
			t.Errorf("case %v: p50<=p95<=p99<=max violated: %+v", c, s)
		}
	}
}

func TestComputeStats_EmptyIsErrNoSamples(t *testing.T) {
	_, err := ComputeStats(nil)
	if err != ErrNoSamples {
		t.Errorf("ComputeStats(nil): got %v, want ErrNoSamples", err)
	}
}

func TestComputeStats_WCETObservedIsMax(t *testing.T) {
	samples := []int64{5, 50, 500, 5000}
	s, err := ComputeStats(samples)
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if s.WCETObserved != s.Max {
		t.Errorf("WCETObserved = %d, want Max = %d", s.WCETObserved, s.Max)
	}
	if s.WCETBound < s.Max {
		t.Errorf("WCETBound = %d, should be >= Max = %d", s.WCETBound, s.Max)
	}
}

func TestWCETBound_Overflow(t *testing.T) {
	bound, overflow := WCETBound(int64(1)<<62, int64(1)<<61)
	if !overflow {
		t.Fatal("expected overflow for max+6*stddev near MaxInt64")
	}
	if bound != int64(1)<<62 {
		t.Errorf("on overflow, bound should saturate to max; got %d", bound)
	}
}

func TestHistogram_Conservation(t *testing.T) {
	samples := []int64{-5, 0, 1, 5, 9, 10, 15, 100}
	bins := make([]int64, 10)
	underflow, overflow, err := BuildHistogram(samples, 0, 10, bins)
	if err != nil {
		t.Fatalf("BuildHistogram: %v", err)
	}
	var total int64
	for _, c := range bins {
		total += c
	}
	total += underflow + overflow
	if total != int64(len(samples)) {
		t.Errorf("conservation violated: bins+under+over = %d, want %d", total, len(samples))
	}
	if underflow != 1 {
		t.Errorf("underflow = %d, want 1 (the -5 sample)", underflow)
	}
	if overflow != 3 {
		t.Errorf("overflow = %d, want 3 (the 10, 15 and 100 samples, half-open at max)", overflow)
	}
}

func TestBuildHistogram_InvalidRange(t *testing.T) {
	bins := make([]int64, 4)
	if _, _, err := BuildHistogram([]int64{1, 2}, 10, 10, bins); err != ErrInvalidHistogramRange {
		t.Errorf("max == min: got %v, want ErrInvalidHistogramRange", err)
	}
	if _, _, err := BuildHistogram([]int64{1, 2}, 0, 10, nil); err != ErrInvalidHistogramRange {
		t.Errorf("empty bins: got %v, want ErrInvalidHistogramRange", err)
	}
}

func TestMean_SaturatingFallback(t *testing.T) {
	samples := []int64{math.MaxInt64, math.MaxInt64, math.MaxInt64}
	mean, overflow := Mean(samples)
	if !overflow {
		t.Fatal("expected overflow fallback for near-MaxInt64 samples")
	}
	// float64 cannot represent MaxInt64 exactly, so only check the Welford
	// fallback lands within a tight relative tolerance of the true mean.
	const want = float64(math.MaxInt64)
	if diff := math.Abs(float64(mean) - want); diff/want > 1e-9 {
		t.Errorf("Welford fallback mean = %d, want ~%v (diff %v)", mean, want, diff)
	}
}

func TestMean_NoOverflow(t *testing.T) {
	samples := []int64{100, 200, 300}
	mean, overflow := Mean(samples)
	if overflow {
		t.Fatal("unexpected overflow for small samples")
	}
	if mean != 200 {
		t.Errorf("Mean = %d, want 200", mean)
	}
}

func TestSort_MatchesStandardSortAcrossSizes(t *testing.T) {
	sizes := []int{0, 1, 2, 63, 64, 65, 200}
	for _, n := range sizes {
		data := make([]int64, n)
		for i := range data {
			data[i] = int64((i*7919 + 13) % 1000)
		}
		got := append([]int64(nil), data...)
		Sort(got)
		for i := 1; i < len(got); i++ {
			if got[i-1] > got[i] {
				t.Fatalf("size %d: not sorted at index %d: %v", n, i, got)
			}
		}
	}
}
