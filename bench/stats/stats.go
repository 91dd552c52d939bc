package stats

import "math"

// welfordMean runs the recurrence of §4.3 purely in integer arithmetic:
// Mₖ = M_{k-1} + (xₖ - M_{k-1})/k, truncating division exactly like the
// spec's formula (no floating-point accumulator is ever created, per §1's
// "no floating-point anywhere a decision, hash, ratio, or persisted value
// is derived").
func welfordMean(samples []int64) int64 {
	var mean int64
	for i, v := range samples {
		k := int64(i + 1)
		mean += (v - mean) / k
	}
	return mean
}

// Summary holds every integer latency-statistics field spec §3 names for
// a single measured sample set. All fields are nanoseconds except
// SampleCount and OutlierCount.
type Summary struct {
	Min, Max       int64
	Mean           int64
	Median         int64
	P95, P99       int64
	Variance       int64
	Stddev         int64
	WCETObserved   int64 // == Max
	WCETBound      int64 // Max + 6*Stddev, saturating
	SampleCount    int
	OutlierCount   int // inline count, mean+3*stddev criterion (see ComputeStats doc)
	MeanOverflowed bool
	WCETOverflowed bool
}

// ComputeStats sorts samples in place and populates every Summary field.
// It returns ErrNoSamples (mapping to the div_zero fault, §7) when samples
// is empty; in that case Summary is left zeroed, matching §4.3's
// "div_zero fault, stats left zeroed" contract.
//
// Two distinct outlier notions exist in this codebase by design (spec §9
// Open Questions): ComputeStats.OutlierCount uses the cheap inline
// mean+3*stddev rule suitable for a single pass over already-computed
// statistics; DetectOutliersMAD implements the stricter median/MAD
// modified-Z test from §4.3 as a separate, explicit call. Neither is a
// silent substitute for the other.
func ComputeStats(samples []int64) (Summary, error) {
	n := len(samples)
	if n == 0 {
		return Summary{}, ErrNoSamples
	}

	Sort(samples)

	var s Summary
	s.SampleCount = n
	s.Min = samples[0]
	s.Max = samples[n-1]
	s.WCETObserved = s.Max

	mean, overflowed := Mean(samples)
	s.Mean = mean
	s.MeanOverflowed = overflowed

	variance, stddev := WelfordVarianceStddev(samples)
	s.Variance = variance
	s.Stddev = stddev

	s.Median = Percentile(samples, 50)
	s.P95 = Percentile(samples, 95)
	s.P99 = Percentile(samples, 99)

	bound, wcetOverflowed := WCETBound(s.Max, s.Stddev)
	s.WCETBound = bound
	s.WCETOverflowed = wcetOverflowed

	s.OutlierCount = CountOutliersMeanStddev(samples, s.Mean, s.Stddev)

	return s, nil
}

// Mean computes the arithmetic mean with a saturating 64-bit accumulator.
// If the running sum would exceed math.MaxInt64, it sets overflow and
// falls back to Welford's running mean, per §4.3.
func Mean(samples []int64) (mean int64, overflow bool) {
	n := int64(len(samples))
	if n == 0 {
		return 0, false
	}

	var sum int64
	for _, v := range samples {
		if sum > math.MaxInt64-v {
			overflow = true
			break
		}
		sum += v
	}
	if !overflow {
		return sum / n, false
	}

	// Saturating accumulator would have overflowed; recompute with
	// Welford's running mean, which never needs a full-sum accumulator.
	return welfordMean(samples), true
}

// WelfordVarianceStddev computes variance and standard deviation with a
// single-pass Welford update, exactly per §4.3's recurrence:
// Mₖ = M_{k-1} + (xₖ - M_{k-1})/k, Sₖ = S_{k-1} + (xₖ - M_{k-1})(xₖ - Mₖ).
// Both accumulators are plain int64; no floating point is ever used,
// since variance/stddev are persisted result fields (§1 non-goal).
// Variance is S_n/(n-1) for n > 1, else 0. Stddev is Isqrt(variance).
func WelfordVarianceStddev(samples []int64) (variance, stddev int64) {
	n := len(samples)
	if n < 2 {
		return 0, 0
	}

	var mean, s int64
	for i, v := range samples {
		k := int64(i + 1)
		delta := v - mean
		mean += delta / k
		delta2 := v - mean
		s += delta * delta2
	}

	variance = s / int64(n-1)
	if variance < 0 {
		variance = 0
	}
	stddev = int64(Isqrt(uint64(variance)))
	return variance, stddev
}

// Percentile implements the exact interpolation formula of §4.3 over an
// ascending-sorted array. p must be in [0, 100].
func Percentile(sorted []int64, p int) int64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	rankScaled := p * (n - 1)
	rank := rankScaled / 100
	frac := int64(rankScaled % 100)

	if rank >= n-1 {
		return sorted[n-1]
	}
	lo, hi := sorted[rank], sorted[rank+1]
	return lo + ((hi-lo)*frac)/100
}

// CountOutliersMeanStddev counts samples more than 3 standard deviations
// from the mean. This is the cheap inline criterion ComputeStats reports
// as OutlierCount; it is intentionally distinct from DetectOutliersMAD.
func CountOutliersMeanStddev(samples []int64, mean, stddev int64) int {
	if stddev == 0 {
		return 0
	}
	count := 0
	threshold := 3 * stddev
	for _, v := range samples {
		d := v - mean
		if d < 0 {
			d = -d
		}
		if d > threshold {
			count++
		}
	}
	return count
}

// WCETBound computes the empirical WCET envelope max + 6*stddev. On
// overflow it sets the bool and returns max unchanged, per §4.3.
func WCETBound(max, stddev int64) (bound int64, overflow bool) {
	six := int64(6)
	if stddev > 0 && six > (math.MaxInt64-max)/stddev {
		return max, true
	}
	return max + six*stddev, false
}
