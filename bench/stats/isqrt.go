// Package stats implements the integer-only statistics kernel: percentiles,
// Welford variance, integer square root, MAD-based outlier detection and
// the empirical WCET bound. Nothing here uses floating point, sqrt, or a
// sort whose pivot choice is unspecified by its interface — see Sort.
package stats

// Isqrt returns floor(sqrt(n)) using overflow-safe binary search: the
// inner test is mid <= n/mid, never mid*mid, so it never overflows even
// for n near math.MaxUint64.
func Isqrt(n uint64) uint64 {
	if n < 2 {
		return n
	}
	lo, hi := uint64(1), n
	var result uint64
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if mid <= n/mid {
			result = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return result
}
