package stats

// BuildHistogram bins samples into the caller-owned bins slice over the
// half-open range [min, max), with fixed bin width
// (max-min)/len(bins). Samples below min increment underflow; samples at
// or above max increment overflow. BuildHistogram does not allocate: it
// only writes into bins, which it zeroes first.
func BuildHistogram(samples []int64, min, max int64, bins []int64) (underflow, overflow int64, err error) {
	if max <= min || len(bins) == 0 {
		return 0, 0, ErrInvalidHistogramRange
	}
	for i := range bins {
		bins[i] = 0
	}

	binWidth := (max - min) / int64(len(bins))
	if binWidth == 0 {
		binWidth = 1
	}

	for _, v := range samples {
		switch {
		case v < min:
			underflow++
		case v >= max:
			overflow++
		default:
			idx := (v - min) / binWidth
			if idx >= int64(len(bins)) {
				idx = int64(len(bins)) - 1
			}
			bins[idx]++
		}
	}
	return underflow, overflow, nil
}
