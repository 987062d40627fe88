package lib

import "math"

// AverageInt64 track count, extremes, mean and deviation of a stream of
// int64 samples without storing them.
type AverageInt64 struct {
	n      int64
	minval int64
	maxval int64
	sum    int64
	sumsq  float64
}

// Add a sample.
func (av *AverageInt64) Add(sample int64) {
	if av.n == 0 || sample < av.minval {
		av.minval = sample
	}
	if av.n == 0 || sample > av.maxval {
		av.maxval = sample
	}
	av.n++
	av.sum += sample
	av.sumsq += float64(sample) * float64(sample)
}

// Min sample seen so far, zero when empty.
func (av *AverageInt64) Min() int64 {
	return av.minval
}

// Max sample seen so far, zero when empty.
func (av *AverageInt64) Max() int64 {
	return av.maxval
}

// Samples count.
func (av *AverageInt64) Samples() int64 {
	return av.n
}

// Mean of samples, truncated.
func (av *AverageInt64) Mean() int64 {
	if av.n == 0 {
		return 0
	}
	return av.sum / av.n
}

// Variance of samples around their mean.
func (av *AverageInt64) Variance() float64 {
	if av.n == 0 {
		return 0
	}
	mean := float64(av.sum) / float64(av.n)
	v := (av.sumsq / float64(av.n)) - (mean * mean)
	if v < 0 { // rounding
		return 0
	}
	return v
}

// SD standard deviation.
func (av *AverageInt64) SD() float64 {
	return math.Sqrt(av.Variance())
}

// Reset forget all samples.
func (av *AverageInt64) Reset() {
	*av = AverageInt64{}
}

// Stats return samples, min, max, mean and stddeviance.
func (av *AverageInt64) Stats() map[string]interface{} {
	return map[string]interface{}{
		"samples":     av.n,
		"min":         av.minval,
		"max":         av.maxval,
		"mean":        av.Mean(),
		"stddeviance": av.SD(),
	}
}
