package lib

import "fmt"
import "strconv"
import "strings"

// HistogramInt64 bucket int64 samples into fixed width bins between
// [from, till). Samples outside the range land in the first and last
// bins.
type HistogramInt64 struct {
	AverageInt64
	bins  []int64
	from  int64
	till  int64
	width int64
}

// NewHistogramInt64 return a histogram for samples in [from, till),
// in bins of `width`.
func NewHistogramInt64(from, till, width int64) *HistogramInt64 {
	if width <= 0 {
		panicerr("histogram width %v must be positive", width)
	}
	from, till = (from/width)*width, (till/width)*width
	if till < from {
		till = from
	}
	h := &HistogramInt64{from: from, till: till, width: width}
	h.bins = make([]int64, ((till-from)/width)+2)
	return h
}

// Add a sample to histogram.
func (h *HistogramInt64) Add(sample int64) {
	h.AverageInt64.Add(sample)
	switch {
	case sample < h.from:
		h.bins[0]++
	case sample >= h.till:
		h.bins[len(h.bins)-1]++
	default:
		h.bins[((sample-h.from)/h.width)+1]++
	}
}

// Stats return cumulative counts keyed by the exclusive upper bound of
// each bin, "+" for samples at or above `till`. Empty trailing bins
// are skipped.
func (h *HistogramInt64) Stats() map[string]int64 {
	m, cumm := make(map[string]int64), int64(0)
	last := len(h.bins) - 1
	for last >= 0 && h.bins[last] == 0 {
		last--
	}
	for i := 0; i <= last; i++ {
		cumm += h.bins[i]
		if i == len(h.bins)-1 {
			m["+"] = cumm
			continue
		}
		m[strconv.Itoa(int(h.from+int64(i)*h.width))] = cumm
	}
	return m
}

// Logstring return the histogram as a single line, bins in order.
func (h *HistogramInt64) Logstring() string {
	ss := []string{
		fmt.Sprintf(`"samples": %v`, h.Samples()),
		fmt.Sprintf(`"min": %v`, h.Min()),
		fmt.Sprintf(`"max": %v`, h.Max()),
		fmt.Sprintf(`"mean": %v`, h.Mean()),
	}
	hs := []string{}
	for i, v := range h.bins {
		if v == 0 {
			continue
		}
		key := "+"
		if i < len(h.bins)-1 {
			key = strconv.Itoa(int(h.from + int64(i)*h.width))
		}
		hs = append(hs, fmt.Sprintf(`"%v": %v`, key, v))
	}
	ss = append(ss, `"histogram": {`+strings.Join(hs, ",")+"}")
	return "{" + strings.Join(ss, ",") + "}"
}
