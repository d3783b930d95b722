package histogram

import (
	"errors"
	"math"
	"sort"

	"github.com/deanrtaylor1/gospam/feature"
)

// ErrZeroNorm is returned when normalizing a histogram with no counts
var ErrZeroNorm = errors.New("histogram has zero norm")

// Histogram holds one count per feature bucket
type Histogram []int

// Normalized is a histogram scaled to unit Euclidean length
type Normalized []float64

// BucketFunc maps a sanitized word to its bucket
type BucketFunc func(word string) int

// Stat is a single bucket and its count
type Stat struct {
	Bucket int
	Count  int
}

// New returns an empty histogram with one slot per bucket
func New() Histogram {
	return make(Histogram, feature.Buckets)
}

// Build counts the bucket of every word and smooths the result.
// A nil bucketFn uses feature.Bucket.
func Build(words []string, bucketFn BucketFunc) Histogram {
	if bucketFn == nil {
		bucketFn = feature.Bucket
	}
	h := New()
	for _, w := range words {
		if w == "" {
			continue
		}
		h[bucketFn(w)]++
	}
	return Smooth(h)
}

// Smooth sets zero buckets to 1 starting at bucket 0 and stops at the
// first non-zero bucket. Zeros after that bucket are left as they are.
func Smooth(h Histogram) Histogram {
	for i := range h {
		if h[i] != 0 {
			break
		}
		h[i] = 1
	}
	return h
}

// Total returns the sum of all counts
func (h Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Norm returns the Euclidean length of the histogram
func (h Histogram) Norm() float64 {
	sum := 0.0
	for _, c := range h {
		sum += float64(c) * float64(c)
	}
	return math.Sqrt(sum)
}

// Normalize scales h to unit length
func Normalize(h Histogram) (Normalized, error) {
	norm := h.Norm()
	if norm == 0 {
		return nil, ErrZeroNorm
	}
	out := make(Normalized, len(h))
	for i, c := range h {
		out[i] = float64(c) / norm
	}
	return out, nil
}

// Norm returns the Euclidean length of a normalized histogram
func (n Normalized) Norm() float64 {
	sum := 0.0
	for _, v := range n {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Top returns the n heaviest buckets, ties broken by lower bucket id
func Top(h Histogram, n int) []Stat {
	stats := make([]Stat, 0, len(h))
	for i, c := range h {
		stats = append(stats, Stat{Bucket: i, Count: c})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Bucket < stats[j].Bucket
	})
	if n >= 0 && n < len(stats) {
		stats = stats[:n]
	}
	return stats
}
