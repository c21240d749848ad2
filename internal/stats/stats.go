// Package stats holds the aggregation helpers shared by the reporters:
// frequency tables, histogram binning and duration formatting.
package stats

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// ErrNoData is returned when an aggregate is requested over an empty column.
var ErrNoData = errors.New("no data")

// Frequency is one row of a frequency table.
type Frequency[T cmp.Ordered] struct {
	Value T
	Count int
}

// Frequencies counts distinct values. The result is ordered by count
// descending, ties broken by ascending value.
func Frequencies[T cmp.Ordered](values []T) []Frequency[T] {
	counts := make(map[T]int)
	for _, v := range values {
		counts[v]++
	}

	freqs := make([]Frequency[T], 0, len(counts))
	for v, n := range counts {
		freqs = append(freqs, Frequency[T]{Value: v, Count: n})
	}
	slices.SortFunc(freqs, func(a, b Frequency[T]) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return freqs
}

// Mode returns the most frequent value.
func Mode[T cmp.Ordered](values []T) (T, error) {
	freqs := Frequencies(values)
	if len(freqs) == 0 {
		var zero T
		return zero, ErrNoData
	}
	return freqs[0].Value, nil
}

// Least returns the least frequent value: the last row of the same
// frequency table Mode reads from.
func Least[T cmp.Ordered](values []T) (T, error) {
	freqs := Frequencies(values)
	if len(freqs) == 0 {
		var zero T
		return zero, ErrNoData
	}
	return freqs[len(freqs)-1].Value, nil
}

// Top returns up to n leading rows of an ordered frequency table.
func Top[T cmp.Ordered](freqs []Frequency[T], n int) []Frequency[T] {
	if n > len(freqs) {
		n = len(freqs)
	}
	if n < 0 {
		n = 0
	}
	return freqs[:n]
}

// Bottom returns up to n trailing rows of an ordered frequency table,
// least frequent first.
func Bottom[T cmp.Ordered](freqs []Frequency[T], n int) []Frequency[T] {
	out := make([]Frequency[T], 0, min(max(n, 0), len(freqs)))
	for i := len(freqs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, freqs[i])
	}
	return out
}

// Histogram counts values into equal-width bins over [lo, hi]. Values
// outside the range and NaNs are dropped; the last bin includes hi.
func Histogram(values []float64, bins int, lo, hi float64) []int {
	if bins <= 0 {
		return nil
	}
	counts := make([]int, bins)
	if hi <= lo {
		return counts
	}

	width := (hi - lo) / float64(bins)
	for _, v := range values {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	return counts
}

// BinLabels returns "lo-hi" labels for each bin of a Histogram call.
func BinLabels(bins int, lo, hi float64) []string {
	labels := make([]string, bins)
	width := (hi - lo) / float64(bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s-%s", trimFloat(lo+float64(i)*width), trimFloat(lo+float64(i+1)*width))
	}
	return labels
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoData
	}
	return Sum(values) / float64(len(values)), nil
}

// MinMax returns the smallest and largest value.
func MinMax[T cmp.Ordered](values []T) (T, T, error) {
	if len(values) == 0 {
		var zero T
		return zero, zero, ErrNoData
	}
	return slices.Min(values), slices.Max(values), nil
}

// FormatHMS renders seconds as H:MM:SS, truncating fractional seconds.
// Hours are not folded into days.
func FormatHMS(seconds float64) string {
	s := int64(seconds)
	sign := ""
	if s < 0 {
		sign = "-"
		s = -s
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, s/3600, (s%3600)/60, s%60)
}

// FormatHour renders an hour of day on a 12-hour clock, e.g. "05 PM".
func FormatHour(hour int) string {
	return time.Date(2000, time.January, 1, hour, 0, 0, 0, time.UTC).Format("03 PM")
}
