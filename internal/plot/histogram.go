// Package plot renders report histograms. Every histogram is printed as a
// text chart and, when a plot directory is configured, saved as a PNG.
package plot

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Series is one named set of per-bucket counts.
type Series struct {
	Name   string
	Counts []int
}

// Histogram is a bar chart over fixed buckets. With several series and
// Stacked set, each bucket's bar is the sum of its series.
type Histogram struct {
	Title   string
	XLabel  string
	YLabel  string
	Labels  []string
	Series  []Series
	Stacked bool
}

// Renderer outputs a histogram somewhere.
type Renderer interface {
	Render(h Histogram) error
}

// Multi renders to each renderer in turn, returning the first error.
type Multi []Renderer

func (m Multi) Render(h Histogram) error {
	for _, r := range m {
		if err := r.Render(h); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops every histogram.
type Discard struct{}

func (Discard) Render(Histogram) error { return nil }

func (h Histogram) Validate() error {
	if len(h.Series) == 0 {
		return errors.New("histogram has no series")
	}
	for _, s := range h.Series {
		if len(s.Counts) != len(h.Labels) {
			return fmt.Errorf("series %q has %d buckets, want %d", s.Name, len(s.Counts), len(h.Labels))
		}
	}
	return nil
}

// Totals returns the stacked height of each bucket.
func (h Histogram) Totals() []int {
	totals := make([]int, len(h.Labels))
	for _, s := range h.Series {
		for i, c := range s.Counts {
			if i < len(totals) {
				totals[i] += c
			}
		}
	}
	return totals
}

// Peak is the tallest bar: the largest total when stacked, otherwise the
// largest single count.
func (h Histogram) Peak() int {
	peak := 0
	if h.Stacked {
		for _, t := range h.Totals() {
			peak = max(peak, t)
		}
		return peak
	}
	for _, s := range h.Series {
		for _, c := range s.Counts {
			peak = max(peak, c)
		}
	}
	return peak
}

// Slug turns a title into a file-name-safe string.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
