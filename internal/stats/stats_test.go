package stats

import (
	"errors"
	"slices"
	"testing"
)

func TestFrequenciesOrdering(t *testing.T) {
	values := []string{"b", "a", "c", "b", "a", "d", "b"}
	got := Frequencies(values)

	want := []Frequency[string]{
		{"b", 3},
		{"a", 2},
		{"c", 1},
		{"d", 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Frequencies = %v, want %v", got, want)
	}
}

func TestModeAndLeast(t *testing.T) {
	tests := []struct {
		name      string
		values    []int
		wantMode  int
		wantLeast int
	}{
		{"clear winner", []int{6, 6, 6, 1, 2, 2}, 6, 1},
		{"tie resolves to smallest", []int{3, 1, 3, 1}, 1, 3},
		{"single value", []int{4}, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := Mode(tt.values)
			if err != nil {
				t.Fatalf("Mode: %v", err)
			}
			if mode != tt.wantMode {
				t.Errorf("Mode = %d, want %d", mode, tt.wantMode)
			}
			least, err := Least(tt.values)
			if err != nil {
				t.Fatalf("Least: %v", err)
			}
			if least != tt.wantLeast {
				t.Errorf("Least = %d, want %d", least, tt.wantLeast)
			}
		})
	}
}

func TestEmptyAggregates(t *testing.T) {
	if _, err := Mode([]string{}); !errors.Is(err, ErrNoData) {
		t.Errorf("Mode(empty) error = %v, want ErrNoData", err)
	}
	if _, err := Least([]int(nil)); !errors.Is(err, ErrNoData) {
		t.Errorf("Least(nil) error = %v, want ErrNoData", err)
	}
	if _, err := Mean(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Mean(nil) error = %v, want ErrNoData", err)
	}
	if _, _, err := MinMax([]int64{}); !errors.Is(err, ErrNoData) {
		t.Errorf("MinMax(empty) error = %v, want ErrNoData", err)
	}
}

func TestTopBottom(t *testing.T) {
	values := []string{
		"a", "a", "a", "a", "a", "a",
		"b", "b", "b", "b", "b",
		"c", "c", "c", "c",
		"d", "d", "d",
		"e", "e",
		"f",
	}
	freqs := Frequencies(values)

	top := Top(freqs, 3)
	bottom := Bottom(freqs, 3)

	if got := values3(top); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Top = %v", got)
	}
	if got := values3(bottom); !slices.Equal(got, []string{"f", "e", "d"}) {
		t.Errorf("Bottom = %v", got)
	}
	for _, b := range bottom {
		for _, tp := range top {
			if b.Value == tp.Value {
				t.Errorf("%q appears in both top and bottom", b.Value)
			}
		}
	}
}

func TestTopBottomFewerThanN(t *testing.T) {
	freqs := Frequencies([]string{"x", "x", "y"})

	if got := values3(Top(freqs, 3)); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("Top = %v", got)
	}
	if got := values3(Bottom(freqs, 3)); !slices.Equal(got, []string{"y", "x"}) {
		t.Errorf("Bottom = %v", got)
	}
	if got := Top(Frequencies([]string{}), 3); len(got) != 0 {
		t.Errorf("Top(empty) = %v", got)
	}
	if got := Bottom(Frequencies([]string{}), 3); len(got) != 0 {
		t.Errorf("Bottom(empty) = %v", got)
	}
}

func values3(freqs []Frequency[string]) []string {
	out := make([]string, len(freqs))
	for i, f := range freqs {
		out[i] = f.Value
	}
	return out
}

func TestHistogram(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		bins   int
		lo, hi float64
		want   []int
	}{
		{
			name:   "one bucket per month",
			values: []float64{1, 1, 2, 6, 6, 6},
			bins:   6, lo: 0.5, hi: 6.5,
			want: []int{2, 1, 0, 0, 0, 3},
		},
		{
			name:   "out of range dropped",
			values: []float64{-1, 0, 39.9, 40, 41},
			bins:   16, lo: 0, hi: 40,
			want: []int{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2},
		},
		{
			name:   "hours",
			values: []float64{0, 23, 23, 12},
			bins:   24, lo: 0, hi: 24,
			want: func() []int {
				c := make([]int, 24)
				c[0], c[12], c[23] = 1, 1, 2
				return c
			}(),
		},
		{
			name:   "empty",
			values: nil,
			bins:   3, lo: 0, hi: 3,
			want: []int{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Histogram(tt.values, tt.bins, tt.lo, tt.hi)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Histogram = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistogramPreservesTotal(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 1, 3, 5}
	total := 0
	for _, c := range Histogram(values, 6, 0.5, 6.5) {
		total += c
	}
	if total != len(values) {
		t.Errorf("bucket total = %d, want %d", total, len(values))
	}
}

func TestBinLabels(t *testing.T) {
	got := BinLabels(4, 0, 40)
	want := []string{"0-10", "10-20", "20-30", "30-40"}
	if !slices.Equal(got, want) {
		t.Errorf("BinLabels = %v, want %v", got, want)
	}
	if got := BinLabels(16, 0, 40)[1]; got != "2.5-5" {
		t.Errorf("BinLabels(16)[1] = %q, want 2.5-5", got)
	}
}

func TestFormatHMS(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00"},
		{59.9, "0:00:59"},
		{3661, "1:01:01"},
		{90000, "25:00:00"},
		{1266.248, "0:21:06"},
	}
	for _, tt := range tests {
		if got := FormatHMS(tt.seconds); got != tt.want {
			t.Errorf("FormatHMS(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatHour(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "12 AM"},
		{5, "05 AM"},
		{12, "12 PM"},
		{17, "05 PM"},
	}
	for _, tt := range tests {
		if got := FormatHour(tt.hour); got != tt.want {
			t.Errorf("FormatHour(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestSumAndMinMax(t *testing.T) {
	if got := Sum([]float64{1.5, 2.5, 6}); got != 10 {
		t.Errorf("Sum = %v, want 10", got)
	}
	mean, err := Mean([]float64{2, 4})
	if err != nil || mean != 3 {
		t.Errorf("Mean = %v, %v, want 3", mean, err)
	}
	lo, hi, err := MinMax([]int64{1990, 1980, 2000})
	if err != nil || lo != 1980 || hi != 2000 {
		t.Errorf("MinMax = %d, %d, %v", lo, hi, err)
	}
}
