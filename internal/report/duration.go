package report

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/lox/bikeshare/internal/ingest"
	"github.com/lox/bikeshare/internal/models"
	"github.com/lox/bikeshare/internal/plot"
	"github.com/lox/bikeshare/internal/stats"
)

const (
	durationBins = 16
	durationMax  = 40 // minutes
)

// ageGroups buckets rider ages for the duration histogram. Bounds are
// [lo, hi); the first group has no lower bound, so birth years after the
// current year still count as under 30.
var ageGroups = []struct {
	name   string
	lo, hi int
}{
	{"under 30", math.MinInt, 30},
	{"30-39", 30, 40},
	{"40-49", 40, 50},
	{"50 and over", 50, math.MaxInt},
}

// Durations reports total and mean travel time and plots trip minutes by
// gender and by age group.
func (r *Reporter) Durations(ctx context.Context, ds *ingest.Dataset) error {
	return r.run(ctx, "duration", func(w io.Writer) error {
		sel := ds.Selection
		header(w, "Calculating Trip Duration...", sel)

		durations := make([]float64, len(ds.Filtered))
		for i, t := range ds.Filtered {
			durations[i] = t.Duration
		}
		mean, err := stats.Mean(durations)
		if ok, err := section(w, err); !ok {
			return err
		}
		fmt.Fprintf(w, "Total travel time (hrs:min:sec): %s\n", stats.FormatHMS(stats.Sum(durations)))
		fmt.Fprintf(w, "Mean travel time (hrs:min:sec): %s\n", stats.FormatHMS(mean))

		if err := r.durationByGender(w, sel, ds.Filtered); err != nil {
			return err
		}
		return r.durationByAge(w, sel, ds.Filtered)
	})
}

func (r *Reporter) durationByGender(w io.Writer, sel models.Selection, trips []models.Trip) error {
	var males, females []float64
	known := false
	for _, t := range trips {
		if !t.Gender.Valid {
			continue
		}
		known = true
		switch t.Gender.String {
		case "Male":
			males = append(males, t.Duration/60)
		case "Female":
			females = append(females, t.Duration/60)
		}
	}
	if !known {
		fmt.Fprintln(w, "No gender data available.")
		return nil
	}

	return r.plots.Render(plot.Histogram{
		Title:  fmt.Sprintf("%s Trip Duration Histogram\nby gender (Month: %s, Day: %s)", sel.City, sel.Month, sel.Day),
		XLabel: "Trip Duration (Minutes)",
		YLabel: "Frequency",
		Labels: stats.BinLabels(durationBins, 0, durationMax),
		Series: []plot.Series{
			{Name: "males", Counts: stats.Histogram(males, durationBins, 0, durationMax)},
			{Name: "females", Counts: stats.Histogram(females, durationBins, 0, durationMax)},
		},
		Stacked: true,
	})
}

func (r *Reporter) durationByAge(w io.Writer, sel models.Selection, trips []models.Trip) error {
	year := r.year()
	groups := make([][]float64, len(ageGroups))
	known := false
	for _, t := range trips {
		age, ok := t.Age(year)
		if !ok {
			continue
		}
		known = true
		for i, g := range ageGroups {
			if age >= g.lo && age < g.hi {
				groups[i] = append(groups[i], t.Duration/60)
				break
			}
		}
	}
	if !known {
		fmt.Fprintln(w, "No birth year data available.")
		return nil
	}

	series := make([]plot.Series, len(ageGroups))
	for i, g := range ageGroups {
		series[i] = plot.Series{Name: g.name, Counts: stats.Histogram(groups[i], durationBins, 0, durationMax)}
	}
	return r.plots.Render(plot.Histogram{
		Title:   fmt.Sprintf("%s Trip Duration by Age Group\n(Month: %s, Day: %s)", sel.City, sel.Month, sel.Day),
		XLabel:  "Trip Duration (Minutes)",
		YLabel:  "Frequency",
		Labels:  stats.BinLabels(durationBins, 0, durationMax),
		Series:  series,
		Stacked: true,
	})
}
