package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lox/bikeshare/internal/ingest"
	"github.com/lox/bikeshare/internal/models"
	"github.com/lox/bikeshare/internal/plot"
	"github.com/lox/bikeshare/internal/stats"
)

var (
	monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	dayLabels   = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	dayNames    = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

// Time reports the most and least frequent month, weekday and hour. It
// starts from the unfiltered table and narrows it by month, then by day.
func (r *Reporter) Time(ctx context.Context, ds *ingest.Dataset) error {
	return r.run(ctx, "time", func(w io.Writer) error {
		sel := ds.Selection
		header(w, "Calculating The Most Frequent Times of Travel...", sel)

		if err := r.monthSection(w, sel, ds.All); err != nil {
			return err
		}
		byMonth := ingest.FilterMonth(ds.All, sel.Month)
		if err := r.daySection(w, sel, byMonth); err != nil {
			return err
		}
		return r.hourSection(w, sel, ingest.FilterDay(byMonth, sel.Day))
	})
}

func (r *Reporter) monthSection(w io.Writer, sel models.Selection, trips []models.Trip) error {
	months := make([]int, len(trips))
	values := make([]float64, len(trips))
	for i, t := range trips {
		months[i] = int(t.Month)
		values[i] = float64(t.Month)
	}

	most, err := stats.Mode(months)
	if ok, err := section(w, err); !ok {
		return err
	}
	least, _ := stats.Least(months)
	fmt.Fprintf(w, "Most common month for travel (Jan-Jun): %s\n", time.Month(most))
	fmt.Fprintf(w, "Least common month for travel (Jan-Jun): %s\n", time.Month(least))

	return r.plots.Render(plot.Histogram{
		Title:  fmt.Sprintf("%s Ridership per Month", sel.City),
		XLabel: "Month",
		YLabel: "Ride Frequency",
		Labels: monthLabels,
		Series: []plot.Series{{Name: "trips", Counts: stats.Histogram(values, 6, 0.5, 6.5)}},
	})
}

func (r *Reporter) daySection(w io.Writer, sel models.Selection, trips []models.Trip) error {
	days := make([]int, len(trips))
	values := make([]float64, len(trips))
	for i, t := range trips {
		days[i] = t.DayOfWeek
		values[i] = float64(t.DayOfWeek)
	}

	most, err := stats.Mode(days)
	if ok, err := section(w, err); !ok {
		return err
	}
	least, _ := stats.Least(days)
	fmt.Fprintf(w, "Most common day for travel (Month: %s): %s\n", sel.Month, dayNames[most])
	fmt.Fprintf(w, "Least common day for travel (Month: %s): %s\n", sel.Month, dayNames[least])

	return r.plots.Render(plot.Histogram{
		Title:  fmt.Sprintf("%s Ridership per Day of the Week\n(Month: %s)", sel.City, sel.Month),
		XLabel: "Day",
		YLabel: "Ride Frequency",
		Labels: dayLabels,
		Series: []plot.Series{{Name: "trips", Counts: stats.Histogram(values, 7, -0.5, 6.5)}},
	})
}

func (r *Reporter) hourSection(w io.Writer, sel models.Selection, trips []models.Trip) error {
	hours := make([]int, len(trips))
	values := make([]float64, len(trips))
	for i, t := range trips {
		hours[i] = t.Hour
		values[i] = float64(t.Hour)
	}

	most, err := stats.Mode(hours)
	if ok, err := section(w, err); !ok {
		return err
	}
	least, _ := stats.Least(hours)
	fmt.Fprintf(w, "Most common hour for travel (Month: %s, Day: %s): %s\n", sel.Month, sel.Day, stats.FormatHour(most))
	fmt.Fprintf(w, "Least common hour for travel (Month: %s, Day: %s): %s\n", sel.Month, sel.Day, stats.FormatHour(least))

	labels := make([]string, 24)
	for h := range labels {
		labels[h] = fmt.Sprint(h)
	}
	return r.plots.Render(plot.Histogram{
		Title:  fmt.Sprintf("%s Ridership per Hour\n(Month: %s, Day: %s)", sel.City, sel.Month, sel.Day),
		XLabel: "Hour (24 hour)",
		YLabel: "Ride Frequency",
		Labels: labels,
		Series: []plot.Series{{Name: "trips", Counts: stats.Histogram(values, 24, 0, 24)}},
	})
}
