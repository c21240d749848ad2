package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lox/bikeshare/internal/ingest"
	"github.com/lox/bikeshare/internal/models"
	"github.com/lox/bikeshare/internal/plot"
	"github.com/lox/bikeshare/internal/stats"
)

const (
	ageBins = 35
	ageMax  = 80
)

// Users reports user type and gender breakdowns, birth year extremes and
// plots rider age by gender.
func (r *Reporter) Users(ctx context.Context, ds *ingest.Dataset) error {
	return r.run(ctx, "user", func(w io.Writer) error {
		sel := ds.Selection
		header(w, "Calculating User Stats...", sel)

		if len(ds.Filtered) == 0 {
			fmt.Fprintln(w, noTrips)
			return nil
		}

		var userTypes, genders []string
		var births []int64
		for _, t := range ds.Filtered {
			userTypes = append(userTypes, t.UserType)
			if t.Gender.Valid {
				genders = append(genders, t.Gender.String)
			}
			if t.BirthYear.Valid {
				births = append(births, t.BirthYear.Int64)
			}
		}

		fmt.Fprintln(w, "User type stats:")
		if err := counts(w, stats.Frequencies(userTypes)); err != nil {
			return err
		}
		fmt.Fprintln(w)

		if len(genders) == 0 {
			fmt.Fprintln(w, "No gender data available.")
		} else {
			fmt.Fprintln(w, "Gender type stats:")
			if err := counts(w, stats.Frequencies(genders)); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)

		if len(births) == 0 {
			fmt.Fprintln(w, "No birth year data available.")
			return nil
		}
		earliest, latest, _ := stats.MinMax(births)
		common, _ := stats.Mode(births)
		fmt.Fprintf(w, "Year of birth stats:\nMin: %d\nMax: %d\nMost Common: %d\n", earliest, latest, common)

		if len(genders) == 0 {
			return nil
		}
		return r.ageByGender(sel, ds.Filtered)
	})
}

func (r *Reporter) ageByGender(sel models.Selection, trips []models.Trip) error {
	year := r.year()
	var male, female []float64
	for _, t := range trips {
		age, ok := t.Age(year)
		if !ok || !t.Gender.Valid {
			continue
		}
		switch t.Gender.String {
		case "Male":
			male = append(male, float64(age))
		case "Female":
			female = append(female, float64(age))
		}
	}

	return r.plots.Render(plot.Histogram{
		Title:  fmt.Sprintf("%s Ridership\nby Age & Gender (Month: %s, Day: %s)", sel.City, sel.Month, sel.Day),
		XLabel: "Age (Years)",
		YLabel: "Ride Frequency",
		Labels: stats.BinLabels(ageBins, 0, ageMax),
		Series: []plot.Series{
			{Name: "male", Counts: stats.Histogram(male, ageBins, 0, ageMax)},
			{Name: "female", Counts: stats.Histogram(female, ageBins, 0, ageMax)},
		},
		Stacked: true,
	})
}

func counts(w io.Writer, freqs []stats.Frequency[string]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range freqs {
		fmt.Fprintf(tw, "%s\t%d\n", f.Value, f.Count)
	}
	return tw.Flush()
}
