package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/lox/bikeshare/internal/ingest"
	"github.com/lox/bikeshare/internal/models"
	"github.com/lox/bikeshare/internal/prompt"
)

const timeLayout = "2006-01-02 15:04:05"

// Raw asks how many rows to show and prints that many leading rows of the
// filtered table.
func (r *Reporter) Raw(ctx context.Context, c *prompt.Console, ds *ingest.Dataset) error {
	return r.run(ctx, rawReport, func(w io.Writer) error {
		header(w, "DataFrame data available for...", ds.Selection)
		start := time.Now()

		total := len(ds.Filtered)
		fmt.Fprintf(w, "\nDataFrame contains %d rows of data.\n", total)

		n, err := prompt.Ask(ctx, c, "rows",
			"\nHow many lines of the data would you like to see? (enter number): ",
			fmt.Sprintf("Invalid entry. Outside of range 0-%d.\nHow many lines of the data would you like to see? (enter number): ", total),
			func(s string) (int, error) {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil {
					return 0, err
				}
				if n < 0 || n > total {
					return 0, fmt.Errorf("%d outside of range 0-%d", n, total)
				}
				return n, nil
			})
		if err != nil {
			return err
		}

		if err := printFrame(w, Frame(ds.Filtered[:n])); err != nil {
			return err
		}
		elapsed(w, start)
		return nil
	})
}

// Frame builds a typed data frame of trips. Missing gender and birth year
// values are NaN.
func Frame(trips []models.Trip) dataframe.DataFrame {
	n := len(trips)
	var (
		starts    = make([]string, n)
		ends      = make([]string, n)
		durations = make([]float64, n)
		from      = make([]string, n)
		to        = make([]string, n)
		users     = make([]string, n)
		genders   = make([]string, n)
		births    = make([]string, n)
	)
	for i, t := range trips {
		starts[i] = t.StartTime.Format(timeLayout)
		ends[i] = t.EndTime.Format(timeLayout)
		durations[i] = t.Duration
		from[i] = t.StartStation
		to[i] = t.EndStation
		users[i] = t.UserType
		genders[i] = "NaN"
		if t.Gender.Valid {
			genders[i] = t.Gender.String
		}
		births[i] = "NaN"
		if t.BirthYear.Valid {
			births[i] = strconv.FormatInt(t.BirthYear.Int64, 10)
		}
	}

	return dataframe.New(
		series.New(starts, series.String, "Start Time"),
		series.New(ends, series.String, "End Time"),
		series.New(durations, series.Float, "Trip Duration"),
		series.New(from, series.String, "Start Station"),
		series.New(to, series.String, "End Station"),
		series.New(users, series.String, "User Type"),
		series.New(genders, series.String, "Gender"),
		series.New(births, series.Int, "Birth Year"),
	)
}

// printFrame writes df as an aligned table with a leading row index.
func printFrame(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("build frame: %w", df.Err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\t%s\n", strings.Join(df.Names(), "\t"))
	if df.Nrow() > 0 {
		for i, row := range df.Records()[1:] {
			fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(row, "\t"))
		}
	}
	return tw.Flush()
}
