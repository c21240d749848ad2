package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lox/bikeshare/internal/ingest"
	"github.com/lox/bikeshare/internal/stats"
)

const rankSize = 3

// Stations lists the most and least used start stations, end stations and
// routes of the filtered table.
func (r *Reporter) Stations(ctx context.Context, ds *ingest.Dataset) error {
	return r.run(ctx, "station", func(w io.Writer) error {
		header(w, "Calculating The Most Popular Stations and Trip...", ds.Selection)
		start := time.Now()

		if len(ds.Filtered) == 0 {
			fmt.Fprintln(w, noTrips)
			return nil
		}

		starts := make([]string, len(ds.Filtered))
		ends := make([]string, len(ds.Filtered))
		routes := make([]string, len(ds.Filtered))
		for i, t := range ds.Filtered {
			starts[i] = t.StartStation
			ends[i] = t.EndStation
			routes[i] = t.Route()
		}

		ranked(w, "start stations", starts, "common")
		fmt.Fprintln(w)
		ranked(w, "end stations", ends, "common")
		fmt.Fprintln(w)
		ranked(w, "routes", routes, "popular")

		elapsed(w, start)
		return nil
	})
}

// ranked prints the top and bottom entries of a frequency table. Bottom
// entries are listed least frequent first.
func ranked(w io.Writer, noun string, values []string, adjective string) {
	freqs := stats.Frequencies(values)
	fmt.Fprintf(w, "Most %s %s:\n", adjective, noun)
	for i, f := range stats.Top(freqs, rankSize) {
		fmt.Fprintf(w, "  %d. %s\n", i+1, f.Value)
	}
	fmt.Fprintf(w, "Least %s %s:\n", adjective, noun)
	for i, f := range stats.Bottom(freqs, rankSize) {
		fmt.Fprintf(w, "  %d. %s\n", i+1, f.Value)
	}
}
