// Package report prints the statistics summaries and the raw data view for
// a loaded dataset.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/lox/bikeshare/internal/metrics"
	"github.com/lox/bikeshare/internal/models"
	"github.com/lox/bikeshare/internal/plot"
	"github.com/lox/bikeshare/internal/stats"
)

const (
	noTrips   = "No trips for this selection."
	rawReport = "raw"
)

// Narrator turns a finished report's text into a short summary.
type Narrator interface {
	Narrate(ctx context.Context, report, text string) (string, error)
}

// Reporter runs the reports against a dataset. Text goes to out and
// histograms to plots.
type Reporter struct {
	out      io.Writer
	plots    plot.Renderer
	narrator Narrator
	year     func() int
}

func New(out io.Writer, plots plot.Renderer, year func() int) *Reporter {
	if plots == nil {
		plots = plot.Discard{}
	}
	if year == nil {
		year = func() int { return time.Now().Year() }
	}
	return &Reporter{out: out, plots: plots, year: year}
}

// WithNarrator attaches a narrator. A nil narrator disables narration.
func (r *Reporter) WithNarrator(n Narrator) *Reporter {
	r.narrator = n
	return r
}

// run times fn and records metrics. Statistics reports are narrated before
// the closing separator line.
func (r *Reporter) run(ctx context.Context, name string, fn func(w io.Writer) error) error {
	start := time.Now()
	var text bytes.Buffer
	err := fn(io.MultiWriter(r.out, &text))

	metrics.ReportsRun.WithLabelValues(name).Inc()
	metrics.ReportDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s report: %w", name, err)
	}

	if name != rawReport {
		r.narrate(ctx, name, text.String())
	}
	fmt.Fprintln(r.out, strings.Repeat("-", 40))
	return nil
}

func (r *Reporter) narrate(ctx context.Context, name, text string) {
	if r.narrator == nil {
		return
	}
	summary, err := r.narrator.Narrate(ctx, name, text)
	if err != nil {
		log.Printf("narrate: %s: %v", name, err)
		return
	}
	if summary != "" {
		fmt.Fprintf(r.out, "\nIn short: %s\n", summary)
	}
}

func header(w io.Writer, title string, sel models.Selection) {
	fmt.Fprintf(w, "\n%s\n\n%s\n\n", title, sel)
}

// section prints the no-trips message for ErrNoData and reports whether
// the caller should continue.
func section(w io.Writer, err error) (bool, error) {
	if errors.Is(err, stats.ErrNoData) {
		fmt.Fprintln(w, noTrips)
		return false, nil
	}
	return err == nil, err
}

func elapsed(w io.Writer, start time.Time) {
	fmt.Fprintf(w, "\nCalculation took %.3f seconds.\n", time.Since(start).Seconds())
}
