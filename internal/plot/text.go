package plot

import (
	"fmt"
	"io"
	"strings"

	"github.com/lox/bikeshare/internal/metrics"
)

var seriesGlyphs = []rune{'#', '=', '+', '*', '%', '@'}

// Text draws horizontal bar charts on a terminal.
type Text struct {
	w     io.Writer
	width int
}

func NewText(w io.Writer) *Text {
	return &Text{w: w, width: 40}
}

func (t *Text) Render(h Histogram) error {
	if err := h.Validate(); err != nil {
		return err
	}

	totals := h.Totals()
	peak := 0
	for _, total := range totals {
		peak = max(peak, total)
	}
	labelWidth := 0
	for _, l := range h.Labels {
		labelWidth = max(labelWidth, len(l))
	}

	fmt.Fprintf(t.w, "\n%s\n", h.Title)
	if len(h.Series) > 1 {
		legend := make([]string, len(h.Series))
		for i, s := range h.Series {
			legend[i] = fmt.Sprintf("%c %s", glyph(i), s.Name)
		}
		fmt.Fprintf(t.w, "(%s)\n", strings.Join(legend, "  "))
	}

	for i, label := range h.Labels {
		var bar strings.Builder
		for j, s := range h.Series {
			bar.WriteString(strings.Repeat(string(glyph(j)), scale(s.Counts[i], peak, t.width)))
		}
		fmt.Fprintf(t.w, "%*s | %-*s %d\n", labelWidth, label, t.width, bar.String(), totals[i])
	}
	fmt.Fprintf(t.w, "%*s   %s / %s\n", labelWidth, "", h.XLabel, h.YLabel)

	metrics.PlotsRendered.WithLabelValues("text").Inc()
	return nil
}

func glyph(i int) rune {
	return seriesGlyphs[i%len(seriesGlyphs)]
}

// scale maps a count onto a bar of at most width cells. Non-zero counts
// always get at least one cell.
func scale(count, peak, width int) int {
	if count <= 0 || peak <= 0 {
		return 0
	}
	n := count * width / peak
	if n == 0 {
		n = 1
	}
	return n
}
