package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TripsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_trips_loaded_total",
			Help: "Total trip rows loaded from a data source",
		},
		[]string{"city", "source"},
	)

	TripsSelected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bikeshare_trips_selected",
			Help: "Trip rows remaining after the month/day filter",
		},
		[]string{"city"},
	)

	ReportsRun = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_reports_total",
			Help: "Total reports run from the menu",
		},
		[]string{"report"},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bikeshare_report_duration_seconds",
			Help:    "Report computation time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"report"},
	)

	PromptRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_prompt_retries_total",
			Help: "Total rejected console entries",
		},
		[]string{"prompt"},
	)

	PlotsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_plots_rendered_total",
			Help: "Total histograms rendered",
		},
		[]string{"format"},
	)
)

// WriteTextfile dumps the default registry in the node-exporter textfile
// format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
