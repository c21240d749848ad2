package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/lox/bikeshare/internal/metrics"
	"github.com/lox/bikeshare/internal/models"
)

// Dataset holds the two live tables for a selection. All is never filtered;
// Filtered holds the rows of All matching the month and day filters, in
// the same order.
type Dataset struct {
	Selection models.Selection
	All       []models.Trip
	Filtered  []models.Trip
}

// Load reads the selected city's trips and applies the month filter, then
// the day filter.
func Load(ctx context.Context, src Source, sel models.Selection) (*Dataset, error) {
	trips, served, err := fetchTrips(ctx, src, sel.City)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", sel.City.Slug(), err)
	}

	flagged := 0
	for i := range trips {
		if len(ValidateTrip(&trips[i])) > 0 {
			flagged++
		}
	}
	if flagged > 0 {
		log.Printf("ingest: %d of %d %s trips have quality flags", flagged, len(trips), sel.City)
	}

	filtered := FilterDay(FilterMonth(trips, sel.Month), sel.Day)

	metrics.TripsLoaded.WithLabelValues(sel.City.Slug(), served).Add(float64(len(trips)))
	metrics.TripsSelected.WithLabelValues(sel.City.Slug()).Set(float64(len(filtered)))
	log.Printf("ingest: loaded %d trips for %s from %s, %d after filters", len(trips), sel.City, served, len(filtered))

	return &Dataset{
		Selection: sel,
		All:       trips,
		Filtered:  filtered,
	}, nil
}

// FilterMonth keeps trips starting in the given month. AllMonths returns
// the input unchanged.
func FilterMonth(trips []models.Trip, month models.Month) []models.Trip {
	if month == models.AllMonths {
		return trips
	}
	out := make([]models.Trip, 0, len(trips)/6)
	for _, t := range trips {
		if month.Matches(t.Month) {
			out = append(out, t)
		}
	}
	return out
}

// FilterDay keeps trips starting on the given weekday. AllDays returns the
// input unchanged.
func FilterDay(trips []models.Trip, day models.Day) []models.Trip {
	if day == models.AllDays {
		return trips
	}
	out := make([]models.Trip, 0, len(trips)/7)
	for _, t := range trips {
		if day.Matches(t.DayName) {
			out = append(out, t)
		}
	}
	return out
}
