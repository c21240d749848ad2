package ingest

import (
	"encoding/json"

	"github.com/lox/bikeshare/internal/models"
)

const (
	FlagNegativeDuration  = "negative_duration"
	FlagEndBeforeStart    = "end_before_start"
	FlagMissingStation    = "missing_station"
	FlagBirthYearUnlikely = "birth_year_unlikely"
)

// ValidateTrip returns quality flags for a trip. Flagged trips are kept;
// the flags are logged and stored alongside imported rows.
func ValidateTrip(trip *models.Trip) []string {
	var flags []string

	if trip.Duration < 0 {
		flags = append(flags, FlagNegativeDuration)
	}

	if trip.EndTime.Before(trip.StartTime) {
		flags = append(flags, FlagEndBeforeStart)
	}

	if trip.StartStation == "" || trip.EndStation == "" {
		flags = append(flags, FlagMissingStation)
	}

	if trip.BirthYear.Valid {
		year := int64(trip.StartTime.Year())
		if trip.BirthYear.Int64 > year || trip.BirthYear.Int64 < year-110 {
			flags = append(flags, FlagBirthYearUnlikely)
		}
	}

	return flags
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
