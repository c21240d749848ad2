package ingest

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lox/bikeshare/internal/models"
)

// ErrMissingColumn is returned when a required column is absent from the
// CSV header.
var ErrMissingColumn = errors.New("missing column")

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

type columns struct {
	startTime    int
	endTime      int
	duration     int
	startStation int
	endStation   int
	userType     int
	gender       int // -1 when absent
	birthYear    int // -1 when absent
}

func mapColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	lookup := func(name string, required bool) (int, error) {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			if required {
				return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
			}
			return -1, nil
		}
		return i, nil
	}

	var (
		cols columns
		err  error
	)
	fields := []struct {
		name     string
		required bool
		dst      *int
	}{
		{"Start Time", true, &cols.startTime},
		{"End Time", true, &cols.endTime},
		{"Trip Duration", true, &cols.duration},
		{"Start Station", true, &cols.startStation},
		{"End Station", true, &cols.endStation},
		{"User Type", true, &cols.userType},
		{"Gender", false, &cols.gender},
		{"Birth Year", false, &cols.birthYear},
	}
	for _, f := range fields {
		if *f.dst, err = lookup(f.name, f.required); err != nil {
			return columns{}, err
		}
	}
	return cols, nil
}

// ParseTrips reads a city CSV with a header row. Rows are returned in file
// order with their calendar fields derived.
func ParseTrips(r io.Reader) ([]models.Trip, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var trips []models.Trip
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		trip, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("parse row %d: %w", line, err)
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

func parseRow(record []string, cols columns) (models.Trip, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		trip models.Trip
		err  error
	)
	if trip.StartTime, err = parseTime(field(cols.startTime)); err != nil {
		return trip, fmt.Errorf("start time: %w", err)
	}
	if trip.EndTime, err = parseTime(field(cols.endTime)); err != nil {
		return trip, fmt.Errorf("end time: %w", err)
	}
	if trip.Duration, err = strconv.ParseFloat(field(cols.duration), 64); err != nil {
		return trip, fmt.Errorf("trip duration: %w", err)
	}
	trip.StartStation = field(cols.startStation)
	trip.EndStation = field(cols.endStation)
	trip.UserType = field(cols.userType)

	if g := field(cols.gender); g != "" {
		trip.Gender = sql.NullString{String: g, Valid: true}
	}
	if by := field(cols.birthYear); by != "" {
		v, err := strconv.ParseFloat(by, 64)
		if err != nil {
			return trip, fmt.Errorf("birth year: %w", err)
		}
		trip.BirthYear = sql.NullInt64{Int64: int64(v), Valid: true}
	}

	trip.Derive()
	return trip, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
