package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/lox/bikeshare/internal/ingest"
	"github.com/lox/bikeshare/internal/models"
)

// Store keeps imported city trip tables in SQLite. It satisfies
// ingest.Source.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CityImport describes one imported city table.
type CityImport struct {
	ID         string
	City       models.City
	SourceFile string
	ImportedAt time.Time
	TripCount  int
}

func (s *Store) Name() string { return "sqlite" }

// ImportTrips replaces the stored table for a city. Each call records a new
// import id.
func (s *Store) ImportTrips(ctx context.Context, city models.City, sourceFile string, trips []models.Trip) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE city = ?`, city.Slug()); err != nil {
		return fmt.Errorf("clear %s: %w", city.Slug(), err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (city, row_num, start_time, end_time, duration, start_station, end_station, user_type, gender, birth_year, quality_flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range trips {
		flags := sql.NullString{String: ingest.QualityFlagsToJSON(ingest.ValidateTrip(&t))}
		flags.Valid = flags.String != ""
		if _, err := stmt.ExecContext(ctx, city.Slug(), i, t.StartTime, t.EndTime, t.Duration, t.StartStation, t.EndStation, t.UserType, t.Gender, t.BirthYear, flags); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cities (city, name, source_file, imported_at, trip_count, import_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(city) DO UPDATE SET
			import_id = excluded.import_id,
			name = excluded.name,
			source_file = excluded.source_file,
			imported_at = excluded.imported_at,
			trip_count = excluded.trip_count
	`, city.Slug(), city.String(), sourceFile, time.Now().UTC(), len(trips), xid.New().String()); err != nil {
		return fmt.Errorf("record import: %w", err)
	}

	return tx.Commit()
}

// Trips returns a city's table in import order. Cities that were never
// imported report ingest.ErrNotAvailable.
func (s *Store) Trips(ctx context.Context, city models.City) ([]models.Trip, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT trip_count FROM cities WHERE city = ?`, city.Slug()).Scan(&count)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s not imported", ingest.ErrNotAvailable, city.Slug())
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT start_time, end_time, duration, start_station, end_station, user_type, gender, birth_year
		FROM trips
		WHERE city = ?
		ORDER BY row_num ASC
	`, city.Slug())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]models.Trip, 0, count)
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.StartTime, &t.EndTime, &t.Duration, &t.StartStation, &t.EndStation, &t.UserType, &t.Gender, &t.BirthYear); err != nil {
			return nil, err
		}
		t.Derive()
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// FlaggedTrips counts stored rows carrying quality flags for a city.
func (s *Store) FlaggedTrips(ctx context.Context, city models.City) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips WHERE city = ? AND quality_flags IS NOT NULL`, city.Slug()).Scan(&n)
	return n, err
}

func (s *Store) Imports(ctx context.Context) ([]CityImport, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT city, source_file, imported_at, trip_count, import_id FROM cities ORDER BY city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []CityImport
	for rows.Next() {
		var (
			slug string
			imp  CityImport
			src  sql.NullString
			id   sql.NullString
		)
		if err := rows.Scan(&slug, &src, &imp.ImportedAt, &imp.TripCount, &id); err != nil {
			return nil, err
		}
		city, ok := cityFromSlug(slug)
		if !ok {
			continue
		}
		imp.City = city
		imp.SourceFile = src.String
		imp.ID = id.String
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

func cityFromSlug(slug string) (models.City, bool) {
	for _, c := range models.Cities {
		if c.Slug() == slug {
			return c, true
		}
	}
	return 0, false
}
