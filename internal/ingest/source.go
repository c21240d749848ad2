package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lox/bikeshare/internal/config"
	"github.com/lox/bikeshare/internal/models"
)

// ErrNotAvailable is returned by a Source that holds no data for a city,
// letting a Chain fall through to the next source.
var ErrNotAvailable = errors.New("data not available")

// Source yields the full, unfiltered trip table for a city.
type Source interface {
	Name() string
	Trips(ctx context.Context, city models.City) ([]models.Trip, error)
}

// CSVSource reads the city files named in the configuration.
type CSVSource struct {
	cfg config.Config
}

func NewCSVSource(cfg config.Config) *CSVSource {
	return &CSVSource{cfg: cfg}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) Trips(ctx context.Context, city models.City) ([]models.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.cfg.CityPath(city)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	trips, err := ParseTrips(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trips, nil
}

// Chain tries each source in order, moving on when a source reports
// ErrNotAvailable.
type Chain []Source

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, src := range c {
		names[i] = src.Name()
	}
	return strings.Join(names, ",")
}

func (c Chain) Trips(ctx context.Context, city models.City) ([]models.Trip, error) {
	trips, _, err := c.resolve(ctx, city)
	return trips, err
}

// resolve returns the trips and the name of the source that served them.
func (c Chain) resolve(ctx context.Context, city models.City) ([]models.Trip, string, error) {
	var lastErr error = ErrNotAvailable
	for _, src := range c {
		trips, name, err := fetchTrips(ctx, src, city)
		if err == nil {
			return trips, name, nil
		}
		if !errors.Is(err, ErrNotAvailable) {
			return nil, "", fmt.Errorf("%s: %w", src.Name(), err)
		}
		lastErr = err
	}
	return nil, "", lastErr
}

// fetchTrips reads a city from src, looking through chains to report the
// source that answered.
func fetchTrips(ctx context.Context, src Source, city models.City) ([]models.Trip, string, error) {
	if chain, ok := src.(Chain); ok {
		return chain.resolve(ctx, city)
	}
	trips, err := src.Trips(ctx, city)
	return trips, src.Name(), err
}
