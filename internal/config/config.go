package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lox/bikeshare/internal/models"
)

const (
	DefaultMaxAttempts = 5
	DefaultFontSize    = 14
)

type Config struct {
	DataDir   string
	CityFiles map[models.City]string

	// MaxAttempts bounds every validated console prompt.
	MaxAttempts int

	PlotDir   string // empty disables PNG output
	TextPlots bool
	FontSize  float64

	Now func() time.Time
}

func Default() Config {
	return Config{
		DataDir: ".",
		CityFiles: map[models.City]string{
			models.Chicago:     "chicago.csv",
			models.NewYorkCity: "new_york_city.csv",
			models.Washington:  "washington.csv",
		},
		MaxAttempts: DefaultMaxAttempts,
		TextPlots:   true,
		FontSize:    DefaultFontSize,
		Now:         time.Now,
	}
}

func (c Config) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("invalid max attempts: %d", c.MaxAttempts)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("invalid font size: %v", c.FontSize)
	}
	if len(c.CityFiles) == 0 {
		return errors.New("no city files configured")
	}
	for city, file := range c.CityFiles {
		if _, err := models.ParseCity(city.String()); err != nil {
			return fmt.Errorf("city files: %w", err)
		}
		if file == "" {
			return fmt.Errorf("city files: empty file name for %s", city)
		}
	}
	return nil
}

// CityPath returns the CSV path for a city under DataDir.
func (c Config) CityPath(city models.City) (string, error) {
	file, ok := c.CityFiles[city]
	if !ok {
		return "", fmt.Errorf("no data file configured for %s", city)
	}
	return filepath.Join(c.DataDir, file), nil
}

// Year is the current calendar year used for rider ages.
func (c Config) Year() int {
	if c.Now == nil {
		return time.Now().Year()
	}
	return c.Now().Year()
}
