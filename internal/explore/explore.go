// Package explore runs the interactive session: choose filters, load the
// city, then run reports from a numbered menu until the user leaves.
package explore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lox/bikeshare/internal/config"
	"github.com/lox/bikeshare/internal/ingest"
	"github.com/lox/bikeshare/internal/plot"
	"github.com/lox/bikeshare/internal/prompt"
	"github.com/lox/bikeshare/internal/report"
)

const menu = `
Enter number from below options:
1 - Time Stats
2 - Station Stats
3 - Trip Duration Stats
4 - User Stats
5 - DataFrame Data
6 - Exit (or restart)
Enter number: `

type choice int

const (
	timeStats choice = iota + 1
	stationStats
	durationStats
	userStats
	rawData
	exit
)

func parseChoice(s string) (choice, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return timeStats, nil
	case "2":
		return stationStats, nil
	case "3":
		return durationStats, nil
	case "4":
		return userStats, nil
	case "5":
		return rawData, nil
	case "6":
		return exit, nil
	}
	return 0, fmt.Errorf("unknown menu entry %q", s)
}

// Session ties the console, the trip source and the reporter together.
type Session struct {
	console  *prompt.Console
	source   ingest.Source
	reporter *report.Reporter
}

func New(console *prompt.Console, source ingest.Source, reporter *report.Reporter) *Session {
	return &Session{
		console:  console,
		source:   source,
		reporter: reporter,
	}
}

// Plots returns the histogram renderers enabled by cfg.
func Plots(cfg config.Config, out io.Writer) plot.Renderer {
	var renderers plot.Multi
	if cfg.TextPlots {
		renderers = append(renderers, plot.NewText(out))
	}
	if cfg.PlotDir != "" {
		renderers = append(renderers, plot.NewPNG(cfg.PlotDir, cfg.FontSize, out))
	}
	return renderers
}

// Run loops until the user declines to restart. It returns an error when
// data cannot be loaded, a prompt runs out of attempts or input ends.
func (s *Session) Run(ctx context.Context) error {
	for {
		sel, err := s.console.Filters(ctx)
		if err != nil {
			return fmt.Errorf("choose filters: %w", err)
		}

		s.console.Println("Loading city data...")
		ds, err := ingest.Load(ctx, s.source, sel)
		if err != nil {
			return err
		}
		s.console.Println(strings.Repeat("-", 40))

		if err := s.menu(ctx, ds); err != nil {
			return err
		}

		again, err := s.restart(ctx)
		if err != nil {
			return err
		}
		if !again {
			break
		}
		log.Printf("explore: restarting with new filters")
	}
	s.console.Println("Exiting Program.")
	return nil
}

func (s *Session) menu(ctx context.Context, ds *ingest.Dataset) error {
	for {
		c, err := prompt.Ask(ctx, s.console, "menu", menu, "Invalid entry.\n"+menu, parseChoice)
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}

		switch c {
		case timeStats:
			err = s.reporter.Time(ctx, ds)
		case stationStats:
			err = s.reporter.Stations(ctx, ds)
		case durationStats:
			err = s.reporter.Durations(ctx, ds)
		case userStats:
			err = s.reporter.Users(ctx, ds)
		case rawData:
			err = s.reporter.Raw(ctx, s.console, ds)
		case exit:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// restart asks once. Anything other than y, including end of input, ends
// the session.
func (s *Session) restart(ctx context.Context) (bool, error) {
	line, err := s.console.ReadLine(ctx, "\nWould you like to restart? Enter Y or N: ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y", nil
}
