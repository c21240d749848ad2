package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/bikeshare/internal/config"
	"github.com/lox/bikeshare/internal/explore"
	"github.com/lox/bikeshare/internal/ingest"
	"github.com/lox/bikeshare/internal/metrics"
	"github.com/lox/bikeshare/internal/models"
	"github.com/lox/bikeshare/internal/narrate"
	"github.com/lox/bikeshare/internal/prompt"
	"github.com/lox/bikeshare/internal/report"
	"github.com/lox/bikeshare/internal/store"
)

type Globals struct {
	DataDir string                   `name:"data-dir" default:"." env:"BIKESHARE_DATA_DIR" type:"path" help:"Directory holding the city CSV files."`
	Quiet   bool                     `help:"Discard diagnostic logs."`
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file'"`
}

func (g *Globals) config() config.Config {
	cfg := config.Default()
	cfg.DataDir = g.DataDir
	return cfg
}

type CLI struct {
	Globals

	Explore ExploreCmd `cmd:"" default:"withargs" help:"Explore bike-share data interactively."`
	Fetch   FetchCmd   `cmd:"" help:"Download the city CSV files from an FTP mirror."`
	Import  ImportCmd  `cmd:"" help:"Load the city CSV files into the SQLite trip store."`
}

type ExploreCmd struct {
	DB          string  `name:"db" env:"BIKESHARE_DB" type:"path" help:"SQLite trip store to read before the CSV files."`
	PlotDir     string  `name:"plot-dir" env:"BIKESHARE_PLOT_DIR" type:"path" help:"Write each histogram as a PNG into this directory."`
	NoTextPlots bool    `name:"no-text-plots" help:"Do not print histograms as text bars."`
	MaxAttempts int     `name:"max-attempts" default:"5" help:"Invalid entries allowed per prompt."`
	FontSize    float64 `name:"font-size" default:"14" help:"Font size for PNG plots."`
	Narrate     bool    `help:"Append a plain-language summary to each report."`
	OpenAIKey   string  `name:"openai-api-key" env:"OPENAI_API_KEY" help:"API key used by --narrate."`
	MetricsFile string  `name:"metrics-file" type:"path" help:"Write Prometheus metrics to this textfile on exit."`
}

func (c *ExploreCmd) Run(ctx context.Context, g *Globals) error {
	cfg := g.config()
	cfg.PlotDir = c.PlotDir
	cfg.TextPlots = !c.NoTextPlots
	cfg.MaxAttempts = c.MaxAttempts
	cfg.FontSize = c.FontSize
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var src ingest.Chain
	if c.DB != "" {
		st, db, err := openStore(c.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		src = append(src, st)
	}
	src = append(src, ingest.NewCSVSource(cfg))

	console := prompt.NewConsole(os.Stdin, os.Stdout, cfg.MaxAttempts)
	reporter := report.New(os.Stdout, explore.Plots(cfg, os.Stdout), cfg.Year)
	if c.Narrate {
		n, err := narrate.New(c.OpenAIKey)
		if err != nil {
			log.Printf("narrate: disabled: %v", err)
		} else {
			reporter.WithNarrator(n)
		}
	}

	err := explore.New(console, src, reporter).Run(ctx)
	if c.MetricsFile != "" {
		if werr := metrics.WriteTextfile(c.MetricsFile); werr != nil {
			log.Printf("metrics: write %s: %v", c.MetricsFile, werr)
		}
	}
	return err
}

type FetchCmd struct {
	Host     string `name:"ftp-host" required:"" env:"BIKESHARE_FTP_HOST" help:"FTP server address (host:port)."`
	User     string `name:"ftp-user" env:"BIKESHARE_FTP_USER" help:"FTP user, anonymous when empty."`
	Password string `name:"ftp-password" env:"BIKESHARE_FTP_PASSWORD" help:"FTP password."`
	Dir      string `name:"ftp-dir" default:"/" env:"BIKESHARE_FTP_DIR" help:"Remote directory holding the city files."`
}

func (c *FetchCmd) Run(ctx context.Context, g *Globals) error {
	return ingest.NewFetcher(c.Host, c.User, c.Password, c.Dir).FetchAll(ctx, g.config())
}

type ImportCmd struct {
	DB string `name:"db" required:"" env:"BIKESHARE_DB" type:"path" help:"SQLite trip store to fill."`
}

func (c *ImportCmd) Run(ctx context.Context, g *Globals) error {
	cfg := g.config()
	st, db, err := openStore(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	csv := ingest.NewCSVSource(cfg)
	imported := 0
	for _, city := range models.Cities {
		trips, err := csv.Trips(ctx, city)
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("import: %s: no data file, skipping", city)
			continue
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", city.Slug(), err)
		}

		path, _ := cfg.CityPath(city)
		if err := st.ImportTrips(ctx, city, path, trips); err != nil {
			return err
		}
		flagged, err := st.FlaggedTrips(ctx, city)
		if err != nil {
			return fmt.Errorf("count flagged %s: %w", city.Slug(), err)
		}
		log.Printf("import: %s: %d trips, %d with quality flags", city, len(trips), flagged)
		imported++
	}
	if imported == 0 {
		return fmt.Errorf("import: no city files found in %s", cfg.DataDir)
	}

	imports, err := st.Imports(ctx)
	if err != nil {
		return fmt.Errorf("list imports: %w", err)
	}
	for _, imp := range imports {
		fmt.Printf("%-14s %8d trips  %s  %s  (%s)\n", imp.City, imp.TripCount, imp.ImportedAt.Format(time.RFC3339), imp.ID, imp.SourceFile)
	}
	return nil
}

func openStore(path string) (*store.Store, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	version, err := st.MigrationVersion()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("schema version: %w", err)
	}
	log.Printf("store: %s at schema version %d", path, version)
	return st, db, nil
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("bikeshare"),
		kong.Description("Explore US bike-share trip data."),
		kong.UsageOnError(),
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		log.Fatalf("build cli: %v", err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	log.SetFlags(0)
	log.SetPrefix("bikeshare: ")
	log.SetOutput(os.Stderr)
	if cli.Quiet {
		log.SetOutput(io.Discard)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(&cli.Globals)
	cancel()
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stdout)
		log.Printf("interrupted")
		os.Exit(130)
	}
	kctx.FatalIfErrorf(err)
}
