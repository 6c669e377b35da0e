// Command locality annotates chat turns with the local time, date, timezone,
// location and weather.
//
// Usage:
//
//	locality annotate [text]     print text with its annotation (stdin if omitted)
//	locality serve               run the chat-input hook and settings panel
//	locality settings            print current settings as JSON
//	locality set <key> <value>   change one setting and persist it
//
// Configuration is read from locality.toml, .env and LOCALITY_* variables.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nevindra/locality"
	"github.com/nevindra/locality/internal/config"
	"github.com/nevindra/locality/observer"
	"github.com/nevindra/locality/provider/ipgeo"
	"github.com/nevindra/locality/provider/openmeteo"
	"github.com/nevindra/locality/store/jsonfile"
	"github.com/nevindra/locality/store/postgres"
	"github.com/nevindra/locality/store/sqlite"
)

const usage = `usage: locality <command> [args]

commands:
  annotate [text]     print text with its annotation (stdin if omitted)
  serve               run the chat-input hook and settings panel
  settings            print current settings as JSON
  set <key> <value>   change one setting and persist it
`

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[locality] ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load(os.Getenv("LOCALITY_CONFIG"))
	ctx := context.Background()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer a.close(context.Background())

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "annotate":
		err = runAnnotate(ctx, a, args, os.Stdin, os.Stdout)
	case "serve":
		err = runServe(a)
	case "settings":
		err = printSettings(os.Stdout, a.settings.Snapshot())
	case "set":
		err = runSet(ctx, a, args, os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		a.close(context.Background())
		log.Fatalf("%s: %v", cmd, err)
	}
}

// app holds the wired components shared by every subcommand.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	settings *locality.Manager
	chain    *locality.ProcessorChain
	inst     *observer.Instruments
	closers  []func(context.Context) error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg, logger: newLogger(cfg.Log.Level)}

	store, err := a.openStore(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.settings, err = locality.OpenManager(ctx, store, locality.WithManagerLogger(a.logger))
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	if cfg.Observer.Enabled {
		inst, shutdown, err := observer.Init(ctx)
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("observer: %w", err)
		}
		a.inst = inst
		a.closers = append(a.closers, shutdown)
	}

	var locator locality.Locator
	if loc := cfg.Location; loc.Static() {
		locator = locality.StaticLocator{Location: locality.Location{
			City:        loc.City,
			Country:     loc.Country,
			Coordinates: &locality.Coordinates{Latitude: *loc.Latitude, Longitude: *loc.Longitude},
		}}
	} else {
		locator = locality.RateLimitLocator(ipgeo.New(
			ipgeo.WithEndpoint(cfg.Lookup.GeoEndpoint),
			ipgeo.WithTimeout(cfg.Lookup.Timeout.Duration),
			ipgeo.WithLogger(a.logger),
		), cfg.Lookup.GeoRPM)
	}
	weather := locality.RateLimitWeather(openmeteo.New(
		openmeteo.WithBaseURL(cfg.Lookup.WeatherEndpoint),
		openmeteo.WithTimeout(cfg.Lookup.Timeout.Duration),
		openmeteo.WithLogger(a.logger),
	), cfg.Lookup.WeatherRPM)
	if a.inst != nil {
		locator = observer.WrapLocator(locator, a.inst)
		weather = observer.WrapWeather(weather, a.inst)
	}

	annotator := locality.NewAnnotator(
		locality.WithLocator(locator),
		locality.WithWeather(weather),
		locality.WithLookupTimeout(cfg.Lookup.Timeout.Duration),
		locality.WithLogger(a.logger),
	)
	var injector locality.TurnProcessor = locality.NewInjector(a.settings, annotator)
	if a.inst != nil {
		injector = observer.WrapProcessor(injector, a.inst)
	}
	a.chain = locality.NewProcessorChain(injector)
	return a, nil
}

// openStore builds the settings backend named in config.
func (a *app) openStore(ctx context.Context) (locality.SettingsStore, error) {
	sc := a.cfg.Settings
	switch sc.Backend {
	case "json":
		return jsonfile.New(sc.Path, jsonfile.WithLogger(a.logger)), nil
	case "sqlite":
		path := sc.Path
		if path == "" || path == jsonfile.DefaultPath {
			path = "locality.db"
		}
		s := sqlite.New(path, sqlite.WithLogger(a.logger))
		a.closers = append(a.closers, func(context.Context) error { return s.Close() })
		if err := s.Init(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		if sc.DSN == "" {
			return nil, &locality.ConfigError{Err: fmt.Errorf("postgres backend needs a dsn")}
		}
		pool, err := pgxpool.New(ctx, sc.DSN)
		if err != nil {
			return nil, &locality.ConfigError{Err: fmt.Errorf("connect: %w", err)}
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })
		s := postgres.New(pool)
		if err := s.Init(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, &locality.ConfigError{Err: fmt.Errorf("unknown settings backend %q", sc.Backend)}
	}
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Printf("close: %v", err)
		}
	}
	a.closers = nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func runAnnotate(ctx context.Context, a *app, args []string, stdin io.Reader, out io.Writer) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		text = strings.TrimRight(string(data), "\n")
	}
	t := locality.Turn{ID: locality.NewID(), Text: text, VisibleText: text}
	if err := a.chain.Run(ctx, &t); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, t.Text)
	return err
}

func runSet(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: locality set <key> <value>")
	}
	s, err := a.settings.Apply(ctx, locality.SettingChanged{
		ID:    locality.NewID(),
		Key:   args[0],
		Value: args[1],
	})
	if err != nil {
		return err
	}
	return printSettings(out, s)
}

func printSettings(out io.Writer, s locality.Settings) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "    ")
	return enc.Encode(s)
}
