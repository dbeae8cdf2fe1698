package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"link-notifier/config"
	"link-notifier/fetcher"
	"link-notifier/filter"
	"link-notifier/logging"
	"link-notifier/notifier"
	"link-notifier/parser"
	"link-notifier/runner"
	"link-notifier/scheduler"
	"link-notifier/sheets"
	"link-notifier/store"

	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("link-notifier", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "config.yaml", "Path to configuration file")
	envPath := flags.String("env", ".env", "Path to .env file with the access token")
	url := flags.String("url", "", "Page to watch (overrides url in the configuration file)")
	schedule := flags.String("schedule", "", "Cron expression; when set, keep running and watch on this schedule")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if err := config.LoadEnvFile(*envPath); err != nil {
		fmt.Fprintf(stderr, "Error loading env file: %v\n", err)
		return 1
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if *url != "" {
		cfg.URL = *url
	}
	if *schedule != "" {
		cfg.Schedule = *schedule
	}
	cfg.ResolveToken()

	log, closer, err := logging.New(logging.Options{
		Path:    cfg.Log.Path,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closer.Close()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, cleanup, err := buildRunner(ctx, cfg, log)
	if err != nil {
		log.Error().Msg(err.Error())
		return 1
	}
	defer cleanup()

	if cfg.Schedule == "" {
		if _, err := r.Run(ctx); err != nil {
			log.Error().Msg(err.Error())
			return 1
		}
		return 0
	}

	s, err := scheduler.NewScheduler(cfg.Schedule, func(ctx context.Context) error {
		_, err := r.Run(ctx)
		return err
	}, log)
	if err != nil {
		log.Error().Msg(err.Error())
		return 1
	}
	s.Start()
	<-ctx.Done()
	s.Stop()
	return 0
}

// buildRunner creates every component named by the configuration
func buildRunner(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*runner.Runner, func(), error) {
	f, err := fetcher.New(cfg.Fetcher, log)
	if err != nil {
		return nil, nil, err
	}

	extractor, err := parser.NewLinkExtractor(cfg.ClassMarker)
	if err != nil {
		return nil, nil, err
	}

	linkFilter, err := filter.NewFilter(cfg.Filter.Exclude)
	if err != nil {
		return nil, nil, err
	}

	n, err := notifier.New(cfg.Notifier, log)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	cleanup := func() {
		if err := snapshot.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close store")
		}
	}

	r := &runner.Runner{
		URL:       cfg.URL,
		Fetcher:   f,
		Extractor: extractor,
		Store:     snapshot,
		Notifier:  n,
		Filter:    linkFilter,
		Log:       log,
	}

	if cfg.Sheets.SpreadsheetURL != "" {
		writer, err := sheets.NewWriter(ctx, cfg.Sheets.SpreadsheetURL, cfg.Sheets.CredentialsPath, log)
		if err != nil {
			log.Warn().Err(err).Msg("Google Sheets report disabled")
		} else {
			r.Reporter = writer
		}
	}

	return r, cleanup, nil
}
