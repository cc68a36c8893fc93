package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sternrassler/seatgeek-snapshot/internal/app"
	"github.com/Sternrassler/seatgeek-snapshot/internal/config"
	"github.com/Sternrassler/seatgeek-snapshot/internal/prompt"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/client"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/events"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/logging"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/metrics"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/pagination"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/snapshot"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/storage"
	"github.com/rs/zerolog/log"
)

// openStoreFunc connects the configured snapshot store. Replaced in tests.
type openStoreFunc func(ctx context.Context, opts storage.Options) (snapshot.Store, storage.CloseFunc, error)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg, err := logging.FromSettings(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log settings: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(logCfg)

	if err := run(ctx, cfg, os.Stdin, os.Stdout, storage.Open); err != nil {
		log.Error().Err(err).Msg("Snapshot run failed")
		os.Exit(1)
	}
}

// run executes one snapshot: read the country, fetch all pages, store the
// snapshot and report the count on out.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, openStore openStoreFunc) error {
	country := cfg.Country
	if cfg.Prompt {
		var err error
		country, err = prompt.Country(in, out)
		if err != nil {
			return err
		}
	}

	api, err := client.New(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}
	acc := pagination.NewAccumulator(events.NewFetcher(api), cfg.PaginationConfig())

	builder, err := snapshot.NewBuilder(snapshot.CountryPolicy(cfg.CountryPolicy))
	if err != nil {
		return err
	}
	builder.FixedCountry = cfg.FixedCountry

	store, closeStore, err := openStore(ctx, cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to close store")
		}
	}()

	runner := app.NewRunner(acc, builder, store)
	if cfg.PrintEvents {
		runner.Listing = out
	}

	snap, err := runner.Run(ctx, country)
	if err != nil {
		return err
	}
	metrics.MarkSuccess(time.Now())

	if err := metrics.Push(ctx, cfg.PushConfig()); err != nil {
		log.Warn().Err(err).Msg("Failed to push metrics")
	}

	log.Info().
		Str("run_id", snap.RunID).
		Str("backend", cfg.StoreBackend).
		Int("events", snap.Len()).
		Msg("Snapshot stored")
	fmt.Fprintf(out, "Dumped %d event records to the database.\n", snap.Len())

	return nil
}
