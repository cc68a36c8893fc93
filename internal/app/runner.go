// Package app runs one snapshot: fetch every event page, build the snapshot
// and store it.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/Sternrassler/seatgeek-snapshot/pkg/events"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/logging"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/snapshot"
	"github.com/rs/zerolog"
)

// EventSource returns every event for a country filter.
// *pagination.Accumulator implements it.
type EventSource interface {
	FetchAll(ctx context.Context, country string) ([]events.Event, error)
}

// Runner wires the accumulation loop to snapshot storage.
type Runner struct {
	source  EventSource
	builder *snapshot.Builder
	store   snapshot.Store

	// Listing, when set, receives the event listing before the insert.
	Listing io.Writer

	logger zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(source EventSource, builder *snapshot.Builder, store snapshot.Store) *Runner {
	return &Runner{
		source:  source,
		builder: builder,
		store:   store,
		logger:  logging.NewLogger("runner"),
	}
}

// Run fetches all events for country and stores them as one snapshot. Nothing
// is stored when fetching fails.
func (r *Runner) Run(ctx context.Context, country string) (*snapshot.Snapshot, error) {
	evs, err := r.source.FetchAll(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	if r.Listing != nil {
		if err := events.WriteListing(r.Listing, evs); err != nil {
			return nil, fmt.Errorf("write listing: %w", err)
		}
	}

	snap := r.builder.Build(country, evs)
	r.logger.Debug().
		Str("run_id", snap.RunID).
		Str("country", snap.Country).
		Int("events", snap.Len()).
		Msg("Snapshot built")

	if err := r.store.Insert(ctx, snap); err != nil {
		return nil, fmt.Errorf("store snapshot %s: %w", snap.RunID, err)
	}

	return snap, nil
}
