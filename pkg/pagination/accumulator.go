package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/seatgeek-snapshot/pkg/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPerPage is the page size used when Config.PerPage is unset.
const DefaultPerPage = 100

// ErrPageLimitExceeded is returned when Config.MaxPages is set and Total has
// not been reached after that many pages.
var ErrPageLimitExceeded = errors.New("page limit exceeded before total was reached")

// Prometheus metrics for the accumulation loop.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_pages_fetched_total",
		Help: "Total number of event pages fetched",
	})

	eventsAccumulated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_events_accumulated",
		Help: "Number of events accumulated by the last loop run",
	})
)

// Config holds accumulation loop configuration.
type Config struct {
	// PerPage is the page size requested from the API.
	PerPage int

	// MaxPages bounds the number of pages fetched. Zero means unbounded: the
	// loop runs until Total is reached, however many pages that takes.
	MaxPages int
}

// DefaultConfig returns the configuration matching the listings API defaults.
func DefaultConfig() Config {
	return Config{
		PerPage:  DefaultPerPage,
		MaxPages: 0,
	}
}

// PageFetcher fetches a single page of events. *events.Fetcher implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, perPage int, country string) (*events.PageResult, error)
}

// Accumulator drives a PageFetcher from page 1 until all events are collected.
type Accumulator struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// NewAccumulator creates a new accumulation loop.
func NewAccumulator(fetcher PageFetcher, config Config) *Accumulator {
	if config.PerPage <= 0 {
		config.PerPage = DefaultPerPage
	}
	if config.MaxPages < 0 {
		config.MaxPages = 0
	}

	return &Accumulator{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "accumulator").Logger(),
	}
}

// FetchAll fetches every page for country and returns the events in page
// order. The Total reported by page 1 decides when to stop; a final page that
// overshoots is kept whole and duplicates are not removed.
//
// The loop trusts the API to eventually reach Total. An empty page before
// that point is requested again with the next page number, indefinitely,
// unless Config.MaxPages is set.
func (a *Accumulator) FetchAll(ctx context.Context, country string) ([]events.Event, error) {
	start := time.Now()
	page := 1

	a.logger.Info().Str("country", country).Msg("Getting events from API...")

	first, err := a.fetcher.FetchPage(ctx, page, a.config.PerPage, country)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	pagesFetchedTotal.Inc()

	total := first.Meta.Total
	a.logger.Info().
		Int("total", total).
		Msgf("%d events found...", total)

	if total == 0 || len(first.Events) == 0 {
		eventsAccumulated.Set(0)
		return []events.Event{}, nil
	}

	// total comes from the server; only a configured bound may size the buffer
	capacity := len(first.Events)
	if a.config.MaxPages > 0 {
		capacity = max(capacity, min(total, a.config.PerPage*a.config.MaxPages))
	}
	all := make([]events.Event, 0, capacity)
	all = append(all, first.Events...)

	for len(all) < total {
		if a.config.MaxPages > 0 && page >= a.config.MaxPages {
			a.logger.Error().
				Int("max_pages", a.config.MaxPages).
				Int("accumulated", len(all)).
				Int("total", total).
				Msg("Page limit reached")
			return nil, fmt.Errorf("%w: %d/%d events after %d pages",
				ErrPageLimitExceeded, len(all), total, page)
		}

		page++
		result, err := a.fetcher.FetchPage(ctx, page, a.config.PerPage, country)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		pagesFetchedTotal.Inc()

		if result.Meta.Total != total {
			a.logger.Warn().
				Int("page", page).
				Int("total", result.Meta.Total).
				Int("first_page_total", total).
				Msg("Total changed between pages, keeping first page total")
		}
		if len(result.Events) == 0 {
			a.logger.Warn().
				Int("page", page).
				Int("accumulated", len(all)).
				Int("total", total).
				Msg("Empty page before total was reached")
		}

		all = append(all, result.Events...)
	}

	eventsAccumulated.Set(float64(len(all)))
	a.logger.Info().
		Int("pages", page).
		Int("events", len(all)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return all, nil
}
