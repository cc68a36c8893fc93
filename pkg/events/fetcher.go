package events

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fixed request shape of the events endpoint.
const (
	EventsPath = "/events"

	// TaxonomyID restricts results to the music festival taxonomy.
	TaxonomyID = "2010000"

	SortOrder = "score.desc"
)

// APIClient is the transport the Fetcher needs. *client.Client implements it.
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// Fetcher retrieves and decodes single pages of the events endpoint.
type Fetcher struct {
	api    APIClient
	logger zerolog.Logger
}

// NewFetcher creates a page fetcher on top of api.
func NewFetcher(api APIClient) *Fetcher {
	if api == nil {
		panic("api client cannot be nil")
	}
	return &Fetcher{
		api:    api,
		logger: log.With().Str("component", "event-fetcher").Logger(),
	}
}

// FetchPage fetches page (1-based) with perPage events per page. An empty
// country means no country filter.
func (f *Fetcher) FetchPage(ctx context.Context, page, perPage int, country string) (*PageResult, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1 (got %d)", page)
	}
	if perPage < 1 {
		return nil, fmt.Errorf("per page must be >= 1 (got %d)", perPage)
	}

	f.logger.Info().
		Int("page", page).
		Int("per_page", perPage).
		Str("country", country).
		Msgf("Getting page %d...", page)

	body, err := f.api.Get(ctx, EventsPath, BuildQuery(page, perPage, country))
	if err != nil {
		return nil, err
	}

	return DecodePage(body)
}

// BuildQuery returns the query parameters for one events page.
func BuildQuery(page, perPage int, country string) url.Values {
	q := url.Values{}
	q.Set("taxonomies.id", TaxonomyID)
	q.Set("sort", SortOrder)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	if country != "" {
		q.Set("venue.country", country)
	}
	return q
}
