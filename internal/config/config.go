// Package config defines the snapshot tool configuration and its loader.
package config

import (
	"fmt"
	"time"

	"github.com/Sternrassler/seatgeek-snapshot/pkg/client"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/logging"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/metrics"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/pagination"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/snapshot"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/storage"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogPretty selects console output over JSON lines.
	LogPretty bool `koanf:"log_pretty"`

	// APIBaseURL is the listings API root.
	APIBaseURL string `koanf:"api_base_url"`

	// UserAgent is sent with every API request.
	UserAgent string `koanf:"user_agent"`

	// HTTPTimeout bounds each API request. Zero disables the timeout.
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// PerPage is the page size requested from the API.
	PerPage int `koanf:"per_page"`

	// MaxPages stops the run with an error after this many pages. Zero means
	// no bound.
	MaxPages int `koanf:"max_pages"`

	// Prompt asks the operator for the country filter on stdin. When false,
	// Country is used.
	Prompt bool `koanf:"prompt"`

	// Country is the filter used when Prompt is false.
	Country string `koanf:"country"`

	// CountryPolicy selects which country is recorded: "fixed" or "input".
	CountryPolicy string `koanf:"country_policy"`

	// FixedCountry is recorded under the "fixed" policy.
	FixedCountry string `koanf:"fixed_country"`

	// PrintEvents writes the fetched event listing to stdout before storing.
	PrintEvents bool `koanf:"print_events"`

	// StoreBackend selects the snapshot store: "mongo" or "redis".
	StoreBackend string `koanf:"store_backend"`

	MongoURI        string `koanf:"mongo_uri"`
	MongoDatabase   string `koanf:"mongo_database"`
	MongoCollection string `koanf:"mongo_collection"`

	RedisAddr      string `koanf:"redis_addr"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	// PushgatewayURL enables pushing run metrics when non-empty.
	PushgatewayURL string `koanf:"pushgateway_url"`
	PushgatewayJob string `koanf:"pushgateway_job"`
}

// New returns a Config populated with defaults.
func New() *Config {
	store := storage.DefaultOptions()
	return &Config{
		LogLevel:        string(logging.LevelInfo),
		LogPretty:       true,
		APIBaseURL:      client.DefaultBaseURL,
		UserAgent:       "seatgeek-snapshot/0.1.0",
		HTTPTimeout:     0,
		PerPage:         pagination.DefaultPerPage,
		MaxPages:        0,
		Prompt:          true,
		CountryPolicy:   string(snapshot.CountryFixed),
		FixedCountry:    snapshot.DefaultFixedCountry,
		StoreBackend:    store.Backend,
		MongoURI:        store.MongoURI,
		MongoDatabase:   store.MongoDatabase,
		MongoCollection: store.MongoCollection,
		RedisAddr:       store.RedisAddr,
		RedisKeyPrefix:  store.RedisKeyPrefix,
		PushgatewayJob:  metrics.DefaultJob,
	}
}

// Validate checks field values that would otherwise fail late in a run.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: http_timeout must be >= 0", ErrInvalidConfig)
	}
	if c.PerPage < 1 {
		return fmt.Errorf("%w: per_page must be >= 1 (got %d)", ErrInvalidConfig, c.PerPage)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("%w: max_pages must be >= 0 (got %d)", ErrInvalidConfig, c.MaxPages)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := snapshot.CountryPolicy(c.CountryPolicy).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.StoreBackend {
	case storage.BackendMongo, storage.BackendRedis:
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	return nil
}

// ClientConfig returns the API client configuration.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:   c.APIBaseURL,
		UserAgent: c.UserAgent,
		Timeout:   c.HTTPTimeout,
	}
}

// PaginationConfig returns the accumulation loop configuration.
func (c *Config) PaginationConfig() pagination.Config {
	return pagination.Config{
		PerPage:  c.PerPage,
		MaxPages: c.MaxPages,
	}
}

// StorageOptions returns the snapshot store options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:         c.StoreBackend,
		MongoURI:        c.MongoURI,
		MongoDatabase:   c.MongoDatabase,
		MongoCollection: c.MongoCollection,
		RedisAddr:       c.RedisAddr,
		RedisDB:         c.RedisDB,
		RedisKeyPrefix:  c.RedisKeyPrefix,
	}
}

// PushConfig returns the Pushgateway configuration.
func (c *Config) PushConfig() metrics.PushConfig {
	return metrics.PushConfig{
		URL: c.PushgatewayURL,
		Job: c.PushgatewayJob,
	}
}
