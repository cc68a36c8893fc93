// Package snapshot bundles one run's events with its capture metadata and
// defines the storage contract for persisting it.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/seatgeek-snapshot/pkg/events"
	"github.com/google/uuid"
)

// CountryPolicy decides which country value is recorded in a Snapshot.
type CountryPolicy string

const (
	// CountryFixed records Builder.FixedCountry regardless of the filter the
	// operator entered. This is the historical behavior.
	CountryFixed CountryPolicy = "fixed"

	// CountryInput records the filter the operator entered (possibly empty).
	CountryInput CountryPolicy = "input"
)

// DefaultFixedCountry is the value recorded under CountryFixed.
const DefaultFixedCountry = "us"

// Snapshot is the persisted result of one run. It is built once, after the
// accumulation loop completes, and is not modified afterwards.
type Snapshot struct {
	RunID   string         `json:"run_id" bson:"run_id"`
	Time    time.Time      `json:"time" bson:"time"`
	Country string         `json:"country" bson:"country"`
	Events  []events.Event `json:"events" bson:"events"`
}

// Len returns the number of events in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Events)
}

// Store persists snapshots.
type Store interface {
	Insert(ctx context.Context, s *Snapshot) error
}

// Builder creates snapshots.
type Builder struct {
	Policy       CountryPolicy
	FixedCountry string

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

// NewBuilder returns a Builder for policy with the default clock and
// uuid run IDs.
func NewBuilder(policy CountryPolicy) (*Builder, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		Policy:       policy,
		FixedCountry: DefaultFixedCountry,
		Now:          time.Now,
		NewID:        func() string { return uuid.NewString() },
	}, nil
}

// Build captures evs under the country chosen by the builder's policy. The
// event slice is copied.
func (b *Builder) Build(inputCountry string, evs []events.Event) *Snapshot {
	country := b.FixedCountry
	if b.Policy == CountryInput {
		country = inputCountry
	}

	captured := make([]events.Event, len(evs))
	copy(captured, evs)

	return &Snapshot{
		RunID:   b.NewID(),
		Time:    b.Now(),
		Country: country,
		Events:  captured,
	}
}

// Validate reports whether p is a known policy.
func (p CountryPolicy) Validate() error {
	switch p {
	case CountryFixed, CountryInput:
		return nil
	default:
		return fmt.Errorf("unknown country policy %q (want %q or %q)", p, CountryFixed, CountryInput)
	}
}
