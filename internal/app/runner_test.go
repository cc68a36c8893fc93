package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/seatgeek-snapshot/internal/testutil"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/client"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/events"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/pagination"
	"github.com/Sternrassler/seatgeek-snapshot/pkg/snapshot"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	inserted []*snapshot.Snapshot
	err      error
}

func (m *memoryStore) Insert(_ context.Context, s *snapshot.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, s)
	return nil
}

type staticSource struct {
	evs []events.Event
	err error
}

func (s staticSource) FetchAll(context.Context, string) ([]events.Event, error) {
	return s.evs, s.err
}

func testBuilder(t *testing.T, policy snapshot.CountryPolicy) *snapshot.Builder {
	t.Helper()
	b, err := snapshot.NewBuilder(policy)
	require.NoError(t, err)
	b.Now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return b
}

func TestRunner_Run(t *testing.T) {
	store := &memoryStore{}
	src := staticSource{evs: []events.Event{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}}
	runner := NewRunner(src, testBuilder(t, snapshot.CountryFixed), store)

	snap, err := runner.Run(context.Background(), "uk")
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.Same(t, snap, store.inserted[0])
	require.Equal(t, 2, snap.Len())
	require.Equal(t, "us", snap.Country)
}

func TestRunner_Run_InputPolicy(t *testing.T) {
	store := &memoryStore{}
	runner := NewRunner(staticSource{}, testBuilder(t, snapshot.CountryInput), store)

	snap, err := runner.Run(context.Background(), "uk")
	require.NoError(t, err)
	require.Equal(t, "uk", snap.Country)
	require.Equal(t, 0, snap.Len())
}

func TestRunner_Run_FetchErrorStoresNothing(t *testing.T) {
	fe := &client.FetchError{Class: client.ErrorClassNetwork, Err: errors.New("connection refused")}
	store := &memoryStore{}
	runner := NewRunner(staticSource{err: fe}, testBuilder(t, snapshot.CountryFixed), store)

	snap, err := runner.Run(context.Background(), "")
	require.Nil(t, snap)
	require.True(t, client.IsFetchError(err))
	require.Empty(t, store.inserted)
}

func TestRunner_Run_StoreError(t *testing.T) {
	store := &memoryStore{err: errors.New("no reachable servers")}
	runner := NewRunner(staticSource{evs: []events.Event{{ID: 1}}}, testBuilder(t, snapshot.CountryFixed), store)

	snap, err := runner.Run(context.Background(), "")
	require.Nil(t, snap)
	require.ErrorContains(t, err, "no reachable servers")
}

func TestRunner_Run_Listing(t *testing.T) {
	var listing bytes.Buffer
	src := staticSource{evs: []events.Event{{ID: 1, Title: "Coachella", Performers: []events.Performer{{ID: 9, Name: "Blur"}}}}}
	runner := NewRunner(src, testBuilder(t, snapshot.CountryFixed), &memoryStore{})
	runner.Listing = &listing

	_, err := runner.Run(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "Coachella\n\tBlur (Id: 9)\n\n", listing.String())
}

func TestRunner_EndToEnd(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetEventPages(250, 100, 100, 50)

	cfg := client.DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = mock.URL()
	api, err := client.New(cfg)
	require.NoError(t, err)

	acc := pagination.NewAccumulator(events.NewFetcher(api), pagination.DefaultConfig())
	store := &memoryStore{}
	runner := NewRunner(acc, testBuilder(t, snapshot.CountryFixed), store)

	snap, err := runner.Run(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 3, mock.GetRequestCount())
	require.Equal(t, 250, snap.Len())
	require.EqualValues(t, 1, snap.Events[0].ID)
	require.EqualValues(t, 250, snap.Events[249].ID)
	require.Len(t, store.inserted, 1)
}

func TestRunner_EndToEnd_FirstPageTransportError(t *testing.T) {
	mock := testutil.NewMockAPI()
	baseURL := mock.URL()
	mock.Close()

	cfg := client.DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = baseURL
	api, err := client.New(cfg)
	require.NoError(t, err)

	acc := pagination.NewAccumulator(events.NewFetcher(api), pagination.DefaultConfig())
	store := &memoryStore{}
	runner := NewRunner(acc, testBuilder(t, snapshot.CountryFixed), store)

	snap, err := runner.Run(context.Background(), "")
	require.Nil(t, snap)

	var fe *client.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, client.ErrorClassNetwork, fe.Class)
	require.Empty(t, store.inserted)
}

func TestRunner_EndToEnd_MalformedPage(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/events", testutil.NewMalformedResponse())

	cfg := client.DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = mock.URL()
	api, err := client.New(cfg)
	require.NoError(t, err)

	acc := pagination.NewAccumulator(events.NewFetcher(api), pagination.DefaultConfig())
	store := &memoryStore{}
	runner := NewRunner(acc, testBuilder(t, snapshot.CountryFixed), store)

	_, err = runner.Run(context.Background(), "")
	var de *events.DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "meta", de.Field)
	require.Empty(t, store.inserted)
}
