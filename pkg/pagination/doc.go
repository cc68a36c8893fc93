// Package pagination accumulates every page of the events endpoint.
//
// The listings API reports the total event count in the metadata of every
// page. The accumulator fetches page 1, reads that total and keeps requesting
// the next page until it holds at least that many events. Pages are fetched
// one at a time; the first failure aborts the whole run.
//
// Example usage:
//
//	acc := pagination.NewAccumulator(events.NewFetcher(api), pagination.DefaultConfig())
//	all, err := acc.FetchAll(ctx, "us")
//
// The accumulator:
//   - Fetches page 1 to learn the total
//   - Returns an empty slice when the total is zero or page 1 is empty
//   - Appends pages 2..n in order, without deduplication
//   - Stops once the accumulated count reaches the total
//   - Optionally fails with ErrPageLimitExceeded after Config.MaxPages pages
package pagination
