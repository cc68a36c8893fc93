// Package events holds the listings data model and the single-page fetcher
// for the SeatGeek events endpoint.
//
// Decoding is explicit: the body is unmarshalled into wire structs with
// pointer fields, then converted field by field. Absent required fields fail
// with a *DecodeError wrapping ErrMissingField; absent optional strings become
// empty and absent scores stay nil, so "no score" never reads as zero.
//
// Example usage:
//
//	api, _ := client.New(client.DefaultConfig("my-app/1.0"))
//	fetcher := events.NewFetcher(api)
//	page, err := fetcher.FetchPage(ctx, 1, 100, "us")
package events
