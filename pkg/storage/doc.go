// Package storage persists snapshots.
//
// Two backends implement snapshot.Store:
//   - MongoStore: one document per snapshot in seatgeek.resultsets (default)
//   - RedisStore: one JSON value per snapshot plus a run ID index list
//
// Each insert is a single write; there is no update, read or schema
// migration path. Inserts are counted in snapshot_store_inserts_total.
package storage
