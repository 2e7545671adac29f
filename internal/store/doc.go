// Package store persists slim media records in an embedded SQLite
// database. The store is the single writer coordination point: WAL mode
// keeps readers unblocked, upserts are last-write-wins per item
// identifier, and all per-record failures are absorbed at this boundary
// so one bad record never aborts webhook processing.
package store
