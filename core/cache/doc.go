// Package cache is the local persisted store holding the last-known-good
// snapshot of every entity collection.
//
// The cache is never the source of truth while the backend is reachable and
// fresh; it only answers when a remote read has already failed. Two rules
// follow from that role:
//
//   - An empty collection is not a valid zero-row success. Reads return
//     ErrDataNotFound so callers know the cache is unpopulated and surface
//     "no data available" instead of an empty snapshot.
//   - Writes are idempotent upserts keyed on the entity id; re-saving a row
//     overwrites it in place and never accumulates duplicates.
//
// All access is serialized through a single worker goroutine, the Go shape
// of a dedicated serial queue: the underlying gorm connection sees one
// reader or writer at a time. Callers block until their job has run (or
// their context is done), so the cache must not be assumed non-blocking.
//
// A store whose database failed to open runs in a degraded mode instead of
// being nil: reads miss, writes no-op. Callers never branch on
// availability.
package cache
