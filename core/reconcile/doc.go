// Package reconcile holds the one algorithm every feature repository
// shares: reconciling a remote read with the local cache.
//
// The policy is deliberately small. A fresh remote success is persisted to
// the cache and returned; anything else — transport failure or a stale
// result served from the remote client's own snapshot — degrades once,
// immediately, to whatever the cache last held. There is no retry and no
// merging: the cache is a fallback snapshot, not a second source of truth.
//
// Freshness, not mere success, gates persistence. A stale success must
// never overwrite the cache or be handed to the caller as ground truth.
//
// Repositories fan out one Resolve per collection (posts, users, comments,
// statuses) concurrently and join afterwards; a failed collection degrades
// independently without cancelling its siblings.
package reconcile
