package reconcile

import "family-sync/core/remote"

// Resolve reconciles one remote read with the local cache.
//
// On a fresh success the value is persisted through persist and returned;
// a persist failure fails the whole operation, because fresh data that
// silently bypassed the cache would leave the next offline session with an
// outdated snapshot. On failure — including stale successes — fallback is
// consulted and its outcome returned as-is; a cache miss propagates so the
// caller can render an empty state.
func Resolve[T any](res remote.Result[T], persist func(T) error, fallback func() (T, error)) (T, error) {
	if res.Fresh() {
		if err := persist(res.Value); err != nil {
			var zero T
			return zero, err
		}
		return res.Value, nil
	}
	return fallback()
}
