package remote

// Result is the outcome of a remote read. Stale is orthogonal to Err: a
// stale result is a transport-level success served from the client's own
// snapshot rather than a fresh fetch.
type Result[T any] struct {
	Value T
	Stale bool
	Err   error
}

// Fresh reports whether the result is a successful, non-stale fetch. Only
// fresh results may be persisted to the local cache.
func (r Result[T]) Fresh() bool {
	return r.Err == nil && !r.Stale
}

// Ok wraps a fresh value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Cached wraps a snapshot value served because the backend was unreachable.
func Cached[T any](v T) Result[T] {
	return Result[T]{Value: v, Stale: true}
}

// Fail wraps a read failure.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}
