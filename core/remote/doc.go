// Package remote is the thin client over the cloud document store.
//
// Every entity lives as one JSON document under its collection prefix
// (users/, posts/, comments/, statuses/). Reads return a Result carrying a
// staleness flag next to the usual value/error pair: when the backend cannot
// be reached but the client still holds the last fresh listing, that
// snapshot is served with Stale=true instead of failing outright. Staleness
// is the backend-level "served from local cache" signal; the reconciliation
// layer treats it as a failure so stale data never reaches the persisted
// cache as ground truth.
//
// Errors are split into two families. ErrParsing means the backend answered
// but the document was absent or undecodable — upstream this reads as "the
// record does not exist yet". ErrFetching means transport failure. The two
// must stay distinguishable: a profile write creates a missing user record
// on ErrParsing but aborts on ErrFetching.
//
// Writes are guarded by a connectivity probe (a lightweight users listing).
// A write against an unreachable backend fails with ErrUnreachable before
// any mutation is attempted.
package remote
