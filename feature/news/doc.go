// Package news backs the feed screen: posts joined with their authors and
// comment counts, plus the like and comment write paths.
//
// The three collections are reconciled independently against the local
// cache before the in-memory join. A post whose author is missing from the
// user directory is dropped from the feed rather than surfaced as a
// partial-data error.
package news
