// Package storage wraps the S3-compatible object store behind a small
// Client interface.
//
// The bucket holds two kinds of objects: JSON entity documents managed by
// core/remote, and user media uploaded through the Uploader. The interface
// exists so the reconciliation layer and its tests can substitute a mock
// (see storage/mocks).
package storage
