// Package model defines the four record families shared by the remote
// document store and the local cache: User, Post, Comment and PresenceStatus.
//
// The json tags describe the remote document shape; the gorm tags describe
// the cache schema. The two stores always carry the same entity values, so a
// single struct per entity keeps the reconciliation layer shape-agnostic.
//
// Timestamps are string-encoded with the app's custom layout (see TimeLayout)
// rather than time.Time, matching the documents already in the backend.
package model
