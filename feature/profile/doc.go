// Package profile backs the profile screen and the edit-profile flow.
//
// The read path is the usual two-collection reconcile (the user document
// plus their posts). The write paths are heavier: EnsureAccount creates the
// user document on first sign-in, Update rewrites names and optionally the
// avatar, and SetPro flips the premium flag. An avatar upload that is still
// in flight when a newer edit arrives is cancelled and its result discarded.
package profile
