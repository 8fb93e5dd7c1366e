// Package post backs the add-post screen.
//
// A draft holds optional text and optional media. Media goes to object
// storage first; only once the upload resolves to a public URL is the post
// document written. There is no offline queueing: a failed upload or a
// failed document write surfaces to the caller.
package post
