// Package session exposes the current authenticated account to the data
// layer. Authentication itself is an external collaborator; this package
// only carries its result.
package session
