// Package family backs the family list and the map screen.
//
// Both screens read the same two collections — the user directory and the
// presence rows — reconciled independently against the local cache and
// joined in memory. The derived online/offline/atHome state is computed at
// read time from the last ping's age and its distance to the configured
// home coordinate; it is never stored.
package family
