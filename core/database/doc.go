// Package database opens the gorm connection backing the local cache.
//
// sqlite is the default driver and keeps the cache a single on-device file,
// the same role the persisted store plays in the mobile clients. A mysql
// driver is available for hosted deployments. Connection failure is not
// fatal to the app: the cache layer runs in a degraded, read-miss mode
// when no database is available (see core/cache).
package database
