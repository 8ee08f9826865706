// Package repositories implements SQLite persistence for the publish ledger.
//
// Key Implementations:
//   - [PublishRepository] : publish attempts with status lookups, satisfying services.PublishRecorder
//
// The ledger is an operations record. Catalog data is never stored; every search and recommendation goes to the API.
package repositories
