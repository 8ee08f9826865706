// Package tasks orchestrates multi-step discovery runs over a [services.Catalog] with progress reporting.
//
// # Discovery
//
// [Discovery.Run] resolves a seed track (and optionally an artist), then fills independent sections:
//
//  1. Less popular : recommendations under a popularity ceiling
//  2. Same era : recommendations released within a window around the seed's album date
//  3. By genre : recommendations seeded by the seed artist's genres, skipped when there are none
//  4. Influenced : recommendations seeded by the seed artist's related artists
//
// Each [Section] carries its own error, so one failing request does not hide the others.
// A seed track that cannot be found marks every section with shared.ErrNotFound; only a failed seed request aborts the run.
//
// # Progress Reporting
//
// Updates are sent on an optional channel with select/default so a slow reader never blocks a run.
package tasks
