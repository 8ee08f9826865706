// Package models defines the entities spotrec passes between layers.
//
// Catalog entities are transient per-call results:
//   - [Artist] : artist profile with genre tags
//   - [Track] : track with popularity, [ArtistRef] credits and [Album] metadata
//   - [Playlist] : playlist created by the publisher
//
// The only persisted entity is [PublishRecord], one row per playlist publish attempt.
// A [PublishPartial] record points at a remote playlist that exists but is empty.
package models
