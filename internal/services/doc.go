// Package services talks to the Spotify Web API.
//
// # Authentication
//
// [Authenticator] runs the client-credentials grant once and returns a [Session].
// The session is passed explicitly to [NewSpotifyClient]; there is no package-level token.
// Sessions are never refreshed, and an expired one fails fast with [shared.ErrTokenExpired].
//
// # Query composition
//
// [RecommendationRequest] combines a [SeedSpec] with a limit and optional filters.
// A SeedSpec holds exactly one seed kind (tracks, artists or genres), so two seed types cannot be mixed by accident.
// The variant constructors ([LessPopular], [SameEra], [ByMood], [ByGenres], [ByArtists]) mirror the discovery strategies.
// [NewDateWindow] is the pure calendar computation behind [SameEra].
//
// # Response extraction
//
// [Extract] unwraps the list at a [Shape]'s path. Empty results are normal and carry a diagnostic; unexpected layouts fail with [shared.ErrMalformedResponse].
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrAuthFailed] : token exchange rejected, or 401 from the API
//   - [shared.ErrNetwork] : transport failure or timeout, retryable
//   - [shared.ErrServiceUnavailable] : 429 or 5xx, retryable
//   - [shared.ErrNotFound] : 404 from the API
//   - [shared.ErrMalformedResponse] : unexpected JSON layout
//   - [shared.ErrPartialPublish] : playlist created but tracks not added
//
// A search with no match is not an error: the search methods return found=false.
package services
