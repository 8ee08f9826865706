// package services defines the Spotify catalog and playlist interfaces and their HTTP implementation
package services

import (
	"context"

	"github.com/desertthunder/spotrec/internal/models"
)

// Catalog defines the read side of the Spotify API used for discovery.
type Catalog interface {
	// SearchArtist returns the best match for name; found is false when there is none.
	SearchArtist(ctx context.Context, name string) (models.Artist, bool, error)

	// SearchTrack returns the best match for title by artist; found is false when there is none.
	SearchTrack(ctx context.Context, title, artist string) (models.Track, bool, error)

	// TopTracks returns an artist's most popular tracks.
	TopTracks(ctx context.Context, artistID string) ([]models.Track, error)

	// Artist returns an artist profile.
	Artist(ctx context.Context, artistID string) (models.Artist, error)

	// ArtistGenres returns an artist's genre tags, possibly empty.
	ArtistGenres(ctx context.Context, artistID string) ([]string, error)

	// RelatedArtists returns artists similar to artistID.
	RelatedArtists(ctx context.Context, artistID string) ([]models.Artist, error)

	// Recommendations returns tracks for a seeded request.
	Recommendations(ctx context.Context, req RecommendationRequest) ([]models.Track, error)

	// InfluencedTracks returns recommendations seeded by an artist's related artists.
	InfluencedTracks(ctx context.Context, artistID string, limit int) ([]models.Track, error)
}

// PlaylistWriter defines the two calls that publish a playlist.
type PlaylistWriter interface {
	CreatePlaylist(ctx context.Context, userID string, spec PlaylistSpec) (models.Playlist, error)
	AddTracks(ctx context.Context, playlistID string, uris []string) (string, error)
}

// PublishRecorder persists the outcome of a publish attempt.
type PublishRecorder interface {
	RecordPublish(record models.PublishRecord) error
}

var (
	_ Catalog        = (*SpotifyClient)(nil)
	_ PlaylistWriter = (*SpotifyClient)(nil)
)
