// Spotify Web API client
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/samber/lo"
)

const (
	defaultMarket   = "US"
	maxPlaylistURIs = 100

	// influenceSeeds is how many related artists seed an influence query.
	influenceSeeds = 5
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// SpotifyAlbum represents the album object embedded in a track.
type SpotifyAlbum struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Artists              []SpotifyArtist `json:"artists"`
	ReleaseDate          string          `json:"release_date"`
	ReleaseDatePrecision string          `json:"release_date_precision"`
	URI                  string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyPlaylist represents a playlist returned from creation.
type SpotifyPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	URI         string `json:"uri"`
}

type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// PlaylistSpec describes a playlist to create.
type PlaylistSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

// SpotifyClient issues bearer-authenticated requests against the Spotify Web API.
type SpotifyClient struct {
	session    *Session
	httpClient *http.Client
	baseURL    string
	market     string
	logger     *log.Logger
}

// ClientOpts configures a [SpotifyClient].
type ClientOpts struct {
	Session    *Session
	HTTPClient *http.Client
	BaseURL    string
	Market     string
	Logger     *log.Logger
}

// NewSpotifyClient creates a client bound to an authenticated session.
func NewSpotifyClient(opts ClientOpts) (*SpotifyClient, error) {
	if opts.Session == nil || opts.Session.AccessToken() == "" {
		return nil, fmt.Errorf("%w: a session is required", shared.ErrAuthFailed)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.Market == "" {
		opts.Market = defaultMarket
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SpotifyClient{
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		market:     opts.Market,
		logger:     shared.WithLogger(opts.Logger, "service", "spotify"),
	}, nil
}

// Session returns the session the client was built with.
func (c *SpotifyClient) Session() *Session { return c.session }

// doRequest performs an authenticated request and returns the raw body of a 2xx response.
func (c *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, query url.Values, body any) ([]byte, error) {
	if c.session.Expired() {
		return nil, fmt.Errorf("%w: authenticate again", shared.ErrTokenExpired)
	}

	apiURL := c.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", "method", method, "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrNetwork, method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", shared.ErrNetwork, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(method, endpoint, resp.StatusCode, data)
	}

	return data, nil
}

// statusError maps a non-2xx status onto the error taxonomy.
func statusError(method, endpoint string, status int, body []byte) error {
	detail := fmt.Sprintf("%s %s: status %d", method, endpoint, status)
	var apiErr spotifyError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		detail += ": " + apiErr.Error.Message
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, detail)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, detail)
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, detail)
	default:
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, detail)
	}
}

// SearchArtist returns the best artist match for name. found is false when nothing matches.
func (c *SpotifyClient) SearchArtist(ctx context.Context, name string) (artist models.Artist, found bool, err error) {
	if strings.TrimSpace(name) == "" {
		return models.Artist{}, false, fmt.Errorf("%w: artist name is empty", shared.ErrMissingArgument)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/search", ArtistSearchQuery(name), nil)
	if err != nil {
		return models.Artist{}, false, err
	}

	result, err := Extract[SpotifyArtist](body, ShapeArtistSearch)
	if err != nil {
		return models.Artist{}, false, err
	}
	if result.Empty() {
		c.logger.Info("no artist with name", "name", name)
		return models.Artist{}, false, nil
	}

	return mapArtist(result.Items[0]), true, nil
}

// SearchTrack returns the best track match for title, narrowed by artist when non-empty. found is false when nothing matches.
func (c *SpotifyClient) SearchTrack(ctx context.Context, title, artist string) (track models.Track, found bool, err error) {
	if strings.TrimSpace(title) == "" {
		return models.Track{}, false, fmt.Errorf("%w: track name is empty", shared.ErrMissingArgument)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/search", TrackSearchQuery(title, artist), nil)
	if err != nil {
		return models.Track{}, false, err
	}

	result, err := Extract[SpotifyTrack](body, ShapeTrackSearch)
	if err != nil {
		return models.Track{}, false, err
	}
	if result.Empty() {
		c.logger.Info("no track found with the specified track and artist name", "track", title, "artist", artist)
		return models.Track{}, false, nil
	}

	return mapTrack(result.Items[0]), true, nil
}

// TopTracks returns an artist's most popular tracks in the configured market.
func (c *SpotifyClient) TopTracks(ctx context.Context, artistID string) ([]models.Track, error) {
	if err := requireID("artist", artistID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("market", c.market)

	body, err := c.doRequest(ctx, http.MethodGet, "/artists/"+url.PathEscape(artistID)+"/top-tracks", query, nil)
	if err != nil {
		return nil, err
	}

	return extractTracks(c.logger, body, ShapeTopTracks)
}

// Artist retrieves an artist profile by ID.
func (c *SpotifyClient) Artist(ctx context.Context, artistID string) (models.Artist, error) {
	if err := requireID("artist", artistID); err != nil {
		return models.Artist{}, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/artists/"+url.PathEscape(artistID), nil, nil)
	if err != nil {
		return models.Artist{}, err
	}

	var artist SpotifyArtist
	if err := json.Unmarshal(body, &artist); err != nil {
		return models.Artist{}, fmt.Errorf("%w: artist-profile: %v", shared.ErrMalformedResponse, err)
	}
	if artist.ID == "" {
		return models.Artist{}, fmt.Errorf("%w: artist-profile: missing id", shared.ErrMalformedResponse)
	}

	return mapArtist(artist), nil
}

// ArtistGenres returns an artist's genre tags; an artist without tags yields an empty list.
func (c *SpotifyClient) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	if err := requireID("artist", artistID); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/artists/"+url.PathEscape(artistID), nil, nil)
	if err != nil {
		return nil, err
	}

	result, err := Extract[string](body, ShapeArtistProfile)
	if err != nil {
		return nil, err
	}
	if result.Diagnostic != "" {
		c.logger.Debug(result.Diagnostic, "artist", artistID)
	}

	return lo.Compact(result.Items), nil
}

// RelatedArtists returns artists Spotify considers similar to artistID.
func (c *SpotifyClient) RelatedArtists(ctx context.Context, artistID string) ([]models.Artist, error) {
	if err := requireID("artist", artistID); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/artists/"+url.PathEscape(artistID)+"/related-artists", nil, nil)
	if err != nil {
		return nil, err
	}

	result, err := Extract[SpotifyArtist](body, ShapeRelatedArtists)
	if err != nil {
		return nil, err
	}
	if result.Diagnostic != "" {
		c.logger.Debug(result.Diagnostic, "artist", artistID)
	}

	return lo.Map(result.Items, func(a SpotifyArtist, _ int) models.Artist { return mapArtist(a) }), nil
}

// Recommendations fetches tracks for req.
func (c *SpotifyClient) Recommendations(ctx context.Context, req RecommendationRequest) ([]models.Track, error) {
	query, err := req.Values()
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/recommendations", query, nil)
	if err != nil {
		return nil, err
	}

	return extractTracks(c.logger, body, ShapeRecommendations)
}

// InfluencedTracks recommends tracks seeded by the first five artists related to artistID.
//
// An artist with no related artists yields an empty list.
func (c *SpotifyClient) InfluencedTracks(ctx context.Context, artistID string, limit int) ([]models.Track, error) {
	related, err := c.RelatedArtists(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if len(related) == 0 {
		c.logger.Info("no related artists", "artist", artistID)
		return []models.Track{}, nil
	}

	ids := lo.Map(lo.Slice(related, 0, influenceSeeds), func(a models.Artist, _ int) string { return a.ID })
	return c.Recommendations(ctx, ByArtists(ids, limit))
}

// CreatePlaylist creates a playlist owned by userID.
func (c *SpotifyClient) CreatePlaylist(ctx context.Context, userID string, spec PlaylistSpec) (models.Playlist, error) {
	if err := requireID("user", userID); err != nil {
		return models.Playlist{}, err
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/playlists", nil, spec)
	if err != nil {
		return models.Playlist{}, err
	}

	var playlist SpotifyPlaylist
	if err := json.Unmarshal(body, &playlist); err != nil {
		return models.Playlist{}, fmt.Errorf("%w: create-playlist: %v", shared.ErrMalformedResponse, err)
	}
	if playlist.ID == "" {
		return models.Playlist{}, fmt.Errorf("%w: create-playlist: missing id", shared.ErrMalformedResponse)
	}

	return models.Playlist{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Public:      playlist.Public,
		URI:         playlist.URI,
	}, nil
}

// AddTracks appends up to 100 track URIs to a playlist in a single request and returns the new snapshot ID.
func (c *SpotifyClient) AddTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	if err := requireID("playlist", playlistID); err != nil {
		return "", err
	}
	if len(uris) == 0 || len(uris) > maxPlaylistURIs {
		return "", fmt.Errorf("%w: between 1 and %d track URIs required, got %d", shared.ErrInvalidInput, maxPlaylistURIs, len(uris))
	}

	payload := struct {
		URIs []string `json:"uris"`
	}{URIs: uris}

	body, err := c.doRequest(ctx, http.MethodPost, "/playlists/"+url.PathEscape(playlistID)+"/tracks", nil, payload)
	if err != nil {
		return "", err
	}

	var snapshot struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return "", fmt.Errorf("%w: add-tracks: %v", shared.ErrMalformedResponse, err)
	}

	return snapshot.SnapshotID, nil
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id is empty", shared.ErrMissingArgument, kind)
	}
	return nil
}

func extractTracks(logger *log.Logger, body []byte, shape Shape) ([]models.Track, error) {
	result, err := Extract[SpotifyTrack](body, shape)
	if err != nil {
		return nil, err
	}
	if result.Diagnostic != "" {
		logger.Debug(result.Diagnostic)
	}
	return mapTracks(result.Items), nil
}
