// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/services"
)

// MockCatalog is a test double for [services.Catalog].
//
// Each method delegates to its func field when set and otherwise returns an empty result.
// Calls records the method names in order.
type MockCatalog struct {
	SearchArtistFn     func(name string) (models.Artist, bool, error)
	SearchTrackFn      func(title, artist string) (models.Track, bool, error)
	TopTracksFn        func(artistID string) ([]models.Track, error)
	ArtistFn           func(artistID string) (models.Artist, error)
	ArtistGenresFn     func(artistID string) ([]string, error)
	RelatedArtistsFn   func(artistID string) ([]models.Artist, error)
	RecommendationsFn  func(req services.RecommendationRequest) ([]models.Track, error)
	InfluencedTracksFn func(artistID string, limit int) ([]models.Track, error)

	Calls    []string
	Requests []services.RecommendationRequest
}

var _ services.Catalog = (*MockCatalog)(nil)

func (m *MockCatalog) SearchArtist(ctx context.Context, name string) (models.Artist, bool, error) {
	m.Calls = append(m.Calls, "SearchArtist")
	if m.SearchArtistFn != nil {
		return m.SearchArtistFn(name)
	}
	return models.Artist{}, false, nil
}

func (m *MockCatalog) SearchTrack(ctx context.Context, title, artist string) (models.Track, bool, error) {
	m.Calls = append(m.Calls, "SearchTrack")
	if m.SearchTrackFn != nil {
		return m.SearchTrackFn(title, artist)
	}
	return models.Track{}, false, nil
}

func (m *MockCatalog) TopTracks(ctx context.Context, artistID string) ([]models.Track, error) {
	m.Calls = append(m.Calls, "TopTracks")
	if m.TopTracksFn != nil {
		return m.TopTracksFn(artistID)
	}
	return []models.Track{}, nil
}

func (m *MockCatalog) Artist(ctx context.Context, artistID string) (models.Artist, error) {
	m.Calls = append(m.Calls, "Artist")
	if m.ArtistFn != nil {
		return m.ArtistFn(artistID)
	}
	return models.Artist{ID: artistID}, nil
}

func (m *MockCatalog) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	m.Calls = append(m.Calls, "ArtistGenres")
	if m.ArtistGenresFn != nil {
		return m.ArtistGenresFn(artistID)
	}
	return []string{}, nil
}

func (m *MockCatalog) RelatedArtists(ctx context.Context, artistID string) ([]models.Artist, error) {
	m.Calls = append(m.Calls, "RelatedArtists")
	if m.RelatedArtistsFn != nil {
		return m.RelatedArtistsFn(artistID)
	}
	return []models.Artist{}, nil
}

func (m *MockCatalog) Recommendations(ctx context.Context, req services.RecommendationRequest) ([]models.Track, error) {
	m.Calls = append(m.Calls, "Recommendations")
	m.Requests = append(m.Requests, req)
	if m.RecommendationsFn != nil {
		return m.RecommendationsFn(req)
	}
	return []models.Track{}, nil
}

func (m *MockCatalog) InfluencedTracks(ctx context.Context, artistID string, limit int) ([]models.Track, error) {
	m.Calls = append(m.Calls, "InfluencedTracks")
	if m.InfluencedTracksFn != nil {
		return m.InfluencedTracksFn(artistID, limit)
	}
	return []models.Track{}, nil
}

// SampleTrack builds a track with one artist and an album, the shape most tests need.
func SampleTrack(id, name, artist, album, releaseDate string) models.Track {
	return models.Track{
		ID:      id,
		Name:    name,
		URI:     "spotify:track:" + id,
		Artists: []models.ArtistRef{{ID: "artist-" + id, Name: artist}},
		Album:   models.Album{ID: "album-" + id, Name: album, ReleaseDate: releaseDate},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
