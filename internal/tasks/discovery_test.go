package tasks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/shared"
	tu "github.com/desertthunder/spotrec/internal/testing"
)

func seedCatalog() *tu.MockCatalog {
	seed := tu.SampleTrack("t1", "Here Comes The Sun", "The Beatles", "Abbey Road", "1969-09-26")
	seed.Artists[0].ID = "beatles"

	return &tu.MockCatalog{
		SearchTrackFn: func(title, artist string) (models.Track, bool, error) {
			return seed, true, nil
		},
		ArtistGenresFn: func(artistID string) ([]string, error) {
			return []string{"british invasion", "classic rock", "merseybeat", "psychedelic rock", "rock", "pop"}, nil
		},
		RecommendationsFn: func(req services.RecommendationRequest) ([]models.Track, error) {
			return []models.Track{tu.SampleTrack("r1", "Rec", "Someone", "Album", "1970")}, nil
		},
		InfluencedTracksFn: func(artistID string, limit int) ([]models.Track, error) {
			return []models.Track{tu.SampleTrack("i1", "Influenced", "Other", "Album", "1968")}, nil
		},
	}
}

func newTestDiscovery(catalog services.Catalog) *Discovery {
	return NewDiscovery(catalog, shared.NewLogger(io.Discard))
}

func TestDiscovery(t *testing.T) {
	in := DiscoveryInput{TrackName: "Here Comes The Sun", TrackArtist: "The Beatles"}

	t.Run("fills every section", func(t *testing.T) {
		catalog := seedCatalog()
		report, err := newTestDiscovery(catalog).Run(context.Background(), nil, in)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if report.Seed == nil || report.Seed.ID != "t1" {
			t.Fatalf("unexpected seed %+v", report.Seed)
		}
		if len(report.Sections) != 4 {
			t.Fatalf("expected 4 sections, got %d", len(report.Sections))
		}
		for _, s := range report.Sections {
			if s.Err != nil || len(s.Tracks) != 1 {
				t.Errorf("section %s: err=%v tracks=%d", s.Kind, s.Err, len(s.Tracks))
			}
		}
		if len(report.Failed()) != 0 {
			t.Errorf("expected no failed sections")
		}
	})

	t.Run("builds the expected requests", func(t *testing.T) {
		catalog := seedCatalog()
		if _, err := newTestDiscovery(catalog).Run(context.Background(), nil, in); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(catalog.Requests) != 3 {
			t.Fatalf("expected 3 recommendation requests, got %d", len(catalog.Requests))
		}

		less, _ := catalog.Requests[0].Values()
		if less.Get("max_popularity") != "50" || less.Get("seed_tracks") != "t1" {
			t.Errorf("unexpected less popular query %v", less)
		}

		era, _ := catalog.Requests[1].Values()
		if era.Get("min_release_date") != "1964-09-26" || era.Get("max_release_date") != "1974-09-26" {
			t.Errorf("unexpected window %s..%s", era.Get("min_release_date"), era.Get("max_release_date"))
		}
		if era.Get("max_popularity") != "100" {
			t.Errorf("max_popularity = %q, want 100", era.Get("max_popularity"))
		}

		genre, err := catalog.Requests[2].Values()
		if err != nil {
			t.Fatalf("genre request should be valid, got %v", err)
		}
		if got := strings.Split(genre.Get("seed_genres"), ","); len(got) != services.MaxSeeds {
			t.Errorf("expected genres truncated to %d, got %v", services.MaxSeeds, got)
		}
	})

	t.Run("section titles", func(t *testing.T) {
		report, _ := newTestDiscovery(seedCatalog()).Run(context.Background(), nil, in)
		want := []string{
			"Recommended Tracks that are less Popular",
			"Recommended Tracks within ±5 Years",
			"Recommended Tracks By Genres",
			"Influenced Tracks Based on Related Artists",
		}
		for i, s := range report.Sections {
			if s.Title != want[i] {
				t.Errorf("section %d title = %q, want %q", i, s.Title, want[i])
			}
		}
	})

	t.Run("one failing section does not abort the others", func(t *testing.T) {
		catalog := seedCatalog()
		catalog.InfluencedTracksFn = func(string, int) ([]models.Track, error) {
			return nil, shared.ErrServiceUnavailable
		}

		report, err := newTestDiscovery(catalog).Run(context.Background(), nil, in)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		failed := report.Failed()
		if len(failed) != 1 || failed[0].Kind != SectionInfluenced {
			t.Fatalf("expected only influenced to fail, got %+v", failed)
		}
		if !errors.Is(failed[0].Err, shared.ErrServiceUnavailable) {
			t.Errorf("unexpected error %v", failed[0].Err)
		}
		if len(report.Sections[0].Tracks) != 1 {
			t.Error("earlier sections should still have tracks")
		}
	})

	t.Run("no genres skips the genre section", func(t *testing.T) {
		catalog := seedCatalog()
		catalog.ArtistGenresFn = func(string) ([]string, error) { return []string{}, nil }

		report, _ := newTestDiscovery(catalog).Run(context.Background(), nil, in)
		genre := report.Sections[SectionByGenre]
		if genre.Skipped == "" || genre.Err != nil || len(genre.Tracks) != 0 {
			t.Errorf("expected skipped genre section, got %+v", genre)
		}
		if len(catalog.Requests) != 2 {
			t.Errorf("expected 2 recommendation requests, got %d", len(catalog.Requests))
		}
	})

	t.Run("missing seed track", func(t *testing.T) {
		catalog := &tu.MockCatalog{}

		report, err := newTestDiscovery(catalog).Run(context.Background(), nil, in)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report.Seed != nil {
			t.Error("expected no seed")
		}
		for _, s := range report.Sections {
			if !s.IsNotFound() {
				t.Errorf("section %s: expected ErrNotFound, got %v", s.Kind, s.Err)
			}
		}
		if len(catalog.Requests) != 0 {
			t.Error("no recommendations should be requested without a seed")
		}
	})

	t.Run("seed search error aborts", func(t *testing.T) {
		catalog := &tu.MockCatalog{
			SearchTrackFn: func(string, string) (models.Track, bool, error) {
				return models.Track{}, false, shared.ErrNetwork
			},
		}
		if _, err := newTestDiscovery(catalog).Run(context.Background(), nil, in); !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("empty track name", func(t *testing.T) {
		if _, err := newTestDiscovery(&tu.MockCatalog{}).Run(context.Background(), nil, DiscoveryInput{}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unparseable release date fails only same era", func(t *testing.T) {
		catalog := seedCatalog()
		catalog.SearchTrackFn = func(string, string) (models.Track, bool, error) {
			return tu.SampleTrack("t1", "X", "Y", "Z", "unknown"), true, nil
		}

		report, _ := newTestDiscovery(catalog).Run(context.Background(), nil, in)
		failed := report.Failed()
		if len(failed) != 1 || failed[0].Kind != SectionSameEra || !errors.Is(failed[0].Err, shared.ErrInvalidInput) {
			t.Errorf("expected only same era to fail with ErrInvalidInput, got %+v", failed)
		}
	})

	t.Run("artist and top tracks", func(t *testing.T) {
		catalog := seedCatalog()
		catalog.SearchArtistFn = func(name string) (models.Artist, bool, error) {
			return models.Artist{ID: "bo", Name: "Blood Orange"}, true, nil
		}
		catalog.TopTracksFn = func(artistID string) ([]models.Track, error) {
			if artistID != "bo" {
				t.Errorf("unexpected artist %s", artistID)
			}
			return []models.Track{tu.SampleTrack("top1", "Champagne Coast", "Blood Orange", "Coastal Grooves", "2011")}, nil
		}

		withArtist := in
		withArtist.ArtistName = "blood orange"
		report, err := newTestDiscovery(catalog).Run(context.Background(), nil, withArtist)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report.Artist == nil || report.Artist.Name != "Blood Orange" || len(report.TopTracks) != 1 {
			t.Errorf("unexpected artist section %+v %+v", report.Artist, report.TopTracks)
		}
		if report.ArtistErr != nil {
			t.Errorf("unexpected artist error %v", report.ArtistErr)
		}
	})

	t.Run("unknown artist is reported without aborting", func(t *testing.T) {
		withArtist := in
		withArtist.ArtistName = "nobody"

		report, err := newTestDiscovery(seedCatalog()).Run(context.Background(), nil, withArtist)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !errors.Is(report.ArtistErr, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", report.ArtistErr)
		}
		if report.Seed == nil {
			t.Error("seed should still be resolved")
		}
	})

	t.Run("progress updates", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 16)
		if _, err := newTestDiscovery(seedCatalog()).Run(context.Background(), progress, in); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var updates []ProgressUpdate
		for u := range progress {
			updates = append(updates, u)
		}
		if len(updates) == 0 {
			t.Fatal("expected progress updates")
		}
		last := updates[len(updates)-1]
		if last.Phase != Recommend || last.Step != last.Total {
			t.Errorf("unexpected final update %+v", last)
		}
		if !strings.Contains(last.Message, "✓") {
			t.Errorf("expected success marker in %q", last.Message)
		}
	})

	t.Run("section updates are sent as each section finishes", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 16)
		catalog := seedCatalog()

		var seen []int
		catalog.RecommendationsFn = func(req services.RecommendationRequest) ([]models.Track, error) {
			sections := 0
			for _, u := range drain(progress) {
				if u.Phase == Recommend {
					sections++
				}
			}
			seen = append(seen, sections)
			return []models.Track{tu.SampleTrack("r1", "Rec", "Someone", "Album", "1970")}, nil
		}

		if _, err := newTestDiscovery(catalog).Run(context.Background(), progress, in); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []int{0, 1, 1}
		if len(seen) != len(want) {
			t.Fatalf("expected %d recommendation calls, got %d", len(want), len(seen))
		}
		for i := range want {
			if seen[i] != want[i] {
				t.Errorf("call %d: expected %d new section updates, got %d", i, want[i], seen[i])
			}
		}
	})

	t.Run("warns about same era tracks outside the window", func(t *testing.T) {
		catalog := seedCatalog()
		catalog.RecommendationsFn = func(req services.RecommendationRequest) ([]models.Track, error) {
			return []models.Track{
				tu.SampleTrack("r1", "Inside", "Someone", "Album", "1971-02-01"),
				tu.SampleTrack("r2", "Outside", "Someone", "Album", "2020-01-01"),
			}, nil
		}

		var logs bytes.Buffer
		if _, err := NewDiscovery(catalog, shared.NewLogger(&logs)).Run(context.Background(), nil, in); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if strings.Count(logs.String(), "recommendations outside release window") != 1 {
			t.Errorf("expected one window warning, got %s", logs.String())
		}
		if !strings.Contains(logs.String(), "count=1") {
			t.Errorf("expected one track outside the window, got %s", logs.String())
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		if _, err := newTestDiscovery(seedCatalog()).Run(context.Background(), progress, in); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	tc := []struct {
		phase Phase
		want  string
	}{
		{SearchArtist, "search_artist"},
		{FetchTopTracks, "fetch_top_tracks"},
		{SearchSeed, "search_seed"},
		{FetchGenres, "fetch_genres"},
		{Recommend, "recommend"},
		{Phase(99), ""},
	}
	for _, tt := range tc {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

// drain returns every update currently buffered in ch without blocking.
func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var updates []ProgressUpdate
	for {
		select {
		case u := <-ch:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}
