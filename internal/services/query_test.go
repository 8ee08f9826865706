package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/desertthunder/spotrec/internal/shared"
)

func TestSeedSpec(t *testing.T) {
	t.Run("genres join with commas", func(t *testing.T) {
		q, err := ByGenres([]string{"indie", "soul"}, 10).Values()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := q.Get("seed_genres"); got != "indie,soul" {
			t.Errorf("seed_genres = %q, want %q", got, "indie,soul")
		}
		if q.Has("seed_tracks") || q.Has("seed_artists") {
			t.Errorf("only one seed parameter should be set, got %v", q)
		}
	})

	t.Run("constructors set kind", func(t *testing.T) {
		tc := []struct {
			spec  SeedSpec
			param string
		}{
			{TrackSeeds("t1"), "seed_tracks"},
			{ArtistSeeds("a1"), "seed_artists"},
			{GenreSeeds("soul"), "seed_genres"},
		}
		for _, tt := range tc {
			if got := tt.spec.Kind().Param(); got != tt.param {
				t.Errorf("Param() = %q, want %q", got, tt.param)
			}
		}
	})

	t.Run("drops blanks and duplicates", func(t *testing.T) {
		spec := ArtistSeeds("a1", " ", "a2", "a1", "")
		if got := spec.Joined(); got != "a1,a2" {
			t.Errorf("Joined() = %q, want %q", got, "a1,a2")
		}
	})

	t.Run("Values returns a copy", func(t *testing.T) {
		spec := TrackSeeds("t1")
		values := spec.Values()
		values[0] = "changed"
		if spec.Joined() != "t1" {
			t.Error("mutating Values() should not change the seed spec")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			spec    SeedSpec
			wantErr bool
		}{
			{name: "zero value", spec: SeedSpec{}, wantErr: true},
			{name: "empty", spec: TrackSeeds(), wantErr: true},
			{name: "only blanks", spec: GenreSeeds("", "  "), wantErr: true},
			{name: "five", spec: ArtistSeeds("1", "2", "3", "4", "5")},
			{name: "six", spec: ArtistSeeds("1", "2", "3", "4", "5", "6"), wantErr: true},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.spec.Validate()
				if (err != nil) != tt.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
				if err != nil && !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})
}

func TestDateWindow(t *testing.T) {
	t.Run("five years around 2008-10-10", func(t *testing.T) {
		w, err := NewDateWindow("2008-10-10", 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if w.MinDate() != "2003-10-11" {
			t.Errorf("MinDate() = %s, want 2003-10-11", w.MinDate())
		}
		if w.MaxDate() != "2013-10-10" {
			t.Errorf("MaxDate() = %s, want 2013-10-10", w.MaxDate())
		}
	})

	t.Run("default two and a half years", func(t *testing.T) {
		w, err := NewDateWindow("2008-10-10", 2.5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if w.MinDate() != "2006-04-11" || w.MaxDate() != "2011-04-11" {
			t.Errorf("window = [%s, %s], want [2006-04-11, 2011-04-11]", w.MinDate(), w.MaxDate())
		}
	})

	t.Run("bounds contain the release date and span the expected width", func(t *testing.T) {
		dates := []string{"1969-09-26", "2000-02-29", "2008-10-10", "2024-12-31"}
		spans := []float64{0, 0.5, 1, 2.5, 5, 10}

		for _, d := range dates {
			release, err := ParseReleaseDate(d)
			if err != nil {
				t.Fatalf("failed to parse %s: %v", d, err)
			}
			for _, years := range spans {
				w, err := NewDateWindow(d, years)
				if err != nil {
					t.Fatalf("NewDateWindow(%s, %v) error = %v", d, years, err)
				}
				if !w.Contains(release) {
					t.Errorf("window [%s, %s] does not contain %s", w.MinDate(), w.MaxDate(), d)
				}

				width := w.Max.Sub(w.Min).Hours() / 24
				want := 2 * 365.25 * years
				if math.Abs(width-want) > 2 {
					t.Errorf("width for %s ±%v = %v days, want ≈ %v", d, years, width, want)
				}
			}
		}
	})

	t.Run("coarse precision release dates", func(t *testing.T) {
		tc := []struct {
			in   string
			want string
		}{
			{"1969", "1969-01-01"},
			{"1969-09", "1969-09-01"},
			{" 1969-09-26 ", "1969-09-26"},
		}
		for _, tt := range tc {
			got, err := ParseReleaseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseReleaseDate(%q) error = %v", tt.in, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseReleaseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		if _, err := NewDateWindow("10/10/2008", 5); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for bad date, got %v", err)
		}
		if _, err := NewDateWindow("2008-10-10", -1); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for negative span, got %v", err)
		}
	})
}

func TestRecommendationRequest(t *testing.T) {
	t.Run("plain request defaults the limit", func(t *testing.T) {
		q, err := Recommend(TrackSeeds("t1"), 0).Values()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q.Get("seed_tracks") != "t1" || q.Get("limit") != "10" {
			t.Errorf("unexpected query %v", q)
		}
		for _, key := range []string{"max_popularity", "min_release_date", "target_energy"} {
			if q.Has(key) {
				t.Errorf("did not expect %s in %v", key, q)
			}
		}
	})

	t.Run("less popular passes the popularity ceiling", func(t *testing.T) {
		q, err := LessPopular("t1", 10, 50).Values()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := q.Get("max_popularity"); got != "50" {
			t.Errorf("max_popularity = %q, want 50", got)
		}
	})

	t.Run("same era sets the release window", func(t *testing.T) {
		req, err := SameEra("t1", "2008-10-10", 5, 10, 100)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		q, err := req.Values()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q.Get("min_release_date") != "2003-10-11" || q.Get("max_release_date") != "2013-10-10" {
			t.Errorf("unexpected window in %v", q)
		}
		if q.Get("max_popularity") != "100" {
			t.Errorf("max_popularity = %q, want 100", q.Get("max_popularity"))
		}
	})

	t.Run("mood targets", func(t *testing.T) {
		q, err := ByMood("t1", Mood{Energy: 0.8, Valence: 0.25, Danceability: 1}, 5).Values()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := map[string]string{"target_energy": "0.8", "target_valence": "0.25", "target_danceability": "1", "limit": "5"}
		for key, v := range want {
			if got := q.Get(key); got != v {
				t.Errorf("%s = %q, want %q", key, got, v)
			}
		}
	})

	t.Run("artists", func(t *testing.T) {
		q, err := ByArtists([]string{"a1", "a2"}, 20).Values()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q.Get("seed_artists") != "a1,a2" {
			t.Errorf("seed_artists = %q", q.Get("seed_artists"))
		}
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		tc := []struct {
			name string
			req  RecommendationRequest
		}{
			{name: "limit too high", req: Recommend(TrackSeeds("t1"), 101)},
			{name: "negative limit", req: Recommend(TrackSeeds("t1"), -1)},
			{name: "popularity too high", req: LessPopular("t1", 10, 101)},
			{name: "mood above one", req: ByMood("t1", Mood{Energy: 1.5}, 10)},
			{name: "no seeds", req: ByGenres(nil, 10)},
			{name: "inverted window", req: RecommendationRequest{
				Seeds:  TrackSeeds("t1"),
				Window: &DateWindow{Min: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), Max: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
			}},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := tt.req.Values(); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})
}

func TestSearchQueries(t *testing.T) {
	t.Run("artist", func(t *testing.T) {
		q := ArtistSearchQuery(" blood orange ")
		if q.Get("q") != "blood orange" || q.Get("type") != "artist" || q.Get("limit") != "1" {
			t.Errorf("unexpected query %v", q)
		}
	})

	t.Run("track with artist", func(t *testing.T) {
		q := TrackSearchQuery("Here Comes The Sun", "The Beatles")
		if got := q.Get("q"); got != "track:Here Comes The Sun artist:The Beatles" {
			t.Errorf("q = %q", got)
		}
		if q.Get("type") != "track" {
			t.Errorf("type = %q, want track", q.Get("type"))
		}
	})

	t.Run("track without artist", func(t *testing.T) {
		if got := TrackSearchQuery("Blue", "").Get("q"); got != "track:Blue" {
			t.Errorf("q = %q, want track:Blue", got)
		}
	})
}
