// Query composition for search and recommendation requests
package services

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/samber/lo"
)

const (
	// MaxSeeds is the most seeds the recommendations endpoint accepts.
	MaxSeeds = 5

	// DefaultLimit is used when a request leaves Limit unset.
	DefaultLimit = 10

	// MaxLimit is the largest page the recommendations endpoint returns.
	MaxLimit = 100

	dateLayout  = "2006-01-02"
	daysPerYear = 365.25
)

// SeedKind identifies which seed parameter a [SeedSpec] populates.
type SeedKind int

const (
	SeedTracks SeedKind = iota + 1
	SeedArtists
	SeedGenres
)

// Param returns the query parameter name for the seed kind.
func (k SeedKind) Param() string {
	switch k {
	case SeedTracks:
		return "seed_tracks"
	case SeedArtists:
		return "seed_artists"
	case SeedGenres:
		return "seed_genres"
	default:
		return ""
	}
}

func (k SeedKind) String() string {
	switch k {
	case SeedTracks:
		return "tracks"
	case SeedArtists:
		return "artists"
	case SeedGenres:
		return "genres"
	default:
		return "unknown"
	}
}

// SeedSpec anchors a recommendation query on exactly one kind of seed.
//
// The zero value is invalid; build one with [TrackSeeds], [ArtistSeeds] or [GenreSeeds].
type SeedSpec struct {
	kind   SeedKind
	values []string
}

// TrackSeeds seeds a request with track IDs.
func TrackSeeds(ids ...string) SeedSpec { return newSeedSpec(SeedTracks, ids) }

// ArtistSeeds seeds a request with artist IDs.
func ArtistSeeds(ids ...string) SeedSpec { return newSeedSpec(SeedArtists, ids) }

// GenreSeeds seeds a request with genre tags.
func GenreSeeds(genres ...string) SeedSpec { return newSeedSpec(SeedGenres, genres) }

func newSeedSpec(kind SeedKind, values []string) SeedSpec {
	cleaned := lo.Uniq(lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		return v, v != ""
	}))
	return SeedSpec{kind: kind, values: cleaned}
}

// Kind returns the seed kind.
func (s SeedSpec) Kind() SeedKind { return s.kind }

// Values returns a copy of the seed values.
func (s SeedSpec) Values() []string { return append([]string(nil), s.values...) }

// Joined returns the comma separated seed list sent on the wire.
func (s SeedSpec) Joined() string { return strings.Join(s.values, ",") }

// Validate checks that the seed spec has a kind and between one and [MaxSeeds] values.
func (s SeedSpec) Validate() error {
	if s.kind.Param() == "" {
		return fmt.Errorf("%w: seed kind not set", shared.ErrInvalidInput)
	}
	if len(s.values) == 0 {
		return fmt.Errorf("%w: at least one %s seed is required", shared.ErrInvalidInput, s.kind)
	}
	if len(s.values) > MaxSeeds {
		return fmt.Errorf("%w: %d %s seeds given, at most %d allowed", shared.ErrInvalidInput, len(s.values), s.kind, MaxSeeds)
	}
	return nil
}

// DateWindow is a closed release-date range.
type DateWindow struct {
	Min time.Time
	Max time.Time
}

// NewDateWindow centers a window of ±years on releaseDate.
//
// The half-width is 365.25·years days truncated to whole days. releaseDate may be YYYY-MM-DD, YYYY-MM or YYYY; missing parts default to the first month or day.
func NewDateWindow(releaseDate string, years float64) (DateWindow, error) {
	if years < 0 || math.IsNaN(years) || math.IsInf(years, 0) {
		return DateWindow{}, fmt.Errorf("%w: year span must be a non-negative number, got %v", shared.ErrInvalidInput, years)
	}

	date, err := ParseReleaseDate(releaseDate)
	if err != nil {
		return DateWindow{}, err
	}

	days := int(daysPerYear * years)
	return DateWindow{
		Min: date.AddDate(0, 0, -days),
		Max: date.AddDate(0, 0, days),
	}, nil
}

// ParseReleaseDate parses a release date at day, month or year precision.
func ParseReleaseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: release date %q is not YYYY-MM-DD, YYYY-MM or YYYY", shared.ErrInvalidInput, s)
}

// MinDate returns the lower bound as YYYY-MM-DD.
func (w DateWindow) MinDate() string { return w.Min.Format(dateLayout) }

// MaxDate returns the upper bound as YYYY-MM-DD.
func (w DateWindow) MaxDate() string { return w.Max.Format(dateLayout) }

// Contains reports whether t falls inside the window, bounds included.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Min) && !t.After(w.Max)
}

// Mood holds target audio features, each in [0, 1].
type Mood struct {
	Energy       float64
	Valence      float64
	Danceability float64
}

// Validate checks every target is within [0, 1].
func (m Mood) Validate() error {
	for name, v := range map[string]float64{"energy": m.Energy, "valence": m.Valence, "danceability": m.Danceability} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: target %s must be between 0 and 1, got %v", shared.ErrInvalidInput, name, v)
		}
	}
	return nil
}

// RecommendationRequest combines a seed with a limit and optional filters.
//
// The client forwards filters to the API and does not filter results itself.
type RecommendationRequest struct {
	Seeds         SeedSpec
	Limit         int
	MaxPopularity *int
	Window        *DateWindow
	Mood          *Mood
}

// Values renders the request as query parameters.
func (r RecommendationRequest) Values() (url.Values, error) {
	if err := r.Seeds.Validate(); err != nil {
		return nil, err
	}

	limit := r.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d, got %d", shared.ErrInvalidInput, MaxLimit, limit)
	}

	q := url.Values{}
	q.Set(r.Seeds.Kind().Param(), r.Seeds.Joined())
	q.Set("limit", strconv.Itoa(limit))

	if r.MaxPopularity != nil {
		if p := *r.MaxPopularity; p < 0 || p > 100 {
			return nil, fmt.Errorf("%w: max popularity must be between 0 and 100, got %d", shared.ErrInvalidInput, p)
		}
		q.Set("max_popularity", strconv.Itoa(*r.MaxPopularity))
	}

	if r.Window != nil {
		if r.Window.Max.Before(r.Window.Min) {
			return nil, fmt.Errorf("%w: release window ends before it starts", shared.ErrInvalidInput)
		}
		q.Set("min_release_date", r.Window.MinDate())
		q.Set("max_release_date", r.Window.MaxDate())
	}

	if r.Mood != nil {
		if err := r.Mood.Validate(); err != nil {
			return nil, err
		}
		q.Set("target_energy", formatFloat(r.Mood.Energy))
		q.Set("target_valence", formatFloat(r.Mood.Valence))
		q.Set("target_danceability", formatFloat(r.Mood.Danceability))
	}

	return q, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Recommend is the plain seeded request.
func Recommend(seeds SeedSpec, limit int) RecommendationRequest {
	return RecommendationRequest{Seeds: seeds, Limit: limit}
}

// LessPopular recommends around a track with a popularity ceiling.
func LessPopular(trackID string, limit, maxPopularity int) RecommendationRequest {
	return RecommendationRequest{Seeds: TrackSeeds(trackID), Limit: limit, MaxPopularity: lo.ToPtr(maxPopularity)}
}

// SameEra recommends around a track released within ±years of releaseDate, with a popularity ceiling.
func SameEra(trackID, releaseDate string, years float64, limit, maxPopularity int) (RecommendationRequest, error) {
	window, err := NewDateWindow(releaseDate, years)
	if err != nil {
		return RecommendationRequest{}, err
	}
	return RecommendationRequest{
		Seeds:         TrackSeeds(trackID),
		Limit:         limit,
		MaxPopularity: lo.ToPtr(maxPopularity),
		Window:        &window,
	}, nil
}

// ByMood recommends around a track with target audio features.
func ByMood(trackID string, mood Mood, limit int) RecommendationRequest {
	return RecommendationRequest{Seeds: TrackSeeds(trackID), Limit: limit, Mood: &mood}
}

// ByGenres recommends from genre tags.
func ByGenres(genres []string, limit int) RecommendationRequest {
	return RecommendationRequest{Seeds: GenreSeeds(genres...), Limit: limit}
}

// ByArtists recommends from artist IDs.
func ByArtists(artistIDs []string, limit int) RecommendationRequest {
	return RecommendationRequest{Seeds: ArtistSeeds(artistIDs...), Limit: limit}
}

// ArtistSearchQuery builds the query for the single best artist match.
func ArtistSearchQuery(name string) url.Values {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(name))
	q.Set("type", "artist")
	q.Set("limit", "1")
	return q
}

// TrackSearchQuery builds the query for the single best track match, narrowed by artist when given.
func TrackSearchQuery(track, artist string) url.Values {
	terms := "track:" + strings.TrimSpace(track)
	if artist = strings.TrimSpace(artist); artist != "" {
		terms += " artist:" + artist
	}

	q := url.Values{}
	q.Set("q", terms)
	q.Set("type", "track")
	q.Set("limit", "1")
	return q
}
