package tasks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/samber/lo"
)

const (
	DefaultLessPopularCeiling = 50
	DefaultSameEraCeiling     = 100
	DefaultEraYears           = 5.0
)

// SectionKind identifies a discovery strategy.
type SectionKind int

const (
	SectionLessPopular SectionKind = iota
	SectionSameEra
	SectionByGenre
	SectionInfluenced
)

func (k SectionKind) String() string {
	switch k {
	case SectionLessPopular:
		return "less-popular"
	case SectionSameEra:
		return "same-era"
	case SectionByGenre:
		return "by-genre"
	case SectionInfluenced:
		return "influenced"
	default:
		return ""
	}
}

func (k SectionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Section is one block of recommendations in a [DiscoveryReport].
//
// Exactly one of Tracks, Err or Skipped describes the outcome.
type Section struct {
	Kind    SectionKind    `json:"kind"`
	Title   string         `json:"title"`
	Tracks  []models.Track `json:"tracks"`
	Err     error          `json:"-"`
	Skipped string         `json:"skipped,omitempty"`
}

// ErrMessage returns the section error message, or "" when the section succeeded.
func (s Section) ErrMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// IsNotFound reports whether the section failed because its seed could not be resolved.
func (s Section) IsNotFound() bool { return errors.Is(s.Err, shared.ErrNotFound) }

// DiscoveryInput configures a [Discovery] run. Zero values take the defaults.
type DiscoveryInput struct {
	ArtistName  string // optional; adds the artist and its top tracks to the report
	TrackName   string
	TrackArtist string

	Limit              int
	EraYears           float64
	LessPopularCeiling int
	SameEraCeiling     int
}

func (in DiscoveryInput) withDefaults() DiscoveryInput {
	if in.Limit == 0 {
		in.Limit = services.DefaultLimit
	}
	if in.EraYears == 0 {
		in.EraYears = DefaultEraYears
	}
	if in.LessPopularCeiling == 0 {
		in.LessPopularCeiling = DefaultLessPopularCeiling
	}
	if in.SameEraCeiling == 0 {
		in.SameEraCeiling = DefaultSameEraCeiling
	}
	return in
}

// DiscoveryReport contains everything a discovery run found.
type DiscoveryReport struct {
	Artist    *models.Artist `json:"artist,omitempty"`
	ArtistErr error          `json:"-"`
	TopTracks []models.Track `json:"top_tracks,omitempty"`
	Seed      *models.Track  `json:"seed,omitempty"`
	Genres    []string       `json:"genres"`
	Sections  []Section      `json:"sections"`
}

// Failed returns the sections that ended in an error.
func (r *DiscoveryReport) Failed() []Section {
	return lo.Filter(r.Sections, func(s Section, _ int) bool { return s.Err != nil })
}

// Discovery runs the full recommendation flow against a catalog.
type Discovery struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewDiscovery creates a Discovery bound to catalog.
func NewDiscovery(catalog services.Catalog, logger *log.Logger) *Discovery {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Discovery{catalog: catalog, logger: shared.WithLogger(logger, "task", "discovery")}
}

// sendProgress sends a progress update through the channel without blocking.
func (d *Discovery) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run resolves the seed track and fills every section.
//
// The returned error is non-nil only when the seed track request itself fails.
// A seed track that is not found yields a report whose sections all carry [shared.ErrNotFound].
func (d *Discovery) Run(ctx context.Context, progress chan<- ProgressUpdate, in DiscoveryInput) (*DiscoveryReport, error) {
	if strings.TrimSpace(in.TrackName) == "" {
		return nil, fmt.Errorf("%w: track name is empty", shared.ErrMissingArgument)
	}
	in = in.withDefaults()

	report := &DiscoveryReport{Genres: []string{}}
	step, total := 0, 6
	if in.ArtistName != "" {
		total += 2
	}
	next := func() int { step++; return step }

	if in.ArtistName != "" {
		d.sendProgress(progress, searchArtistUpdate(next(), total, in.ArtistName))
		d.resolveArtist(ctx, progress, in.ArtistName, report, next, total)
	}

	d.sendProgress(progress, searchSeedUpdate(next(), total, in.TrackName, in.TrackArtist))
	seed, found, err := d.catalog.SearchTrack(ctx, in.TrackName, in.TrackArtist)
	if err != nil {
		return report, fmt.Errorf("seed track search failed: %w", err)
	}

	if !found {
		d.logger.Warn("seed track not found", "track", in.TrackName, "artist", in.TrackArtist)
		missing := fmt.Errorf("%w: no track %q by %q", shared.ErrNotFound, in.TrackName, in.TrackArtist)
		for _, kind := range []SectionKind{SectionLessPopular, SectionSameEra, SectionByGenre, SectionInfluenced} {
			report.Sections = append(report.Sections, Section{Kind: kind, Title: sectionTitle(kind, in), Err: missing})
		}
		return report, nil
	}

	report.Seed = &seed
	d.sendProgress(progress, foundSeedUpdate(step, total, seed))

	artistID := seed.PrimaryArtist().ID

	d.sendProgress(progress, genresUpdate(next(), total))
	genres, genresErr := d.genres(ctx, artistID)
	report.Genres = genres

	runs := []func() Section{
		func() Section { return d.lessPopular(ctx, seed, in) },
		func() Section { return d.sameEra(ctx, seed, in) },
		func() Section { return d.byGenre(ctx, genres, genresErr, in) },
		func() Section { return d.influenced(ctx, artistID, in) },
	}
	for _, run := range runs {
		section := run()
		d.sendProgress(progress, sectionUpdate(next(), total, &section))
		if section.Err != nil {
			d.logger.Error("section failed", "section", section.Kind, "error", section.Err)
		}
		report.Sections = append(report.Sections, section)
	}

	return report, nil
}

func (d *Discovery) resolveArtist(ctx context.Context, progress chan<- ProgressUpdate, name string, report *DiscoveryReport, next func() int, total int) {
	artist, found, err := d.catalog.SearchArtist(ctx, name)
	switch {
	case err != nil:
		report.ArtistErr = err
		next()
		return
	case !found:
		report.ArtistErr = fmt.Errorf("%w: no artist with name %q", shared.ErrNotFound, name)
		next()
		return
	}

	report.Artist = &artist
	d.sendProgress(progress, topTracksUpdate(next(), total, artist))

	tracks, err := d.catalog.TopTracks(ctx, artist.ID)
	if err != nil {
		report.ArtistErr = err
		return
	}
	report.TopTracks = tracks
}

func (d *Discovery) genres(ctx context.Context, artistID string) ([]string, error) {
	if artistID == "" {
		return []string{}, fmt.Errorf("%w: seed track has no artist", shared.ErrNotFound)
	}
	genres, err := d.catalog.ArtistGenres(ctx, artistID)
	if err != nil {
		return []string{}, err
	}
	return genres, nil
}

func (d *Discovery) lessPopular(ctx context.Context, seed models.Track, in DiscoveryInput) Section {
	s := Section{Kind: SectionLessPopular, Title: sectionTitle(SectionLessPopular, in)}
	s.Tracks, s.Err = d.catalog.Recommendations(ctx, services.LessPopular(seed.ID, in.Limit, in.LessPopularCeiling))
	return s
}

func (d *Discovery) sameEra(ctx context.Context, seed models.Track, in DiscoveryInput) Section {
	s := Section{Kind: SectionSameEra, Title: sectionTitle(SectionSameEra, in)}

	req, err := services.SameEra(seed.ID, seed.Album.ReleaseDate, in.EraYears, in.Limit, in.SameEraCeiling)
	if err != nil {
		s.Err = err
		return s
	}
	s.Tracks, s.Err = d.catalog.Recommendations(ctx, req)
	if s.Err != nil {
		return s
	}

	outside := lo.CountBy(s.Tracks, func(t models.Track) bool {
		released, err := services.ParseReleaseDate(t.Album.ReleaseDate)
		return err == nil && !req.Window.Contains(released)
	})
	if outside > 0 {
		d.logger.Warn("recommendations outside release window", "count", outside, "min", req.Window.MinDate(), "max", req.Window.MaxDate())
	}
	return s
}

func (d *Discovery) byGenre(ctx context.Context, genres []string, genresErr error, in DiscoveryInput) Section {
	s := Section{Kind: SectionByGenre, Title: sectionTitle(SectionByGenre, in)}
	if genresErr != nil {
		s.Err = genresErr
		return s
	}
	if len(genres) == 0 {
		s.Skipped = "No genres found for the artist."
		return s
	}

	if len(genres) > services.MaxSeeds {
		d.logger.Debug("truncating genre seeds", "genres", len(genres), "max", services.MaxSeeds)
		genres = lo.Slice(genres, 0, services.MaxSeeds)
	}
	s.Tracks, s.Err = d.catalog.Recommendations(ctx, services.ByGenres(genres, in.Limit))
	return s
}

func (d *Discovery) influenced(ctx context.Context, artistID string, in DiscoveryInput) Section {
	s := Section{Kind: SectionInfluenced, Title: sectionTitle(SectionInfluenced, in)}
	if artistID == "" {
		s.Err = fmt.Errorf("%w: seed track has no artist", shared.ErrNotFound)
		return s
	}
	s.Tracks, s.Err = d.catalog.InfluencedTracks(ctx, artistID, in.Limit)
	return s
}

func sectionTitle(kind SectionKind, in DiscoveryInput) string {
	switch kind {
	case SectionLessPopular:
		return "Recommended Tracks that are less Popular"
	case SectionSameEra:
		years := in.EraYears
		if years == 0 {
			years = DefaultEraYears
		}
		return fmt.Sprintf("Recommended Tracks within ±%s Years", strconv.FormatFloat(years, 'f', -1, 64))
	case SectionByGenre:
		return "Recommended Tracks By Genres"
	case SectionInfluenced:
		return "Influenced Tracks Based on Related Artists"
	default:
		return ""
	}
}
