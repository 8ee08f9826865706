package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/urfave/cli/v3"
)

// RecommendTracks prints recommendations seeded by a single track.
func (r *Runner) RecommendTracks(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	seed, err := r.resolveSeed(ctx, client, cmd)
	if err != nil {
		return err
	}

	tracks, err := client.Recommendations(ctx, services.Recommend(services.TrackSeeds(seed.ID), cmd.Int("limit")))
	if err != nil {
		return err
	}
	return r.writeTracks(cmd, fmt.Sprintf("Recommended Tracks for %s", seed.Name), tracks)
}

// RecommendLessPopular prints recommendations under a popularity ceiling.
func (r *Runner) RecommendLessPopular(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	seed, err := r.resolveSeed(ctx, client, cmd)
	if err != nil {
		return err
	}

	req := services.LessPopular(seed.ID, cmd.Int("limit"), cmd.Int("max-popularity"))
	tracks, err := client.Recommendations(ctx, req)
	if err != nil {
		return err
	}
	return r.writeTracks(cmd, "Recommended Tracks that are less Popular", tracks)
}

// RecommendSameEra prints recommendations released near the seed track.
func (r *Runner) RecommendSameEra(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	seed, err := r.resolveSeed(ctx, client, cmd)
	if err != nil {
		return err
	}

	years := cmd.Float("years")
	req, err := services.SameEra(seed.ID, seed.Album.ReleaseDate, years, cmd.Int("limit"), cmd.Int("max-popularity"))
	if err != nil {
		return err
	}

	r.logger.Debug("release window", "min", req.Window.MinDate(), "max", req.Window.MaxDate())

	tracks, err := client.Recommendations(ctx, req)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Recommended Tracks within ±%s Years", strconv.FormatFloat(years, 'f', -1, 64))
	return r.writeTracks(cmd, title, tracks)
}

// RecommendMood prints recommendations with target audio features.
func (r *Runner) RecommendMood(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	seed, err := r.resolveSeed(ctx, client, cmd)
	if err != nil {
		return err
	}

	mood := services.Mood{
		Energy:       cmd.Float("energy"),
		Valence:      cmd.Float("valence"),
		Danceability: cmd.Float("danceability"),
	}
	tracks, err := client.Recommendations(ctx, services.ByMood(seed.ID, mood, cmd.Int("limit")))
	if err != nil {
		return err
	}
	return r.writeTracks(cmd, "Recommended Tracks by Mood", tracks)
}

// RecommendGenre prints recommendations seeded by genre names.
func (r *Runner) RecommendGenre(ctx context.Context, cmd *cli.Command) error {
	genres := cmd.Args().Slice()
	if len(genres) == 0 {
		return fmt.Errorf("%w: at least one genre is required", shared.ErrMissingArgument)
	}

	req := services.ByGenres(genres, cmd.Int("limit"))
	if err := req.Seeds.Validate(); err != nil {
		return err
	}

	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	tracks, err := client.Recommendations(ctx, req)
	if err != nil {
		return err
	}
	return r.writeTracks(cmd, "Recommended Tracks By Genres", tracks)
}

// RecommendArtists prints recommendations seeded by artist IDs.
func (r *Runner) RecommendArtists(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one artist ID is required", shared.ErrMissingArgument)
	}

	req := services.ByArtists(ids, cmd.Int("limit"))
	if err := req.Seeds.Validate(); err != nil {
		return err
	}

	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	tracks, err := client.Recommendations(ctx, req)
	if err != nil {
		return err
	}
	return r.writeTracks(cmd, "Recommended Tracks By Artists", tracks)
}

// RecommendInfluenced prints recommendations seeded by an artist's related artists.
func (r *Runner) RecommendInfluenced(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	artist, err := r.resolveArtist(ctx, client, cmd)
	if err != nil {
		return err
	}

	tracks, err := client.InfluencedTracks(ctx, artist.ID, cmd.Int("limit"))
	if err != nil {
		return err
	}
	return r.writeTracks(cmd, "Influenced Tracks Based on Related Artists", tracks)
}
