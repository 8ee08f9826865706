package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotrec/internal/formatter"
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/urfave/cli/v3"
)

// SearchArtist prints the best artist match for a name.
func (r *Runner) SearchArtist(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}

	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	artist, found, err := client.SearchArtist(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: no artist with name %q", shared.ErrNotFound, name)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artist, cmd.Bool("pretty"))
	}

	lines := []string{
		r.palette.Title(artist.Name),
		"ID: " + artist.ID,
		fmt.Sprintf("Popularity: %d", artist.Popularity),
	}
	if len(artist.Genres) > 0 {
		lines = append(lines, "Genres: "+strings.Join(artist.Genres, ", "))
	}
	return r.writeLines(lines...)
}

// SearchTrack prints the best track match for a title and optional artist.
func (r *Runner) SearchTrack(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	track, err := r.resolveSeed(ctx, client, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}
	return formatter.WriteTrackDetails(r.output, track)
}

// ArtistTopTracks prints an artist's most popular tracks.
func (r *Runner) ArtistTopTracks(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	artist, err := r.resolveArtist(ctx, client, cmd)
	if err != nil {
		return err
	}

	tracks, err := client.TopTracks(ctx, artist.ID)
	if err != nil {
		return err
	}

	if limit := cmd.Int("limit"); limit > 0 && limit < len(tracks) {
		tracks = tracks[:limit]
	}

	return r.writeTracks(cmd, fmt.Sprintf("Top Tracks for %s", artist.Name), tracks)
}

// ArtistGenres prints an artist's genre tags.
func (r *Runner) ArtistGenres(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	artist, err := r.resolveArtist(ctx, client, cmd)
	if err != nil {
		return err
	}

	genres, err := client.ArtistGenres(ctx, artist.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}
	return formatter.WriteGenres(r.output, artist.Name, genres)
}

// ArtistRelated prints artists similar to an artist.
func (r *Runner) ArtistRelated(ctx context.Context, cmd *cli.Command) error {
	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	artist, err := r.resolveArtist(ctx, client, cmd)
	if err != nil {
		return err
	}

	related, err := client.RelatedArtists(ctx, artist.ID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(related, cmd.Bool("pretty"))
	}
	return formatter.WriteArtists(r.output, fmt.Sprintf("Artists related to %s", artist.Name), related)
}

// resolveArtist returns the artist named by --id, or the best match for the name argument.
func (r *Runner) resolveArtist(ctx context.Context, client services.Catalog, cmd *cli.Command) (models.Artist, error) {
	if id := strings.TrimSpace(cmd.String("id")); id != "" {
		return client.Artist(ctx, id)
	}

	name, err := requireArg(cmd, "name")
	if err != nil {
		return models.Artist{}, fmt.Errorf("%w (or pass --id)", err)
	}

	artist, found, err := client.SearchArtist(ctx, name)
	if err != nil {
		return models.Artist{}, err
	}
	if !found {
		return models.Artist{}, fmt.Errorf("%w: no artist with name %q", shared.ErrNotFound, name)
	}

	r.logger.Debug("resolved artist", "name", name, "id", artist.ID)
	return artist, nil
}

// resolveSeed finds the track named by the title argument and --artist.
func (r *Runner) resolveSeed(ctx context.Context, client services.Catalog, cmd *cli.Command) (models.Track, error) {
	title, err := requireArg(cmd, "title")
	if err != nil {
		return models.Track{}, err
	}
	artist := cmd.String("artist")

	track, found, err := client.SearchTrack(ctx, title, artist)
	if err != nil {
		return models.Track{}, err
	}
	if !found {
		return models.Track{}, fmt.Errorf("%w: no track found with the specified track and artist name (%q, %q)", shared.ErrNotFound, title, artist)
	}

	r.logger.Debug("resolved seed track", "title", title, "id", track.ID)
	return track, nil
}

// writeTracks prints tracks as JSON or in the --format rendering.
func (r *Runner) writeTracks(cmd *cli.Command, title string, tracks []models.Track) error {
	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return formatter.WriteTracks(r.output, format, title, tracks)
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	value := strings.TrimSpace(cmd.StringArg(name))
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", shared.ErrMissingArgument, name)
	}
	return value, nil
}
