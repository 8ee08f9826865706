package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spotrec/internal/formatter"
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

const trackURIPrefix = "spotify:track:"

// PlaylistCreate creates a playlist and adds the given tracks to it.
//
// A partial publish is reported with the remote playlist ID so the user can clean it up or retry the add.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	uris := trackURIs(cmd.Args().Slice())
	if len(uris) == 0 {
		return fmt.Errorf("%w: at least one track URI or ID is required", shared.ErrMissingArgument)
	}

	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	var recorder services.PublishRecorder
	if repo, err := r.ledger(); err != nil {
		r.logger.Warn("publish ledger unavailable, outcome will not be recorded", "error", err)
	} else {
		recorder = repo
	}

	publisher := services.NewPlaylistPublisher(client, recorder, r.logger)
	result, err := publisher.Publish(ctx, services.PublishRequest{
		UserID: cmd.String("user"),
		Playlist: services.PlaylistSpec{
			Name:        cmd.String("name"),
			Description: cmd.String("description"),
			Public:      cmd.Bool("public"),
		},
		TrackURIs: uris,
	})

	if cmd.Bool("json") {
		if werr := r.writeJSON(result, cmd.Bool("pretty")); werr != nil {
			return werr
		}
		return err
	}

	switch {
	case err == nil:
		return r.writeLines(
			r.palette.OK("Playlist created: %s (%d tracks)", result.Playlist.Name, result.TracksAdded),
			"URI: "+result.Playlist.URI,
		)
	case errors.Is(err, shared.ErrPartialPublish):
		werr := r.writeLines(
			r.palette.Warn("Playlist %s was created but its tracks were not added.", result.Playlist.ID),
			r.palette.Help("See 'spotrec playlist history --status partial'."),
		)
		return errors.Join(err, werr)
	default:
		return err
	}
}

// PlaylistHistory prints recorded publish attempts.
func (r *Runner) PlaylistHistory(ctx context.Context, cmd *cli.Command) error {
	status := models.PublishStatus(strings.ToLower(strings.TrimSpace(cmd.String("status"))))

	repo, err := r.ledger()
	if err != nil {
		return err
	}

	if cmd.Bool("summary") {
		counts, err := repo.CountByStatus()
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(counts, cmd.Bool("pretty"))
		}
		return formatter.WritePublishSummary(r.output, counts)
	}

	records, err := repo.List(status, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}
	return formatter.WritePublishRecords(r.output, records)
}

// PlaylistShow prints a single recorded publish attempt.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	repo, err := r.ledger()
	if err != nil {
		return err
	}

	record, err := repo.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(record, cmd.Bool("pretty"))
	}
	return formatter.WritePublishRecords(r.output, []*models.PublishRecord{record})
}

// trackURIs accepts bare track IDs or full track URIs and returns URIs.
func trackURIs(args []string) []string {
	return lo.FilterMap(args, func(arg string, _ int) (string, bool) {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			return "", false
		}
		if strings.HasPrefix(arg, "spotify:") {
			return arg, true
		}
		return trackURIPrefix + arg, true
	})
}
