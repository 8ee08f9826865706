package main

import (
	"context"

	"github.com/desertthunder/spotrec/internal/formatter"
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/tasks"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

type sectionView struct {
	Kind    tasks.SectionKind `json:"kind"`
	Title   string            `json:"title"`
	Tracks  []models.Track    `json:"tracks"`
	Skipped string            `json:"skipped,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type discoveryView struct {
	*tasks.DiscoveryReport
	ArtistError string        `json:"artist_error,omitempty"`
	Sections    []sectionView `json:"sections"`
}

func newDiscoveryView(report *tasks.DiscoveryReport) discoveryView {
	view := discoveryView{
		DiscoveryReport: report,
		Sections: lo.Map(report.Sections, func(s tasks.Section, _ int) sectionView {
			return sectionView{Kind: s.Kind, Title: s.Title, Tracks: s.Tracks, Skipped: s.Skipped, Error: s.ErrMessage()}
		}),
	}
	if report.ArtistErr != nil {
		view.ArtistError = report.ArtistErr.Error()
	}
	return view
}

// Discover runs every recommendation strategy for a seed track and prints each section.
//
// Failed sections are reported inline; the command only fails when the seed lookup itself fails.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	title, err := requireArg(cmd, "title")
	if err != nil {
		return err
	}

	client, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	input := tasks.DiscoveryInput{
		ArtistName:  cmd.String("with-artist"),
		TrackName:   title,
		TrackArtist: cmd.String("artist"),
		Limit:       cmd.Int("limit"),
		EraYears:    cmd.Float("years"),
	}

	useJSON := cmd.Bool("json")
	showProgress := !useJSON && !cmd.Bool("quiet")

	var progressCh chan tasks.ProgressUpdate
	done := make(chan struct{})
	if showProgress {
		progressCh = make(chan tasks.ProgressUpdate, 16)
		go func() {
			defer close(done)
			for update := range progressCh {
				r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
			}
		}()
	} else {
		close(done)
	}

	report, err := tasks.NewDiscovery(client, r.logger).Run(ctx, progressCh, input)
	if progressCh != nil {
		close(progressCh)
	}
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(newDiscoveryView(report), cmd.Bool("pretty"))
	}

	if err := formatter.WriteDiscovery(r.output, report); err != nil {
		return err
	}

	if failed := report.Failed(); len(failed) > 0 {
		return r.writePlainln("%s", r.palette.Warn("%d of %d sections failed", len(failed), len(report.Sections)))
	}
	return nil
}
