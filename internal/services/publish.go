// Two-step playlist publishing
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/shared"
)

const (
	DefaultPlaylistName        = "Custom Playlist"
	DefaultPlaylistDescription = "A custom playlist generated by the recommendation system"
)

// PublishRequest describes a playlist to create and fill.
type PublishRequest struct {
	UserID    string
	Playlist  PlaylistSpec
	TrackURIs []string
}

// PublishResult reports how far a publish got.
//
// A [models.PublishPartial] result carries the created playlist even though its tracks were not added.
type PublishResult struct {
	Status      models.PublishStatus `json:"status"`
	Playlist    models.Playlist      `json:"playlist"`
	TracksAdded int                  `json:"tracks_added"`
	SnapshotID  string               `json:"snapshot_id,omitempty"`
}

// Complete reports whether both steps succeeded.
func (r PublishResult) Complete() bool { return r.Status == models.PublishComplete }

// Partial reports whether the playlist exists remotely without its tracks.
func (r PublishResult) Partial() bool { return r.Status == models.PublishPartial }

// PlaylistPublisher creates a playlist and then appends tracks to it.
//
// The two calls are not atomic. When the second fails the playlist is left empty remotely and the failure is returned as [shared.ErrPartialPublish].
type PlaylistPublisher struct {
	writer   PlaylistWriter
	recorder PublishRecorder
	logger   *log.Logger
	now      func() time.Time
}

// NewPlaylistPublisher creates a publisher. recorder may be nil to skip the ledger.
func NewPlaylistPublisher(writer PlaylistWriter, recorder PublishRecorder, logger *log.Logger) *PlaylistPublisher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistPublisher{
		writer:   writer,
		recorder: recorder,
		logger:   shared.WithLogger(logger, "component", "publisher"),
		now:      time.Now,
	}
}

// Publish runs both steps and records the outcome.
func (p *PlaylistPublisher) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	req, err := normalizePublish(req)
	if err != nil {
		return PublishResult{Status: models.PublishFailed}, err
	}

	playlist, err := p.writer.CreatePlaylist(ctx, req.UserID, req.Playlist)
	if err != nil {
		result := PublishResult{Status: models.PublishFailed}
		p.record(req, result, err)
		return result, fmt.Errorf("failed to create playlist: %w", err)
	}

	p.logger.Info("playlist created", "playlist", playlist.ID, "user", req.UserID)

	snapshot, err := p.writer.AddTracks(ctx, playlist.ID, req.TrackURIs)
	if err != nil {
		result := PublishResult{Status: models.PublishPartial, Playlist: playlist}
		p.record(req, result, err)
		p.logger.Warn("playlist created but tracks were not added", "playlist", playlist.ID, "error", err)
		return result, fmt.Errorf("%w: playlist %s exists without tracks: %w", shared.ErrPartialPublish, playlist.ID, err)
	}

	result := PublishResult{
		Status:      models.PublishComplete,
		Playlist:    playlist,
		TracksAdded: len(req.TrackURIs),
		SnapshotID:  snapshot,
	}
	p.record(req, result, nil)
	return result, nil
}

func (p *PlaylistPublisher) record(req PublishRequest, result PublishResult, cause error) {
	if p.recorder == nil {
		return
	}

	rec := models.PublishRecord{
		UserID:          req.UserID,
		PlaylistID:      result.Playlist.ID,
		PlaylistName:    req.Playlist.Name,
		RequestedTracks: len(req.TrackURIs),
		AddedTracks:     result.TracksAdded,
		Status:          result.Status,
		CreatedAt:       p.now().UTC(),
	}
	if cause != nil {
		rec.Error = cause.Error()
	}

	if err := p.recorder.RecordPublish(rec); err != nil {
		p.logger.Warn("failed to record publish", "status", result.Status, "error", err)
	}
}

func normalizePublish(req PublishRequest) (PublishRequest, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return req, fmt.Errorf("%w: user id is empty", shared.ErrMissingArgument)
	}

	if strings.TrimSpace(req.Playlist.Name) == "" {
		req.Playlist.Name = DefaultPlaylistName
	}
	if req.Playlist.Description == "" {
		req.Playlist.Description = DefaultPlaylistDescription
	}

	if len(req.TrackURIs) == 0 {
		return req, fmt.Errorf("%w: no track URIs to publish", shared.ErrInvalidInput)
	}
	if len(req.TrackURIs) > maxPlaylistURIs {
		return req, fmt.Errorf("%w: %d track URIs given, at most %d per playlist", shared.ErrInvalidInput, len(req.TrackURIs), maxPlaylistURIs)
	}
	for _, uri := range req.TrackURIs {
		if !strings.HasPrefix(uri, "spotify:track:") {
			return req, fmt.Errorf("%w: %q is not a track URI", shared.ErrInvalidInput, uri)
		}
	}

	return req, nil
}
