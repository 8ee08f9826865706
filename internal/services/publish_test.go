package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/shared"
)

type fakeWriter struct {
	createErr error
	addErr    error
	created   []PlaylistSpec
	added     [][]string
}

func (f *fakeWriter) CreatePlaylist(_ context.Context, _ string, spec PlaylistSpec) (models.Playlist, error) {
	f.created = append(f.created, spec)
	if f.createErr != nil {
		return models.Playlist{}, f.createErr
	}
	return models.Playlist{ID: "p1", Name: spec.Name}, nil
}

func (f *fakeWriter) AddTracks(_ context.Context, _ string, uris []string) (string, error) {
	f.added = append(f.added, uris)
	if f.addErr != nil {
		return "", f.addErr
	}
	return "snap1", nil
}

type fakeRecorder struct {
	records []models.PublishRecord
	err     error
}

func (f *fakeRecorder) RecordPublish(rec models.PublishRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func newTestPublisher(w *fakeWriter, r PublishRecorder) *PlaylistPublisher {
	p := NewPlaylistPublisher(w, r, shared.NewLogger(io.Discard))
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPlaylistPublisher(t *testing.T) {
	uris := []string{"spotify:track:1", "spotify:track:2"}

	t.Run("complete", func(t *testing.T) {
		writer := &fakeWriter{}
		recorder := &fakeRecorder{}

		result, err := newTestPublisher(writer, recorder).Publish(context.Background(), PublishRequest{
			UserID:    "u1",
			Playlist:  PlaylistSpec{Name: "Mix"},
			TrackURIs: uris,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Complete() || result.TracksAdded != 2 || result.SnapshotID != "snap1" {
			t.Errorf("unexpected result %+v", result)
		}

		if len(recorder.records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(recorder.records))
		}
		rec := recorder.records[0]
		if rec.Status != models.PublishComplete || rec.PlaylistID != "p1" || rec.AddedTracks != 2 || rec.Error != "" {
			t.Errorf("unexpected record %+v", rec)
		}
		if !rec.CreatedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected timestamp %v", rec.CreatedAt)
		}
	})

	t.Run("defaults name and description", func(t *testing.T) {
		writer := &fakeWriter{}
		if _, err := newTestPublisher(writer, nil).Publish(context.Background(), PublishRequest{UserID: "u1", TrackURIs: uris}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if writer.created[0].Name != DefaultPlaylistName || writer.created[0].Description != DefaultPlaylistDescription {
			t.Errorf("unexpected spec %+v", writer.created[0])
		}
	})

	t.Run("partial when adding tracks fails", func(t *testing.T) {
		cause := errors.New("boom")
		writer := &fakeWriter{addErr: cause}
		recorder := &fakeRecorder{}

		result, err := newTestPublisher(writer, recorder).Publish(context.Background(), PublishRequest{UserID: "u1", TrackURIs: uris})
		if !errors.Is(err, shared.ErrPartialPublish) {
			t.Fatalf("expected ErrPartialPublish, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("expected the cause to be wrapped, got %v", err)
		}
		if !result.Partial() || result.Playlist.ID != "p1" || result.TracksAdded != 0 {
			t.Errorf("unexpected result %+v", result)
		}
		if len(recorder.records) != 1 || recorder.records[0].Status != models.PublishPartial || recorder.records[0].Error != "boom" {
			t.Errorf("unexpected records %+v", recorder.records)
		}
	})

	t.Run("failed when creation fails", func(t *testing.T) {
		writer := &fakeWriter{createErr: shared.ErrServiceUnavailable}
		recorder := &fakeRecorder{}

		result, err := newTestPublisher(writer, recorder).Publish(context.Background(), PublishRequest{UserID: "u1", TrackURIs: uris})
		if !errors.Is(err, shared.ErrServiceUnavailable) || errors.Is(err, shared.ErrPartialPublish) {
			t.Fatalf("expected ErrServiceUnavailable only, got %v", err)
		}
		if result.Status != models.PublishFailed {
			t.Errorf("expected failed status, got %s", result.Status)
		}
		if len(writer.added) != 0 {
			t.Error("tracks should not be added when creation fails")
		}
		if len(recorder.records) != 1 || recorder.records[0].Status != models.PublishFailed {
			t.Errorf("unexpected records %+v", recorder.records)
		}
	})

	t.Run("recorder errors do not fail the publish", func(t *testing.T) {
		recorder := &fakeRecorder{err: errors.New("disk full")}
		if _, err := newTestPublisher(&fakeWriter{}, recorder).Publish(context.Background(), PublishRequest{UserID: "u1", TrackURIs: uris}); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		tc := []struct {
			name string
			req  PublishRequest
			want error
		}{
			{name: "missing user", req: PublishRequest{TrackURIs: uris}, want: shared.ErrMissingArgument},
			{name: "no tracks", req: PublishRequest{UserID: "u1"}, want: shared.ErrInvalidInput},
			{name: "too many tracks", req: PublishRequest{UserID: "u1", TrackURIs: make([]string, 101)}, want: shared.ErrInvalidInput},
			{name: "not a track uri", req: PublishRequest{UserID: "u1", TrackURIs: []string{"spotify:album:1"}}, want: shared.ErrInvalidInput},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				writer := &fakeWriter{}
				recorder := &fakeRecorder{}
				result, err := newTestPublisher(writer, recorder).Publish(context.Background(), tt.req)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
				if result.Status != models.PublishFailed {
					t.Errorf("expected failed status, got %s", result.Status)
				}
				if len(writer.created) != 0 || len(recorder.records) != 0 {
					t.Error("nothing should be sent or recorded for an invalid request")
				}
			})
		}
	})
}
