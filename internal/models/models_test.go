package models

import "testing"

func TestTrack_PrimaryArtist(t *testing.T) {
	t.Run("first credited artist", func(t *testing.T) {
		track := Track{Artists: []ArtistRef{{ID: "a1", Name: "The Beatles"}, {ID: "a2", Name: "Billy Preston"}}}
		if got := track.PrimaryArtist().Name; got != "The Beatles" {
			t.Errorf("PrimaryArtist() = %q, want %q", got, "The Beatles")
		}
	})

	t.Run("no artists", func(t *testing.T) {
		if got := (Track{}).PrimaryArtist(); got != (ArtistRef{}) {
			t.Errorf("PrimaryArtist() = %+v, want zero value", got)
		}
	})
}

func TestPublishRecord_Validate(t *testing.T) {
	valid := PublishRecord{
		UserID:          "user",
		PlaylistID:      "pl",
		PlaylistName:    "Custom Playlist",
		RequestedTracks: 2,
		AddedTracks:     2,
		Status:          PublishComplete,
	}

	tc := []struct {
		name    string
		mutate  func(r *PublishRecord)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *PublishRecord) {}},
		{name: "missing user", mutate: func(r *PublishRecord) { r.UserID = " " }, wantErr: true},
		{name: "missing name", mutate: func(r *PublishRecord) { r.PlaylistName = "" }, wantErr: true},
		{name: "unknown status", mutate: func(r *PublishRecord) { r.Status = "done" }, wantErr: true},
		{name: "partial without playlist", mutate: func(r *PublishRecord) { r.Status = PublishPartial; r.PlaylistID = "" }, wantErr: true},
		{name: "failed without playlist", mutate: func(r *PublishRecord) { r.Status = PublishFailed; r.PlaylistID = ""; r.AddedTracks = 0 }},
		{name: "added exceeds requested", mutate: func(r *PublishRecord) { r.AddedTracks = 3 }, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
