// package models defines the transient catalog entities returned by the Spotify client and the persisted publish ledger record
package models

import (
	"fmt"
	"strings"
	"time"
)

// ArtistRef is the simplified artist object embedded in tracks and albums.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Artist is a full artist profile.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// Album holds the album metadata carried on a track.
type Album struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	ReleaseDate          string `json:"release_date"`
	ReleaseDatePrecision string `json:"release_date_precision,omitempty"` // year, month or day
}

// Track is a playable track with its owning artists and album.
type Track struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Popularity int         `json:"popularity"` // 0-100
	URI        string      `json:"uri"`
	Artists    []ArtistRef `json:"artists"`
	Album      Album       `json:"album"`
}

// PrimaryArtist returns the first credited artist, or the zero value when the track has none.
func (t Track) PrimaryArtist() ArtistRef {
	if len(t.Artists) == 0 {
		return ArtistRef{}
	}
	return t.Artists[0]
}

// Playlist is a remote playlist created on behalf of a user.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	URI         string `json:"uri"`
}

// PublishStatus describes how far a playlist publish got.
type PublishStatus string

const (
	PublishComplete PublishStatus = "complete" // playlist created and tracks added
	PublishPartial  PublishStatus = "partial"  // playlist created, tracks not added
	PublishFailed   PublishStatus = "failed"   // nothing created
)

// Valid reports whether s is one of the known statuses.
func (s PublishStatus) Valid() bool {
	switch s {
	case PublishComplete, PublishPartial, PublishFailed:
		return true
	}
	return false
}

// PublishRecord is one row of the local publish ledger.
type PublishRecord struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	PlaylistID      string        `json:"playlist_id,omitempty"`
	PlaylistName    string        `json:"playlist_name"`
	RequestedTracks int           `json:"requested_tracks"`
	AddedTracks     int           `json:"added_tracks"`
	Status          PublishStatus `json:"status"`
	Error           string        `json:"error,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Validate checks the record before it is persisted.
func (r PublishRecord) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(r.PlaylistName) == "" {
		return fmt.Errorf("playlist name is required")
	}
	if !r.Status.Valid() {
		return fmt.Errorf("unknown publish status %q", r.Status)
	}
	if r.Status != PublishFailed && r.PlaylistID == "" {
		return fmt.Errorf("playlist id is required for %s publishes", r.Status)
	}
	if r.AddedTracks > r.RequestedTracks {
		return fmt.Errorf("added tracks (%d) exceed requested tracks (%d)", r.AddedTracks, r.RequestedTracks)
	}
	return nil
}
