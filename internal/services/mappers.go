package services

import (
	"github.com/desertthunder/spotrec/internal/models"
	"github.com/samber/lo"
)

func mapArtist(a SpotifyArtist) models.Artist {
	return models.Artist{
		ID:         a.ID,
		Name:       a.Name,
		Genres:     a.Genres,
		Popularity: a.Popularity,
		URI:        a.URI,
	}
}

func mapArtistRef(a SpotifyArtist, _ int) models.ArtistRef {
	return models.ArtistRef{ID: a.ID, Name: a.Name}
}

func mapTrack(t SpotifyTrack) models.Track {
	return models.Track{
		ID:         t.ID,
		Name:       t.Name,
		Popularity: t.Popularity,
		URI:        t.URI,
		Artists:    lo.Map(t.Artists, mapArtistRef),
		Album: models.Album{
			ID:                   t.Album.ID,
			Name:                 t.Album.Name,
			ReleaseDate:          t.Album.ReleaseDate,
			ReleaseDatePrecision: t.Album.ReleaseDatePrecision,
		},
	}
}

// mapTracks converts wire tracks, dropping null entries the API occasionally returns.
func mapTracks(tracks []SpotifyTrack) []models.Track {
	return lo.FilterMap(tracks, func(t SpotifyTrack, _ int) (models.Track, bool) {
		return mapTrack(t), t.ID != ""
	})
}
