package tasks

import (
	"fmt"

	"github.com/desertthunder/spotrec/internal/models"
)

// ProgressUpdate represents a progress event during a discovery run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	SearchArtist Phase = iota
	FetchTopTracks
	SearchSeed
	FetchGenres
	Recommend
)

func (p Phase) String() string {
	switch p {
	case SearchArtist:
		return "search_artist"
	case FetchTopTracks:
		return "fetch_top_tracks"
	case SearchSeed:
		return "search_seed"
	case FetchGenres:
		return "fetch_genres"
	case Recommend:
		return "recommend"
	default:
		return ""
	}
}

func searchArtistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchArtist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching for artist %q...", name),
	}
}

func topTracksUpdate(step, total int, artist models.Artist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTopTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching top tracks for %s...", artist.Name),
		Data:    artist,
	}
}

func searchSeedUpdate(step, total int, title, artist string) ProgressUpdate {
	msg := fmt.Sprintf("Searching for track %q...", title)
	if artist != "" {
		msg = fmt.Sprintf("Searching for track %q by %s...", title, artist)
	}
	return ProgressUpdate{
		Phase:   SearchSeed,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}

func foundSeedUpdate(step, total int, track models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchSeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found: %s by %s (%s)", track.Name, track.PrimaryArtist().Name, track.Album.ReleaseDate),
		Data:    track,
	}
}

func genresUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGenres,
		Step:    step,
		Total:   total,
		Message: "Fetching artist genres...",
	}
}

func sectionUpdate(step, total int, s *Section) ProgressUpdate {
	var msg string
	switch {
	case s.Err != nil:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, s.Title, s.Err)
	case s.Skipped != "":
		msg = fmt.Sprintf("[%d/%d] - %s: %s", step, total, s.Title, s.Skipped)
	default:
		msg = fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, s.Title, len(s.Tracks))
	}
	return ProgressUpdate{
		Phase:   Recommend,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    s.Kind,
	}
}
