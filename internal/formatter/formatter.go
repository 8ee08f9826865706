// package formatter renders tracks, artists, discovery reports and publish records as plain text, CSV or Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/tasks"
	"github.com/samber/lo"
)

// Format selects a track list rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --format value. An empty value is [FormatText].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatCSV, FormatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, csv or markdown)", s)
	}
}

// TrackLine renders one enumerated track, e.g. "1. Blue by Joni Mitchell from album 'Blue'".
func TrackLine(n int, t models.Track) string {
	return fmt.Sprintf("%d. %s by %s from album '%s'", n, t.Name, t.PrimaryArtist().Name, t.Album.Name)
}

// ExportToText renders a titled, enumerated track list.
func ExportToText(title string, tracks []models.Track) []byte {
	var buf bytes.Buffer
	if title != "" {
		buf.WriteString(fmt.Sprintf("\n%s:\n", title))
	}
	for i, t := range tracks {
		buf.WriteString(TrackLine(i+1, t) + "\n")
	}
	return buf.Bytes()
}

// ExportToCSV converts tracks to CSV with columns: ID, Name, Artist, Album, Release Date, Popularity, URI
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "Album", "Release Date", "Popularity", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, t := range tracks {
		record := []string{
			t.ID,
			t.Name,
			strings.Join(artistNames(t), ", "),
			t.Album.Name,
			t.Album.ReleaseDate,
			strconv.Itoa(t.Popularity),
			t.URI,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a titled track list to a Markdown document.
func ExportToMarkdown(title string, tracks []models.Track) []byte {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	}
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	for i, t := range tracks {
		albumPart := ""
		if t.Album.Name != "" {
			albumPart = fmt.Sprintf(" (%s)", t.Album.Name)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, strings.Join(artistNames(t), ", "), t.Name, albumPart))
	}

	return buf.Bytes()
}

// WriteTracks renders tracks to w in the requested format.
func WriteTracks(w io.Writer, format Format, title string, tracks []models.Track) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatCSV:
		data, err = ExportToCSV(tracks)
	case FormatMarkdown:
		data = ExportToMarkdown(title, tracks)
	default:
		data = ExportToText(title, tracks)
	}
	if err != nil {
		return err
	}

	return write(w, data)
}

// WriteTrackDetails renders a single track's name, artist, album and release date.
func WriteTrackDetails(w io.Writer, t models.Track) error {
	var buf bytes.Buffer
	buf.WriteString("\nTrack Details:\n")
	buf.WriteString(fmt.Sprintf("Track Name: %s\n", t.Name))
	buf.WriteString(fmt.Sprintf("Artist: %s\n", t.PrimaryArtist().Name))
	buf.WriteString(fmt.Sprintf("Album: %s\n", t.Album.Name))
	buf.WriteString(fmt.Sprintf("Release Date: %s\n", t.Album.ReleaseDate))
	return write(w, buf.Bytes())
}

// WriteArtists renders an enumerated artist list with popularity.
func WriteArtists(w io.Writer, title string, artists []models.Artist) error {
	var buf bytes.Buffer
	if title != "" {
		buf.WriteString(fmt.Sprintf("\n%s:\n", title))
	}
	for i, a := range artists {
		buf.WriteString(fmt.Sprintf("%d. %s (popularity %d)\n", i+1, a.Name, a.Popularity))
	}
	return write(w, buf.Bytes())
}

// WriteGenres renders an artist's genre tags, or a notice when there are none.
func WriteGenres(w io.Writer, artistName string, genres []string) error {
	if len(genres) == 0 {
		return write(w, []byte("No genres found for the artist.\n"))
	}
	return write(w, fmt.Appendf(nil, "Genres for the artist '%s': %s\n", artistName, strings.Join(genres, ", ")))
}

// WriteDiscovery renders a full discovery report, section by section.
func WriteDiscovery(w io.Writer, report *tasks.DiscoveryReport) error {
	var buf bytes.Buffer

	if report.Artist != nil {
		buf.WriteString(fmt.Sprintf("\nArtist: %s\n", report.Artist.Name))
		if len(report.TopTracks) > 0 {
			buf.Write(ExportToText("Top Tracks", report.TopTracks))
		}
	}
	if report.ArtistErr != nil {
		buf.WriteString(fmt.Sprintf("\nArtist lookup failed: %v\n", report.ArtistErr))
	}

	if report.Seed != nil {
		if err := WriteTrackDetails(&buf, *report.Seed); err != nil {
			return err
		}
		if len(report.Genres) > 0 {
			buf.WriteString(fmt.Sprintf("Genres: %s\n", strings.Join(report.Genres, ", ")))
		}
	}

	for _, s := range report.Sections {
		switch {
		case s.Err != nil:
			buf.WriteString(fmt.Sprintf("\n%s:\nfailed: %v\n", s.Title, s.Err))
		case s.Skipped != "":
			buf.WriteString("\n" + s.Skipped + "\n")
		case len(s.Tracks) == 0:
			buf.WriteString(fmt.Sprintf("\n%s:\n(no tracks)\n", s.Title))
		default:
			buf.Write(ExportToText(s.Title, s.Tracks))
		}
	}

	return write(w, buf.Bytes())
}

// WritePublishRecords renders the publish ledger as aligned rows, newest first.
func WritePublishRecords(w io.Writer, records []*models.PublishRecord) error {
	if len(records) == 0 {
		return write(w, []byte("No publishes recorded.\n"))
	}

	var buf bytes.Buffer
	for _, r := range records {
		playlist := lo.Ternary(r.PlaylistID == "", "-", r.PlaylistID)
		buf.WriteString(fmt.Sprintf("%s  %-8s  %-24s  %s  %d/%d",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Status, playlist, r.PlaylistName, r.AddedTracks, r.RequestedTracks))
		if r.Error != "" {
			buf.WriteString("  " + r.Error)
		}
		buf.WriteString("\n")
	}
	return write(w, buf.Bytes())
}

// WritePublishSummary prints the number of recorded publishes per status.
func WritePublishSummary(w io.Writer, counts map[models.PublishStatus]int) error {
	var buf bytes.Buffer
	total := 0
	for _, status := range []models.PublishStatus{models.PublishComplete, models.PublishPartial, models.PublishFailed} {
		buf.WriteString(fmt.Sprintf("%-8s  %d\n", status, counts[status]))
		total += counts[status]
	}
	buf.WriteString(fmt.Sprintf("%-8s  %d\n", "total", total))
	return write(w, buf.Bytes())
}

func artistNames(t models.Track) []string {
	return lo.Map(t.Artists, func(a models.ArtistRef, _ int) string { return a.Name })
}

func write(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
