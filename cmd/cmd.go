// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/tasks"
	"github.com/urfave/cli/v3"
)

// outputFlags are shared by every read command.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// trackListFlags adds a limit and a text/csv/markdown format to the output flags.
func trackListFlags(extra ...cli.Flag) []cli.Flag {
	flags := append(outputFlags(),
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Number of tracks to return (1-100)",
			Value:   services.DefaultLimit,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Plain output format: text, csv or markdown",
			Value:   "text",
		},
	)
	return append(flags, extra...)
}

// seedFlags identify a seed track by title and optional artist.
func seedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "artist",
			Aliases: []string{"a"},
			Usage:   "Artist name to narrow the track search",
		},
	}
}

func artistIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "id",
		Usage: "Spotify artist ID (skips the name search)",
	}
}

func setupCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file or initialize the publish ledger",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config template with placeholder credentials",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the publish ledger and run migrations",
				Flags: []cli.Flag{
					configFlag,
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Find the best matching artist or track",
		Commands: []*cli.Command{
			{
				Name:      "artist",
				Usage:     "Search for an artist by name",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     outputFlags(),
				Action:    r.SearchArtist,
			},
			{
				Name:      "track",
				Usage:     "Search for a track by title",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags:     append(outputFlags(), seedFlags()...),
				Action:    r.SearchTrack,
			},
		},
	}
}

func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Artist lookups",
		Commands: []*cli.Command{
			{
				Name:      "top-tracks",
				Usage:     "List an artist's most popular tracks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     append(trackListFlags(), artistIDFlag()),
				Action:    r.ArtistTopTracks,
			},
			{
				Name:      "genres",
				Usage:     "List an artist's genre tags",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     append(outputFlags(), artistIDFlag()),
				Action:    r.ArtistGenres,
			},
			{
				Name:      "related",
				Usage:     "List artists similar to an artist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     append(outputFlags(), artistIDFlag()),
				Action:    r.ArtistRelated,
			},
		},
	}
}

func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Seeded track recommendations",
		Commands: []*cli.Command{
			{
				Name:      "tracks",
				Usage:     "Recommend tracks similar to a seed track",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags:     trackListFlags(seedFlags()...),
				Action:    r.RecommendTracks,
			},
			{
				Name:      "less-popular",
				Usage:     "Recommend lesser-known tracks similar to a seed track",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags: trackListFlags(append(seedFlags(),
					&cli.IntFlag{
						Name:  "max-popularity",
						Usage: "Popularity ceiling (0-100)",
						Value: tasks.DefaultLessPopularCeiling,
					},
				)...),
				Action: r.RecommendLessPopular,
			},
			{
				Name:      "same-era",
				Usage:     "Recommend tracks released around the seed track's release date",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags: trackListFlags(append(seedFlags(),
					&cli.FloatFlag{
						Name:  "years",
						Usage: "Half-width of the release window in years",
						Value: tasks.DefaultEraYears,
					},
					&cli.IntFlag{
						Name:  "max-popularity",
						Usage: "Popularity ceiling (0-100)",
						Value: tasks.DefaultSameEraCeiling,
					},
				)...),
				Action: r.RecommendSameEra,
			},
			{
				Name:      "mood",
				Usage:     "Recommend tracks matching target audio features",
				Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
				Flags: trackListFlags(append(seedFlags(),
					&cli.FloatFlag{Name: "energy", Usage: "Target energy (0-1)", Value: 0.5},
					&cli.FloatFlag{Name: "valence", Usage: "Target valence (0-1)", Value: 0.5},
					&cli.FloatFlag{Name: "danceability", Usage: "Target danceability (0-1)", Value: 0.5},
				)...),
				Action: r.RecommendMood,
			},
			{
				Name:      "genre",
				Usage:     "Recommend tracks seeded by up to five genres",
				ArgsUsage: "<genre>...",
				Flags:     trackListFlags(),
				Action:    r.RecommendGenre,
			},
			{
				Name:      "artists",
				Usage:     "Recommend tracks seeded by up to five artist IDs",
				ArgsUsage: "<artist-id>...",
				Flags:     trackListFlags(),
				Action:    r.RecommendArtists,
			},
			{
				Name:      "influenced",
				Usage:     "Recommend tracks from artists related to an artist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     trackListFlags(artistIDFlag()),
				Action:    r.RecommendInfluenced,
			},
		},
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Publish playlists and review past publishes",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a playlist for a user and add tracks to it",
				ArgsUsage: "<track-uri-or-id>...",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Spotify user ID that will own the playlist",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Playlist name",
						Value: services.DefaultPlaylistName,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
						Value: services.DefaultPlaylistDescription,
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make the playlist public",
					},
				),
				Action: r.PlaylistCreate,
			},
			{
				Name:  "history",
				Usage: "Show recorded publish attempts, newest first",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show complete, partial or failed publishes",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of records (0 for all)",
						Value:   20,
					},
					&cli.BoolFlag{
						Name:  "summary",
						Usage: "Show counts per status instead of records",
					},
				),
				Action: r.PlaylistHistory,
			},
			{
				Name:      "show",
				Usage:     "Show one recorded publish attempt",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     outputFlags(),
				Action:    r.PlaylistShow,
			},
		},
	}
}

func discoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "discover",
		Usage:     "Run every recommendation strategy for a seed track",
		Arguments: []cli.Argument{&cli.StringArg{Name: "title"}},
		Flags: append(outputFlags(), append(seedFlags(),
			&cli.StringFlag{
				Name:  "with-artist",
				Usage: "Also look up this artist and list its top tracks",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Tracks per section (1-100)",
				Value:   services.DefaultLimit,
			},
			&cli.FloatFlag{
				Name:  "years",
				Usage: "Half-width of the same-era window in years",
				Value: tasks.DefaultEraYears,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Hide progress updates",
			},
		)...),
		Action: r.Discover,
	}
}
