// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func importFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:  "failed",
			Usage: "Path to the failure log (defaults to the configured failure_log)",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Skip the local match cache",
		},
	}
}

// libraryCommand imports songs into the user's saved tracks.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "library",
		Usage: "Save matched songs to your Spotify library (\"Liked Songs\")",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "username"},
			&cli.StringArg{Name: "songs"},
		},
		Flags:  importFlags(),
		Action: r.ImportLibrary,
	}
}

// playlistCommand imports songs into a newly created playlist.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Save matched songs to a newly created playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "username"},
			&cli.StringArg{Name: "songs"},
			&cli.StringArg{Name: "name"},
		},
		Flags:  importFlags(),
		Action: r.ImportPlaylist,
	}
}

// authCommand handles Spotify OAuth2 authentication.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SpotifyAuth,
	}
}

// setupCommand initializes the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize configuration and the match-cache database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// cacheCommand manages the local match cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the local match cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show match cache statistics",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit statistics as JSON",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached matches",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}
