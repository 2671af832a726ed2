// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/dsx/internal/formatter"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func debugFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "debug",
		Usage:   "Log at debug level",
		Sources: cli.EnvVars("DSX_DEBUG"),
	}
}

// setupCommand writes a starter config
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize local configuration",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Create config.toml from the bundled template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles portal authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate against the dataset portal",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Exchange username & password for a bearer token (OAuth2 password grant)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Portal username (defaults to auth.username)",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Portal password (defaults to auth.password or $DSX_PASSWORD)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the token as JSON",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state (calls /health)",
				Action: r.AuthStatus,
			},
		},
	}
}

// uploadCommand stages a file with tags and submits it
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload a dataset file with tags",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Tag to attach (repeatable, order is kept)",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Dataset title (defaults to the file name without extension)",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Dataset description",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Dataset type (defaults to upload.dataset_type)",
			},
			&cli.StringFlag{
				Name:  "share",
				Usage: "Share level (defaults to upload.share_level)",
			},
			&cli.StringFlag{
				Name:  "dataset-version",
				Usage: "Dataset version (defaults to upload.version)",
			},
			&cli.StringSliceFlag{
				Name:  "author",
				Usage: "Author (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "team",
				Usage: "Team (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the portal response as JSON",
			},
		},
		Action: r.Upload,
	}
}

// browseCommand lists uploaded datasets
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"ls"},
		Usage:   "List datasets available on the portal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv, json or yaml",
				Value:   formatter.FormatText,
			},
			&cli.StringFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Only show datasets whose title, id or tags resemble this query",
			},
			&cli.IntFlag{
				Name:  "distance",
				Usage: "Maximum edit distance for --match",
				Value: 2,
			},
		},
		Action: r.Browse,
	}
}

// downloadCommand fetches one or more datasets by file id
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "download",
		Aliases:   []string{"dl"},
		Usage:     "Download datasets by file id",
		ArgsUsage: "FILE_ID [FILE_ID...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (defaults to ui.download_dir)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Manifest format: json or yaml",
				Value: formatter.FormatJSON,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent downloads (max 8)",
				Value: 3,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second",
				Value: 5,
			},
		},
		Action: r.Download,
	}
}

// apiCommand handles direct portal calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the dataset portal",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the portal, prints the body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive upload & browse UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory the file picker starts in",
			},
		},
		Action: r.TUI,
	}
}
