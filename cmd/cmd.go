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

// setupCommand handles database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, database and run migrations",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Setup,
	}
}

// addCommand registers a media record from its locator.
func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Register a media source for later enrichment",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "uri",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "title",
				Usage: "Initial title, overrides the unknown placeholder",
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Initial artist",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Initial album",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Add,
	}
}

// listCommand prints stored media records.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List stored media records",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, csv, markdown)",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "enriched",
				Usage: "Only records with stored metadata",
			},
			&cli.BoolFlag{
				Name:  "pending",
				Usage: "Only records still at placeholder metadata",
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Filter by exact artist",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.List,
	}
}

// showCommand prints a single record.
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show a single media record",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Show,
	}
}

// enrichCommand runs a metadata enrichment batch.
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "enrich",
		Usage: "Extract and store metadata for a batch of records",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "ids",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Enrich every record still at placeholder metadata",
			},
			&cli.IntFlag{
				Name:    "active",
				Aliases: []string{"a"},
				Usage:   "Batch position of the currently playing item, -1 for none",
				Value:   -1,
			},
			&cli.BoolFlag{
				Name:  "artwork",
				Usage: "Extract embedded artwork, overrides the configured default",
			},
		},
		Action: r.Enrich,
	}
}
