// Command boorudex-admin is the operator control plane: manage the
// monitored tag list, inspect ingestion progress, and snapshot the
// index to a portable SQLite file.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lorehash/boorudex/cmd/boorudex-admin/commands"
)

func main() {
	app := &cli.App{
		Name:  "boorudex-admin",
		Usage: "operate a running boorudex index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the boorudex YAML config file",
				Value:   "boorudex.yaml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "tags",
				Usage: "manage the monitored tag list",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list monitored tags",
						Action: commands.TagsList,
					},
					{
						Name:      "add",
						Usage:     "resolve a tag fragment upstream and start monitoring it",
						ArgsUsage: "<fragment>",
						Action:    commands.TagsAdd,
					},
					{
						Name:      "remove",
						Usage:     "stop monitoring a tag",
						ArgsUsage: "<tag>",
						Action:    commands.TagsRemove,
					},
				},
			},
			{
				Name:  "status",
				Usage: "print queue depth and indexed count per monitored tag",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "also write the report to this file",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "report file format when --out is set (text, json)",
						Value: "text",
					},
				},
				Action: commands.Status,
			},
			{
				Name:  "export",
				Usage: "snapshot indexed entries to a SQLite file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output SQLite file path",
						Value:   "boorudex.db",
					},
				},
				Action: commands.Export,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
