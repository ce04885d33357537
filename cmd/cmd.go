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

// sourceCommand handles IT Glue read operations
func sourceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "source",
		Aliases: []string{"itglue", "itg"},
		Usage:   "IT Glue directory operations",
		Commands: []*cli.Command{
			{
				Name:  "orgs",
				Usage: "List organizations syncing with both systems",
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
				Action: r.SourceOrgs,
			},
			{
				Name:  "contacts",
				Usage: "List contacts for an organization",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "org",
						Usage:    "Organization ID to list contacts for",
						Required: true,
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
				Action: r.SourceContacts,
			},
		},
	}
}

// targetCommand handles Autotask read operations
func targetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "target",
		Aliases: []string{"autotask", "at"},
		Usage:   "Autotask PSA operations",
		Commands: []*cli.Command{
			{
				Name:  "companies",
				Usage: "List Autotask companies",
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
				Action: r.TargetCompanies,
			},
			{
				Name:  "contacts",
				Usage: "List email addresses of existing Autotask contacts",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TargetContacts,
			},
		},
	}
}

// syncCommand handles the contact sync pipeline
func syncCommand(r *Runner) *cli.Command {
	planFlags := []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:    "license",
			Aliases: []string{"l"},
			Usage:   "License filter: all, licensed or unlicensed",
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"x"},
			Usage:   "Organization IDs to exclude (repeatable)",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a report file to this path",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Report format: json, csv, markdown or text",
			Value: "json",
		},
	}

	return &cli.Command{
		Name:  "sync",
		Usage: "Sync IT Glue contacts into Autotask",
		Commands: []*cli.Command{
			{
				Name:   "plan",
				Usage:  "Dry run: show what a sync would create without writing",
				Flags:  planFlags,
				Action: r.SyncPlan,
			},
			{
				Name:  "run",
				Usage: "Plan, confirm and create contacts in Autotask",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				}, planFlags...),
				Action: r.SyncRun,
			},
			{
				Name:   "ui",
				Usage:  "Interactive TUI for contact sync",
				Flags:  planFlags,
				Action: r.SyncUI,
			},
		},
	}
}

// setupCommand handles configuration bootstrap.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Create a config.toml from the bundled template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}
