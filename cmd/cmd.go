// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// projectsCommand handles stored project operations
func projectsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "projects",
		Aliases: []string{"proj"},
		Usage:   "Azure DevOps project operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored projects",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.ProjectsList,
			},
			{
				Name:   "sync",
				Usage:  "Fetch projects from the source organization and store them",
				Action: r.ProjectsSync,
			},
			{
				Name:  "repo",
				Usage: "Inspect one repository's branches, commits, and pull requests",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "project",
					},
					&cli.StringArg{
						Name: "repository",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.ProjectsRepo,
			},
			{
				Name:  "export",
				Usage: "Export a project's extraction summary",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "project",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (text, markdown, csv, json)",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Base path for exported files (csv and markdown formats)",
					},
				},
				Action: r.ProjectsExport,
			},
		},
	}
}

// connectionsCommand handles stored connection operations
func connectionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "connections",
		Aliases: []string{"conn"},
		Usage:   "Manage Azure DevOps connections",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List stored connections",
				Action: r.ConnectionsList,
			},
			{
				Name:  "add",
				Usage: "Store a new connection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Connection name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "organization",
						Aliases:  []string{"org"},
						Usage:    "Organization name or https://dev.azure.com/{org} URL",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "token",
						Usage:    "Personal access token",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Connection type (source or target)",
						Value: "source",
					},
				},
				Action: r.ConnectionsAdd,
			},
			{
				Name:  "test",
				Usage: "Test a stored connection's credentials",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.ConnectionsTest,
			},
		},
	}
}

// extractCommand handles artifact extraction operations
func extractCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extract project artifacts from the source organization",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run extraction for a project",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "project",
						Aliases:  []string{"p"},
						Usage:    "Project ID, external ID, or name",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Artifact type to extract (repeatable; default: all types)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent extraction workers",
						Value: 4,
					},
				},
				Action: r.ExtractRun,
			},
		},
	}
}

// jobsCommand handles extraction job inspection
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "Inspect extraction jobs",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show the current state of a job",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.JobsStatus,
			},
			{
				Name:  "history",
				Usage: "Show a project's extraction history, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "project",
						Aliases:  []string{"p"},
						Usage:    "Project ID, external ID, or name",
						Required: true,
					},
				},
				Action: r.JobsHistory,
			},
			{
				Name:  "watch",
				Usage: "Poll a job until it settles",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.JobsWatch,
			},
		},
	}
}

// serveCommand runs the HTTP API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the extraction dashboard API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive extraction.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for artifact extraction",
		Action:  r.TUI,
	}
}
