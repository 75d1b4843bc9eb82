package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mholzen/treegrid/pkg/grid"
	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/mholzen/treegrid/pkg/mcp"
	"github.com/mholzen/treegrid/pkg/rowmodel"
	"github.com/mholzen/treegrid/pkg/search"
	"github.com/mholzen/treegrid/pkg/server"
	"github.com/mholzen/treegrid/pkg/source"
)

func getCommands() []*cli.Command {
	return []*cli.Command{
		getTreeCommand(),
		getRowsCommand(),
		getSearchCommand(),
		getOptionsCommand(),
		getServeCommand(),
		getMcpCommand(),
		getMcpHTTPCommand(),
		getVersionCommand(),
	}
}

func loadRecords(ctx context.Context, cmd *cli.Command) ([]hierarchy.Record, error) {
	open, err := sourceOpener(cmd)
	if err != nil {
		return nil, err
	}
	src, err := open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := source.Close(ctx, src); err != nil {
			slog.Warn("cannot close source", "error", err)
		}
	}()

	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load records: %w", err)
	}
	return records, nil
}

func getTreeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Build the hierarchy from the source and print it",
		UsageText: "treegrid tree [options]",
		Flags: getSourceFlags(
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "tree",
				Usage:   "Output format: tree, list, json or stats",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := cmd.String("format")
			if err := validateFormat(format, "tree", "list", "json", "stats"); err != nil {
				return err
			}

			records, err := loadRecords(ctx, cmd)
			if err != nil {
				return err
			}
			forest := hierarchy.BuildHierarchy(records)
			w := stdout(cmd)

			switch format {
			case "list":
				for _, node := range hierarchy.Flatten(forest) {
					fmt.Fprintf(w, "%s\t%s\n", grid.DataPathFormatter(node.Path), node.Name)
				}
				return nil
			case "json":
				return printJSONToWriter(w, hierarchy.Flatten(forest))
			case "stats":
				stats := hierarchy.CountStats(forest)
				return printJSONToWriter(w, struct {
					hierarchy.Stats
					Records int `json:"records"`
					Dropped int `json:"dropped"`
				}{stats, len(records), len(records) - stats.Nodes})
			}
			fmt.Fprint(w, hierarchy.Render(forest))
			return nil
		},
	}
}

func getRowsCommand() *cli.Command {
	return &cli.Command{
		Name:      "rows",
		Usage:     "Run one getRows request and print the resulting events",
		UsageText: "treegrid rows [options]",
		Description: `Build a row provider over the source and send it a single request.

A root request prints the page followed by one push event per group in the
forest. Requests with --group-key always fail: children are only ever pushed.

Examples:
  treegrid rows                          # First page of the sample data
  treegrid rows --start 5 --end 10       # Second page
  treegrid rows -s records.json --end 100`,
		Flags: getSourceFlags(
			&cli.IntFlag{
				Name:  "start",
				Value: 0,
				Usage: "First row index",
			},
			&cli.IntFlag{
				Name:  "end",
				Value: grid.DefaultOptions().CacheBlockSize,
				Usage: "Row index after the last row",
			},
			&cli.StringSliceFlag{
				Name:  "group-key",
				Usage: "Id of an expanded ancestor (can be specified multiple times)",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			open, err := sourceOpener(cmd)
			if err != nil {
				return err
			}
			src, err := open()
			if err != nil {
				return err
			}
			defer source.Close(ctx, src)

			request := rowmodel.Request{
				GroupPath:  cmd.StringSlice("group-key"),
				StartIndex: cmd.Int("start"),
				EndIndex:   cmd.Int("end"),
			}

			recorder := &rowmodel.Recorder{}
			rowmodel.NewProvider(src, rowmodel.WithName("cli")).GetRows(ctx, request, recorder)

			if err := printJSONToWriter(stdout(cmd), recorder); err != nil {
				return err
			}
			return recorder.Err
		},
	}
}

func getSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search node names and show the route to each match",
		UsageText: "treegrid search <pattern> [options]",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "pattern",
				UsageText: "<pattern>",
			},
		},
		Flags: getSourceFlags(
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "Case-insensitive matching",
			},
			&cli.BoolFlag{
				Name:    "regexp",
				Aliases: []string{"E"},
				Usage:   "Treat pattern as regular expression",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (0 for all)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "list",
				Usage:   "Output format: list or json",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pattern := cmd.StringArg("pattern")
			if pattern == "" {
				return fmt.Errorf("pattern is required")
			}
			format := cmd.String("format")
			if err := validateFormat(format, "list", "json"); err != nil {
				return err
			}

			records, err := loadRecords(ctx, cmd)
			if err != nil {
				return err
			}

			results, err := search.SearchForest(hierarchy.BuildHierarchy(records), pattern, search.Options{
				UseRegexp:  cmd.Bool("regexp"),
				IgnoreCase: cmd.Bool("ignore-case"),
				Limit:      cmd.Int("limit"),
			})
			if err != nil {
				return err
			}

			w := stdout(cmd)
			if format == "json" {
				return printJSONToWriter(w, results)
			}
			for _, r := range results {
				fmt.Fprintln(w, r)
			}
			return nil
		},
	}
}

func getOptionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "options",
		Usage:     "Print the grid options the row API serves",
		UsageText: "treegrid options",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return printJSONToWriter(stdout(cmd), grid.DefaultOptions())
		},
	}
}

func getServeCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Run the HTTP row API",
		UsageText: "treegrid serve [options]",
		Description: `Start the HTTP row API for a server-side tree grid.

Each grid creates a session, then posts getRows requests to it. A root request
streams the page and every group's children as newline-delimited JSON.

Routes:
  POST   /api/sessions            create a session
  POST   /api/sessions/{id}/rows  getRows
  DELETE /api/sessions/{id}       drop a session
  GET    /api/options             grid options
  GET    /metrics                 Prometheus metrics

Examples:
  treegrid serve --addr=:8080
  treegrid serve -s neo4j://localhost:7687 --neo4j-password=secret
  treegrid serve --auth-token=$TOKEN --cors --cors-origin=https://grid.example.com`,
		Flags: getSourceFlags(
			getAddrFlag(":8080"),
			&cli.StringSliceFlag{
				Name:    "auth-token",
				Usage:   "Bearer token required on /api routes (can be specified multiple times)",
				Sources: cli.EnvVars("TREEGRID_AUTH_TOKENS"),
			},
			&cli.StringFlag{
				Name:  "tls-cert",
				Usage: "Path to TLS certificate file for HTTPS",
			},
			&cli.StringFlag{
				Name:  "tls-key",
				Usage: "Path to TLS key file for HTTPS",
			},
			&cli.BoolFlag{
				Name:  "cors",
				Usage: "Enable CORS for browser-based clients",
			},
			&cli.StringSliceFlag{
				Name:  "cors-origin",
				Usage: "Allowed CORS origins (if empty, allows all when --cors is enabled)",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			open, err := sourceOpener(cmd)
			if err != nil {
				return err
			}
			return server.Run(ctx, server.Config{
				Addr:           cmd.String("addr"),
				NewSource:      open,
				Options:        grid.DefaultOptions(),
				Tokens:         cmd.StringSlice("auth-token"),
				EnableCORS:     cmd.Bool("cors"),
				AllowedOrigins: cmd.StringSlice("cors-origin"),
				TLSCertFile:    cmd.String("tls-cert"),
				TLSKeyFile:     cmd.String("tls-key"),
			})
		},
	}
}

func getMcpConfig(cmd *cli.Command) (mcp.Config, error) {
	open, err := sourceOpener(cmd)
	if err != nil {
		return mcp.Config{}, err
	}
	return mcp.Config{
		NewSource: open,
		Options:   grid.DefaultOptions(),
		Expose:    cmd.String("expose"),
		Version:   version,
	}, nil
}

func getMcpCommand() *cli.Command {
	return &cli.Command{
		Name:      "mcp",
		Usage:     "Run as MCP server (stdio transport)",
		UsageText: "treegrid mcp [options]",
		Description: `Start the treegrid MCP server over stdio.

Tools:
  rows     treegrid_rows, one getRows request and its events
  tree     treegrid_tree, the hierarchy with counts
  search   treegrid_search, node names matching a pattern, with routes
  options  treegrid_options, the grid options

Examples:
  treegrid mcp
  treegrid mcp --expose=tree,rows -s records.json`,
		Flags: getSourceFlags(getExposeFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := getMcpConfig(cmd)
			if err != nil {
				return err
			}
			return mcp.RunServer(ctx, cfg)
		},
	}
}

func getMcpHTTPCommand() *cli.Command {
	return &cli.Command{
		Name:      "mcp-http",
		Usage:     "Run as MCP server (streamable HTTP transport)",
		UsageText: "treegrid mcp-http [options]",
		Flags: getSourceFlags(
			getExposeFlag(),
			getAddrFlag(":8081"),
			&cli.StringFlag{
				Name:  "endpoint-path",
				Value: "/mcp",
				Usage: "Path for the MCP endpoint",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := getMcpConfig(cmd)
			if err != nil {
				return err
			}
			return mcp.RunHTTPServer(ctx, mcp.HTTPConfig{
				Config:       cfg,
				Addr:         cmd.String("addr"),
				EndpointPath: cmd.String("endpoint-path"),
			})
		},
	}
}

func getVersionCommand() *cli.Command {
	return &cli.Command{
		Name:      "version",
		Usage:     "Show version information",
		UsageText: "treegrid version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := stdout(cmd)
			fmt.Fprintf(w, "treegrid version %s\n", version)
			fmt.Fprintf(w, "commit: %s\n", commit)
			fmt.Fprintf(w, "built: %s\n", date)
			return nil
		},
	}
}
