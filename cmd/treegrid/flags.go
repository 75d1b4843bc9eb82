package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mholzen/treegrid/pkg/rowmodel"
	"github.com/mholzen/treegrid/pkg/source"
	"github.com/mholzen/treegrid/pkg/transform"
)

func getSourceFlags(commandFlags ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"s"},
			Value:   "sample",
			Usage:   "Record source: sample, a .json file, an http(s) URL or a neo4j:// URI",
			Sources: cli.EnvVars("TREEGRID_SOURCE"),
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Bearer token sent to an http(s) source",
			Sources: cli.EnvVars("TREEGRID_TOKEN"),
		},
		&cli.StringFlag{
			Name:  "neo4j-user",
			Value: "neo4j",
			Usage: "Neo4j username",
		},
		&cli.StringFlag{
			Name:    "neo4j-password",
			Usage:   "Neo4j password",
			Sources: cli.EnvVars("TREEGRID_NEO4J_PASSWORD"),
		},
		&cli.StringFlag{
			Name:  "neo4j-database",
			Usage: "Neo4j database (default: server default)",
		},
		&cli.StringFlag{
			Name:  "cache-file",
			Usage: "Cache remote records in this file",
		},
		&cli.DurationFlag{
			Name:  "cache-ttl",
			Value: source.DefaultCacheTTL,
			Usage: "How long cached records stay fresh",
		},
		&cli.StringFlag{
			Name:  "name-transform",
			Usage: "Comma-separated transforms applied to record names: " + joinBuiltins(),
		},
	}
	flags = append(flags, commandFlags...)
	return flags
}

func getExposeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "expose",
		Value: "all",
		Usage: "Tools to expose: all, read, or comma-separated tool names",
	}
}

func getAddrFlag(defaultValue string) cli.Flag {
	return &cli.StringFlag{
		Name:  "addr",
		Value: defaultValue,
		Usage: "Address to listen on (e.g., :8080 or localhost:8080)",
	}
}

func getSourceOptions(cmd *cli.Command) source.Options {
	return source.Options{
		Token:         cmd.String("token"),
		Neo4jUser:     cmd.String("neo4j-user"),
		Neo4jPassword: cmd.String("neo4j-password"),
		Neo4jDatabase: cmd.String("neo4j-database"),
		CacheFile:     cmd.String("cache-file"),
		CacheTTL:      cmd.Duration("cache-ttl"),
	}
}

// sourceOpener returns a function that opens a fresh source per call, with
// the name transform applied.
func sourceOpener(cmd *cli.Command) (func() (rowmodel.Source, error), error) {
	t, err := transform.Resolve(cmd.String("name-transform"))
	if err != nil {
		return nil, err
	}

	spec := cmd.String("source")
	opts := getSourceOptions(cmd)
	return func() (rowmodel.Source, error) {
		slog.Debug("opening source", "source", spec)
		src, err := source.Open(spec, opts)
		if err != nil {
			return nil, fmt.Errorf("cannot open source: %w", err)
		}
		return transform.Source(src, t), nil
	}, nil
}

func validateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("format must be one of: %v", allowed)
}
