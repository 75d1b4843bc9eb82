package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mholzen/treegrid/pkg/grid"
	"github.com/mholzen/treegrid/pkg/rowmodel"
)

// Config controls MCP server startup.
type Config struct {
	// NewSource opens the record source. It is called once per tool call so
	// that every call sees a fresh forest.
	NewSource func() (rowmodel.Source, error)
	Options   *grid.Options
	Expose    string
	Version   string
}

func newMCPServer(cfg Config, opts ...mcpserver.ServerOption) (*mcpserver.MCPServer, error) {
	if cfg.NewSource == nil {
		return nil, fmt.Errorf("no record source configured")
	}
	expose := strings.TrimSpace(cfg.Expose)
	if expose == "" {
		expose = "all"
	}

	toolsToEnable, err := ParseExposeList(expose)
	if err != nil {
		return nil, err
	}

	builder := NewToolBuilder(cfg.NewSource, cfg.Options)
	serverTools, err := builder.BuildTools(toolsToEnable)
	if err != nil {
		return nil, err
	}

	opts = append([]mcpserver.ServerOption{
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	}, opts...)
	server := mcpserver.NewMCPServer("treegrid", cfg.Version, opts...)

	for _, tool := range serverTools {
		server.AddTool(tool.Tool, tool.Handler)
	}
	return server, nil
}

// RunServer starts the MCP stdio server with the requested tool set.
func RunServer(ctx context.Context, cfg Config) error {
	server, err := newMCPServer(cfg)
	if err != nil {
		return err
	}

	return mcpserver.ServeStdio(server, mcpserver.WithStdioContextFunc(func(_ context.Context) context.Context {
		return ctx
	}))
}

// ParseExposeList converts the --expose flag into a deduplicated, ordered tool list.
// Individual tools can be referenced either by their short name (e.g., "rows")
// or full MCP name (e.g., "treegrid_rows").
func ParseExposeList(raw string) ([]string, error) {
	tokenList := strings.Split(raw, ",")

	var tokens []string
	for _, t := range tokenList {
		token := strings.TrimSpace(strings.ToLower(t))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}

	if len(tokens) == 0 {
		tokens = []string{"all"}
	}

	result := make([]string, 0, len(allTools))
	seen := make(map[string]struct{})

	addSet := func(names []string) {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			result = append(result, name)
		}
	}

	for _, token := range tokens {
		if group, ok := groupMap[token]; ok {
			addSet(group)
			continue
		}

		if alias, ok := aliasMap[token]; ok {
			addSet([]string{alias})
			continue
		}

		if _, ok := fullNames[token]; ok {
			addSet([]string{token})
			continue
		}

		return nil, fmt.Errorf("unknown tool or group in --expose: %s", token)
	}

	return result, nil
}

var (
	allTools = []string{
		ToolRows,
		ToolTree,
		ToolOptions,
		ToolSearch,
	}

	groupMap = map[string][]string{
		"all":  allTools,
		"read": allTools,
	}

	aliasMap = map[string]string{
		"rows":    ToolRows,
		"tree":    ToolTree,
		"options": ToolOptions,
		"search":  ToolSearch,
	}

	fullNames = func() map[string]struct{} {
		out := make(map[string]struct{}, len(allTools))
		for _, fullName := range allTools {
			out[fullName] = struct{}{}
		}
		return out
	}()
)
