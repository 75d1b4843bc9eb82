package mcp

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mholzen/treegrid/pkg/grid"
	"github.com/mholzen/treegrid/pkg/hierarchy"
	"github.com/mholzen/treegrid/pkg/rowmodel"
	"github.com/mholzen/treegrid/pkg/search"
	"github.com/mholzen/treegrid/pkg/source"
)

const (
	ToolRows    = "treegrid_rows"
	ToolTree    = "treegrid_tree"
	ToolOptions = "treegrid_options"
	ToolSearch  = "treegrid_search"
)

// ToolBuilder wires grid operations into MCP tool handlers.
type ToolBuilder struct {
	newSource func() (rowmodel.Source, error)
	options   *grid.Options
}

func NewToolBuilder(newSource func() (rowmodel.Source, error), options *grid.Options) ToolBuilder {
	if options == nil {
		options = grid.DefaultOptions()
	}
	return ToolBuilder{newSource: newSource, options: options}
}

// BuildTools constructs the requested tools in the order provided.
func (b ToolBuilder) BuildTools(toolNames []string) ([]mcpserver.ServerTool, error) {
	factories := map[string]func() mcpserver.ServerTool{
		ToolRows:    b.buildRowsTool,
		ToolTree:    b.buildTreeTool,
		ToolOptions: b.buildOptionsTool,
		ToolSearch:  b.buildSearchTool,
	}

	var tools []mcpserver.ServerTool
	for _, name := range toolNames {
		factory, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool: %s", name)
		}
		tools = append(tools, factory())
	}
	return tools, nil
}

func (b ToolBuilder) loadRecords(ctx context.Context) ([]hierarchy.Record, error) {
	src, err := b.newSource()
	if err != nil {
		return nil, err
	}
	defer source.Close(ctx, src)
	return src.Records(ctx)
}

func (b ToolBuilder) buildRowsTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolRows,
			mcptypes.WithDescription("Request a page of grid rows. A root request (no group_keys) returns the page followed by every group's children; group requests always fail."),
			mcptypes.WithArray("group_keys",
				mcptypes.Description("Ids of the expanded ancestors (empty for the root level)"),
				mcptypes.WithStringItems(),
			),
			mcptypes.WithNumber("start_row",
				mcptypes.Description("First row index (default 0)"),
				mcptypes.DefaultNumber(0),
			),
			mcptypes.WithNumber("end_row",
				mcptypes.Description("Row index after the last row (default: page size)"),
				mcptypes.DefaultNumber(float64(b.options.CacheBlockSize)),
			),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			request := rowmodel.Request{
				GroupPath:  req.GetStringSlice("group_keys", nil),
				StartIndex: req.GetInt("start_row", 0),
				EndIndex:   req.GetInt("end_row", b.options.CacheBlockSize),
			}

			src, err := b.newSource()
			if err != nil {
				return mcptypes.NewToolResultErrorFromErr("cannot open source", err), nil
			}
			defer source.Close(ctx, src)

			recorder := &rowmodel.Recorder{}
			rowmodel.NewProvider(src, rowmodel.WithName("mcp")).GetRows(ctx, request, recorder)
			if recorder.Err != nil {
				return mcptypes.NewToolResultErrorFromErr("getRows failed", recorder.Err), nil
			}
			return mcptypes.NewToolResultJSON(recorder)
		},
	}
}

func (b ToolBuilder) buildTreeTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolTree,
			mcptypes.WithDescription("Show the hierarchy built from the records, with counts"),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			records, err := b.loadRecords(ctx)
			if err != nil {
				return mcptypes.NewToolResultErrorFromErr("cannot load records", err), nil
			}
			forest := hierarchy.BuildHierarchy(records)
			stats := hierarchy.CountStats(forest)
			orphans := len(records) - stats.Nodes

			text := fmt.Sprintf("%s\nroots: %d, nodes: %d, groups: %d, leaves: %d, depth: %d, dropped: %d\n",
				hierarchy.Render(forest), stats.Roots, stats.Nodes, stats.Groups, stats.Leaves, stats.MaxDepth, orphans)
			return mcptypes.NewToolResultText(text), nil
		},
	}
}

func (b ToolBuilder) buildOptionsTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolOptions,
			mcptypes.WithDescription("Show the grid options the row API is configured for"),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			return mcptypes.NewToolResultJSON(b.options)
		},
	}
}

func (b ToolBuilder) buildSearchTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolSearch,
			mcptypes.WithDescription("Search node names and return each match with the route of ids leading to it"),
			mcptypes.WithString("pattern",
				mcptypes.Required(),
				mcptypes.Description("Text or regular expression to search for"),
			),
			mcptypes.WithBoolean("regexp",
				mcptypes.Description("Treat pattern as a regular expression"),
				mcptypes.DefaultBool(false),
			),
			mcptypes.WithBoolean("ignore_case",
				mcptypes.Description("Case-insensitive matching"),
				mcptypes.DefaultBool(true),
			),
			mcptypes.WithNumber("limit",
				mcptypes.Description("Maximum number of results (0 for all)"),
				mcptypes.DefaultNumber(50),
			),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			pattern := req.GetString("pattern", "")
			if pattern == "" {
				return mcptypes.NewToolResultError("pattern is required"), nil
			}

			records, err := b.loadRecords(ctx)
			if err != nil {
				return mcptypes.NewToolResultErrorFromErr("cannot load records", err), nil
			}

			results, err := search.SearchForest(hierarchy.BuildHierarchy(records), pattern, search.Options{
				UseRegexp:  req.GetBool("regexp", false),
				IgnoreCase: req.GetBool("ignore_case", true),
				Limit:      req.GetInt("limit", 50),
			})
			if err != nil {
				return mcptypes.NewToolResultErrorFromErr("search failed", err), nil
			}
			return mcptypes.NewToolResultJSON(map[string]any{"results": results})
		},
	}
}
