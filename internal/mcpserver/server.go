// Package mcpserver exposes the code-map pipeline and the single-file scan
// as Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scopemap/cli/internal/analyzer"
	"github.com/scopemap/cli/internal/codemap"
	"github.com/scopemap/cli/internal/scan"
	"github.com/scopemap/cli/internal/ui"
)

// Server wraps an MCP server with the analysis tools registered.
type Server struct {
	server   *mcp.Server
	registry *analyzer.Registry
	opts     codemap.Options
}

// New builds a stdio MCP server named after the CLI. The options act as
// defaults; tool arguments override them per call.
func New(version string, opts codemap.Options) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "scopemap",
			Version: version,
		}, nil),
		registry: analyzer.DefaultRegistry(),
		opts:     opts,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdin/stdout until the context is canceled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name: "code_map",
		Description: "Map the architecture of a codebase: entry points, central files, " +
			"import clusters, and the most-called functions. Start here before reading files.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"directory": {
					Type:        "string",
					Description: "Absolute path of the directory to map",
				},
				"enable_layer2": {
					Type:        "boolean",
					Description: "Extract definitions and the call graph (default true)",
				},
				"top_n": {
					Type:        "integer",
					Description: "Number of hot functions to report",
				},
				"max_files": {
					Type:        "integer",
					Description: "Cap on the number of files analyzed",
				},
			},
			Required: []string{"directory"},
		},
	}, s.handleCodeMap)

	s.server.AddTool(&mcp.Tool{
		Name: "scan_file",
		Description: "Show the structure of one source file: imports, classes, functions, " +
			"and methods with their line ranges.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path": {
					Type:        "string",
					Description: "Path of the file to scan",
				},
			},
			Required: []string{"file_path"},
		},
	}, s.handleScanFile)
}

type codeMapParams struct {
	Directory    string `json:"directory"`
	EnableLayer2 *bool  `json:"enable_layer2,omitempty"`
	TopN         int    `json:"top_n,omitempty"`
	MaxFiles     int    `json:"max_files,omitempty"`
}

func (s *Server) handleCodeMap(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params codeMapParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}

	opts := s.opts
	if params.EnableLayer2 != nil {
		opts.EnableLayer2 = *params.EnableLayer2
	}
	if params.TopN > 0 {
		opts.TopN = params.TopN
	}
	if params.MaxFiles > 0 {
		opts.MaxFiles = params.MaxFiles
	}

	pipeline, err := codemap.New(params.Directory, s.registry, opts)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := pipeline.Run(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	return textResult(ui.RenderCodeMap(result, 0)), nil
}

type scanFileParams struct {
	FilePath string `json:"file_path"`
}

func (s *Server) handleScanFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params scanFileParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}

	result, err := scan.NewScanner(s.registry).ScanFile(params.FilePath)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(result.FormatTree()), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult reports a tool failure in-band so the client sees the message
// instead of a bare protocol error.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
