// Package mcp exposes the resonance field generator as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ternarybob/resonance/internal/catalog"
	"github.com/ternarybob/resonance/internal/config"
	"github.com/ternarybob/resonance/internal/render"
	"github.com/ternarybob/resonance/pkg/field"
)

// Server wraps the field generator to provide MCP tool access.
type Server struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	renderer *render.Renderer
	server   *server.MCPServer
}

// NewServer creates a new MCP server.
func NewServer(cfg *config.Config, cat *catalog.Catalog, renderer *render.Renderer) *Server {
	s := &Server{
		cfg:      cfg,
		catalog:  cat,
		renderer: renderer,
	}

	mcpServer := server.NewMCPServer(
		"resonance",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.server = mcpServer
	return s
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("primes",
			mcp.WithDescription("Generate a prime sequence: the first N primes (count) or all primes up to a bound (limit)."),
			mcp.WithNumber("count",
				mcp.Description("Number of primes to generate (mutually exclusive with limit)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Upper bound; all primes <= limit (default 2350)"),
			),
		),
		s.handlePrimes,
	)

	mcpServer.AddTool(
		mcp.NewTool("stats",
			mcp.WithDescription("Summarize the resonance field for the given parameters: prime count, twin bridges, tone range."),
			mcp.WithNumber("count",
				mcp.Description("Number of primes (mutually exclusive with limit)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Upper bound (default 2350)"),
			),
		),
		s.handleStats,
	)

	mcpServer.AddTool(
		mcp.NewTool("tuple",
			mcp.WithDescription("Get the full attribute tuple (coordinates, tone, intensity) of one prime by sequence index."),
			mcp.WithNumber("index",
				mcp.Required(),
				mcp.Description("0-based index into the prime sequence"),
			),
			mcp.WithNumber("count",
				mcp.Description("Number of primes (mutually exclusive with limit)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Upper bound (default 2350)"),
			),
		),
		s.handleTuple,
	)

	mcpServer.AddTool(
		mcp.NewTool("twins",
			mcp.WithDescription("List the twin prime pairs (consecutive primes two apart) in the field."),
			mcp.WithNumber("count",
				mcp.Description("Number of primes (mutually exclusive with limit)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Upper bound (default 2350)"),
			),
		),
		s.handleTwins,
	)

	mcpServer.AddTool(
		mcp.NewTool("render",
			mcp.WithDescription("Render the resonance field to a self-contained HTML visualization and record it in the artifact catalog."),
			mcp.WithNumber("count",
				mcp.Description("Number of primes (mutually exclusive with limit)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Upper bound (default 2350)"),
			),
			mcp.WithString("out",
				mcp.Description("Output file name or absolute path (default resonance-field.html)"),
			),
		),
		s.handleRender,
	)
}

func optionsFromRequest(request mcp.CallToolRequest) (field.Options, error) {
	opts := field.Options{
		Count: request.GetInt("count", 0),
		Limit: request.GetInt("limit", 0),
	}
	return opts, opts.Validate()
}

// handlePrimes handles the primes tool.
func (s *Server) handlePrimes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := optionsFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := field.Generate(opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}

	primes := make([]string, len(f.Tuples))
	for i, t := range f.Tuples {
		primes[i] = fmt.Sprintf("%d", t.Prime)
	}

	return mcp.NewToolResultText(fmt.Sprintf("%d primes (%s):\n%s",
		len(primes), opts.Mode(), strings.Join(primes, ", "))), nil
}

// handleStats handles the stats tool.
func (s *Server) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := optionsFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := field.Generate(opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(map[string]interface{}{
		"mode":  opts.Mode(),
		"stats": f.Stats(),
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal stats failed: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleTuple handles the tuple tool.
func (s *Server) handleTuple(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := optionsFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	index := request.GetInt("index", -1)
	if index < 0 {
		return mcp.NewToolResultError("index parameter is required and must be >= 0"), nil
	}

	f, err := field.Generate(opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}

	if index >= len(f.Tuples) {
		return mcp.NewToolResultError(fmt.Sprintf("index %d out of range: field has %d tuples", index, len(f.Tuples))), nil
	}

	jsonBytes, err := json.MarshalIndent(f.Tuples[index], "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal tuple failed: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleTwins handles the twins tool.
func (s *Server) handleTwins(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := optionsFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := field.Generate(opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d twin prime bridges (%s):\n", len(f.Twins), opts.Mode())
	for _, tw := range f.Twins {
		fmt.Fprintf(&b, "  %d - %d (indexes %d, %d)\n", tw.P, tw.Q, tw.I, tw.J)
	}

	return mcp.NewToolResultText(b.String()), nil
}

// handleRender handles the render tool.
func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := optionsFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := field.Generate(opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}

	out := request.GetString("out", s.cfg.Field.Out)
	if !filepath.IsAbs(out) {
		out = filepath.Join(s.cfg.ArtifactDir(), out)
	}

	if err := s.renderer.WriteHTML(f, out); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}

	stats := f.Stats()
	if _, err := s.catalog.Record(out, "html", opts.Mode(), stats.Primes, stats.Twins); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog update failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Rendered %d primes with %d twin bridges to %s",
		stats.Primes, stats.Twins, out)), nil
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.server)
}
