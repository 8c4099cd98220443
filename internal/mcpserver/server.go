// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the character catalog to LLM clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/hogwarts/internal/api"
	"github.com/starford/hogwarts/internal/apperr"
	"github.com/starford/hogwarts/internal/catalog"
	"github.com/starford/hogwarts/internal/houses"
)

const housesURI = "hogwarts://houses"

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp     *server.MCPServer
	catalog api.Catalog
	houses  []houses.House
}

// New creates a new MCP server with all tools registered.
func New(cat api.Catalog, hs []houses.House, version string) *Server {
	s := &Server{catalog: cat, houses: hs}

	s.mcp = server.NewMCPServer(
		"Hogwarts",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_characters",
		mcp.WithDescription("List characters, 20 per page. Optionally filter by house "+
			"(resolved by the upstream API) and by a case-insensitive name substring."),
		mcp.WithNumber("page", mcp.Description("1-based page number (default 1)")),
		mcp.WithString("search", mcp.Description("Name substring to match, case-insensitive")),
		mcp.WithString("house", mcp.Description("House name, e.g. gryffindor")),
	), s.listCharacters)

	s.mcp.AddTool(mcp.NewTool("list_houses",
		mcp.WithDescription("List the four houses with their colours, symbol and description."),
	), s.listHouses)

	s.mcp.AddResource(
		mcp.NewResource(housesURI, "Houses",
			mcp.WithResourceDescription("Display metadata for the four houses."),
			mcp.WithMIMEType("application/json"),
		),
		s.readHousesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listCharacters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := catalog.Query{
		Page:   req.GetInt("page", 1),
		Search: req.GetString("search", ""),
		House:  req.GetString("house", ""),
	}
	page, err := s.catalog.GetPage(ctx, q)
	if err != nil {
		return toolError(err), nil
	}
	out, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listHouses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(s.houses, "", "  ")
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readHousesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.Marshal(s.houses)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      housesURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

// toolError reports domain errors by message and hides anything else.
func toolError(err error) *mcp.CallToolResult {
	if msg, ok := apperr.Message(err); ok {
		return mcp.NewToolResultError(msg)
	}
	slog.Error("mcp tool failed", slog.String("error", err.Error()))
	return mcp.NewToolResultError("Something went wrong.")
}
