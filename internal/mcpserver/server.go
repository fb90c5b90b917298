// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the reading list and data files over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/homepage/internal/library"
	"github.com/starford/homepage/internal/render"
	"github.com/starford/homepage/internal/sorting"
	"github.com/starford/homepage/internal/storage"
)

const contractURI = "homepage://csv-format"

// Server wraps the MCP server with homepage tools.
type Server struct {
	mcp   *server.MCPServer
	lib   *library.Service
	store storage.Provider
}

// New creates a new MCP server with all tools registered.
func New(lib *library.Service, store storage.Provider) *Server {
	s := &Server{lib: lib, store: store}

	s.mcp = server.NewMCPServer(
		"Homepage",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_books",
		mcp.WithDescription("List the reading list in one of the sort orders."),
		mcp.WithString("sort",
			mcp.Description("Sort mode (default rating-desc)"),
			mcp.Enum(modeNames()...)),
	), s.listBooks)

	s.mcp.AddTool(mcp.NewTool("list_inspiration",
		mcp.WithDescription("List inspiration links in file order."),
	), s.listInspiration)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Search books (title, author, status) and inspiration links (URL, notes)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 20)")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("list_data_files",
		mcp.WithDescription("List the CSV files in the data directory."),
	), s.listDataFiles)

	s.mcp.AddTool(mcp.NewTool("read_data_file",
		mcp.WithDescription("Read the raw content of a CSV data file."),
		mcp.WithString("name", mcp.Required(), mcp.Description("File name, e.g. books.csv")),
	), s.readDataFile)

	s.mcp.AddTool(mcp.NewTool("get_csv_contract",
		mcp.WithDescription("Returns the CSV format contract. "+
			"Call this before editing data files to keep them readable."),
	), s.getCSVContract)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "CSV Format Contract",
			mcp.WithResourceDescription("Columns and value formats of the homepage data files."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
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

type bookLine struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Status string  `json:"status,omitempty"`
	Rating float64 `json:"rating"`
	Month  string  `json:"month"`
	Glyphs string  `json:"glyphs"`
}

func (s *Server) listBooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := sorting.ParseMode(req.GetString("sort", string(sorting.Default)))
	books, err := s.lib.Books(ctx, mode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]bookLine, len(books))
	for i, b := range books {
		item := render.Book(b)
		out[i] = bookLine{
			Title:  item.Title,
			Author: item.Author,
			Status: item.Status,
			Rating: b.Rating,
			Month:  item.Month,
			Glyphs: item.Filled + item.Empty,
		}
	}
	return jsonResult(out)
}

func (s *Server) listInspiration(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	links, err := s.lib.Inspiration(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(links)
}

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.lib.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) listDataFiles(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.store.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	names := make([]string, 0, len(metas))
	for _, m := range metas {
		names = append(names, fmt.Sprintf("%s\t%s", m.Name, s.lib.Kind(m.Name)))
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) readDataFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.lib.ReadFile(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getCSVContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CSVFormatContract), nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     CSVFormatContract,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func modeNames() []string {
	modes := sorting.Modes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
}
