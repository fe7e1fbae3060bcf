// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Folio tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/collection"
)

// Server wraps the MCP server with Folio tools.
type Server struct {
	mcp *server.MCPServer
	svc *collection.Service
}

// New creates a new MCP server with all Folio tools registered.
func New(svc *collection.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Folio",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List the writing projects inside a repository directory."),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Absolute path of the repository directory")),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("read_draft",
		mcp.WithDescription("Read the current draft text of a project."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path of the project directory")),
	), s.readDraft)

	s.mcp.AddTool(mcp.NewTool("append_commit",
		mcp.WithDescription("Record an immutable snapshot of a project draft. "+
			"The snapshot content is stored verbatim and assigned the next commit number."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path of the project directory")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Draft text to snapshot")),
	), s.appendCommit)

	s.mcp.AddTool(mcp.NewTool("search_chunks",
		mcp.WithDescription("Lexical search over the indexed draft chunks of a repository. "+
			"Build the index first if the status is idle."),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Absolute path of the repository directory")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchChunks)

	s.mcp.AddTool(mcp.NewTool("find_redundancy",
		mcp.WithDescription("Find pairs of projects in a repository with overlapping draft content."),
		mcp.WithString("repository", mcp.Required(), mcp.Description("Absolute path of the repository directory")),
	), s.findRedundancy)

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

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, err := req.RequireString("repository")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summaries, err := s.svc.ScanProjects(ctx, repo)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, p := range summaries {
		lines = append(lines, fmt.Sprintf("%s\t%s", p.Name, p.Path))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no projects found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readDraft(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.svc.LoadContent(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not a project: %s", path)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) appendCommit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.svc.AppendCommit(ctx, path, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("committed #%d (%s)", c.CommitNumber, c.ID)), nil
}

func (s *Server) searchChunks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, err := req.RequireString("repository")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.QueryIndex(ctx, repo, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) findRedundancy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, err := req.RequireString("repository")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.svc.FindRedundancy(ctx, repo, 0, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
