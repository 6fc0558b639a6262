// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes linkshelf tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/linkshelf/internal/entries"
	"github.com/starford/linkshelf/internal/imagecache"
	"github.com/starford/linkshelf/internal/opengraph"
)

// ContractURI identifies the entry format resource.
const ContractURI = "linkshelf://entry-format"

// Deps are the components the tools operate on.
type Deps struct {
	VocabularyPath string
	CheckCycles    bool
	Subfolders     bool
	DefaultURL     string
	Entries        *entries.Service
	Scraper        opengraph.Scraper
	Images         *imagecache.Cache
	Logger         *slog.Logger
}

// Server wraps the MCP server with linkshelf tools.
type Server struct {
	mcp  *server.MCPServer
	deps Deps
}

// New creates a new MCP server with all linkshelf tools registered.
func New(version string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	s := &Server{deps: deps}

	s.mcp = server.NewMCPServer(
		"linkshelf",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List the tag vocabulary: every tag with its description and parents."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("validate_tags",
		mcp.WithDescription("Check that every parent named in the tag vocabulary exists."),
		mcp.WithBoolean("cycles", mcp.Description("Also report tags that are part of a parent cycle")),
	), s.validateTags)

	s.mcp.AddTool(mcp.NewTool("list_entries",
		mcp.WithDescription("List bookmarked link entries with their title, URL and tags."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by")),
	), s.listEntries)

	s.mcp.AddTool(mcp.NewTool("read_entry",
		mcp.WithDescription("Read the full Markdown content of an entry."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the entry (e.g. tools/my-link.md)")),
	), s.readEntry)

	s.mcp.AddTool(mcp.NewTool("create_entry",
		mcp.WithDescription("Bookmark a URL. Title, image and description are read from the page's "+
			"Open Graph metadata unless given. Tags MUST come from list_tags. Read the contract first via "+
			"the get_entry_contract tool or the "+ContractURI+" resource."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Page to bookmark")),
		mcp.WithString("title", mcp.Description("Overrides the scraped title")),
		mcp.WithString("image_url", mcp.Description("Overrides the scraped image URL; \"-\" clears it")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tags from the vocabulary")),
		mcp.WithString("path", mcp.Description("Optional first-level folder to file the entry under")),
	), s.createEntry)

	s.mcp.AddTool(mcp.NewTool("cache_images",
		mcp.WithDescription("Download entry preview images next to their entry files."),
		mcp.WithString("path", mcp.Description("Optional single entry to cache (empty for all)")),
	), s.cacheImages)

	s.mcp.AddTool(mcp.NewTool("get_entry_contract",
		mcp.WithDescription("Returns the linkshelf entry format contract. "+
			"Call this before creating entries to ensure correct structure."),
	), s.getEntryContract)

	s.mcp.AddResource(
		mcp.NewResource(ContractURI, "Entry Format Contract",
			mcp.WithResourceDescription("Markdown entry format that all link entries follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readEntryFormatResource,
	)

	return s
}

// Serve runs the MCP server over the given streams until ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.deps.Logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}
