package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/linkshelf/internal/apperr"
	"github.com/starford/linkshelf/internal/composer"
	"github.com/starford/linkshelf/internal/prompt"
	"github.com/starford/linkshelf/internal/vocabulary"
)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTags(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := vocabulary.Load(s.deps.VocabularyPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v.Tags())
}

func (s *Server) validateTags(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	withCycles := req.GetBool("cycles", s.deps.CheckCycles)
	report, err := vocabulary.Check(s.deps.VocabularyPath, withCycles)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if report != "" {
		return mcp.NewToolResultError(report), nil
	}
	return mcp.NewToolResultText("vocabulary is consistent"), nil
}

func (s *Server) listEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.deps.Entries.List(ctx, req.GetString("tag", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items)
}

func (s *Server) readEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.deps.Entries.Get(ctx, path)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(d.Content), nil
}

// createEntry runs the composer with the tool arguments as answers.
// Omitted arguments take the scraped defaults.
func (s *Server) createEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := vocabulary.Load(s.deps.VocabularyPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answers := &prompt.Scripted{
		Inputs:     map[string]string{composer.MsgURL: rawURL},
		Selections: map[string][]string{composer.MsgTags: req.GetStringSlice("tags", nil)},
	}
	if title := req.GetString("title", ""); title != "" {
		answers.Inputs[composer.MsgTitle] = title
	}
	switch img := req.GetString("image_url", ""); img {
	case "":
	case prompt.ClearAnswer:
		answers.Inputs[composer.MsgImageURL] = ""
	default:
		answers.Inputs[composer.MsgImageURL] = img
	}
	folder := req.GetString("path", "")
	if folder != "" {
		answers.Inputs[composer.MsgPath] = folder
	}

	c := composer.New(v, answers, s.deps.Scraper, s.deps.Entries,
		composer.WithLogger(s.deps.Logger),
		composer.WithSubfolders(s.deps.Subfolders || folder != ""),
		composer.WithDefaultURL(s.deps.DefaultURL),
	)
	res, err := c.Compose(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) cacheImages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if path := req.GetString("path", ""); path != "" {
		target, err := s.deps.Images.Single(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("cached: %s", target)), nil
	}
	report, err := s.deps.Images.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report)
}

func (s *Server) getEntryContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(EntryFormatContract), nil
}

func (s *Server) readEntryFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ContractURI,
			MIMEType: "text/markdown",
			Text:     EntryFormatContract,
		},
	}, nil
}
