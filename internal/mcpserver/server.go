// Package mcpserver exposes the search and write tools over the Model
// Context Protocol so agent runtimes can call them directly.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
	"github.com/salmonumbrella/notion-tools/internal/notion"
	"github.com/salmonumbrella/notion-tools/internal/tools"
)

// SearchToolRequest are the arguments of the notion_search tool.
type SearchToolRequest struct {
	Query      string                 `json:"query,omitempty"`
	PageID     string                 `json:"page_id,omitempty"`
	DatabaseID string                 `json:"database_id,omitempty"`
	Filter     map[string]interface{} `json:"filter,omitempty"`
}

// WriteToolRequest are the arguments of the notion_write tool.
type WriteToolRequest struct {
	Title            string                 `json:"title,omitempty"`
	ParentPageID     string                 `json:"parent_page_id,omitempty"`
	ParentDatabaseID string                 `json:"parent_database_id,omitempty"`
	UpdatePageID     string                 `json:"update_page_id,omitempty"`
	UpdateMode       string                 `json:"update_mode,omitempty"`
	Properties       map[string]interface{} `json:"properties,omitempty"`
	Blocks           []blocks.Block         `json:"blocks,omitempty"`
	Text             string                 `json:"text,omitempty"`
	DryRun           bool                   `json:"dry_run,omitempty"`
}

// NewServer creates an MCP server with the notion_search and notion_write
// tools wired to the given API client.
func NewServer(api notion.API, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"notion-tools",
		version,
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("notion_search",
		mcp.WithDescription("Search a Notion workspace, retrieve a single page, or query a database. Provide exactly one of query, page_id, or database_id."),
		mcp.WithString("query",
			mcp.Description("Full-text search query"),
		),
		mcp.WithString("page_id",
			mcp.Description("Retrieve a single page by ID"),
		),
		mcp.WithString("database_id",
			mcp.Description("Query a database by ID"),
		),
		mcp.WithObject("filter",
			mcp.Description("Optional filter object (search or database query)"),
		),
	)
	s.AddTool(searchTool, mcp.NewTypedToolHandler(searchHandler(api)))

	writeTool := mcp.NewTool("notion_write",
		mcp.WithDescription("Create or update a Notion page. Provide a parent (parent_page_id or parent_database_id) to create, or update_page_id to update. Content comes from text (converted to blocks) or a blocks array, not both."),
		mcp.WithString("title",
			mcp.Description("Page title (page parents only)"),
		),
		mcp.WithString("parent_page_id",
			mcp.Description("Parent page ID for a new page"),
		),
		mcp.WithString("parent_database_id",
			mcp.Description("Parent database ID for a new row"),
		),
		mcp.WithString("update_page_id",
			mcp.Description("Page ID to update instead of creating"),
		),
		mcp.WithString("update_mode",
			mcp.Description("Update mode: append (default) or replace"),
		),
		mcp.WithObject("properties",
			mcp.Description("Page properties in Notion API shape"),
		),
		mcp.WithArray("blocks",
			mcp.Description("Blocks in Notion API shape"),
		),
		mcp.WithString("text",
			mcp.Description("Plain text content converted to blocks"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Validate and summarize without calling the API"),
		),
	)
	s.AddTool(writeTool, mcp.NewTypedToolHandler(writeHandler(api)))

	return s
}

// ServeStdio serves MCP over stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// ServeHTTP serves MCP over streamable HTTP on the given address.
func ServeHTTP(s *server.MCPServer, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s)
	return httpServer.Start(addr)
}

func searchHandler(api notion.API) func(ctx context.Context, request mcp.CallToolRequest, args SearchToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchToolRequest) (*mcp.CallToolResult, error) {
		req := tools.SearchRequest{
			Query:      args.Query,
			PageID:     args.PageID,
			DatabaseID: args.DatabaseID,
			Filter:     args.Filter,
		}

		results, err := tools.NewSearcher(api).Search(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return toolResultJSON(results)
	}
}

func writeHandler(api notion.API) func(ctx context.Context, request mcp.CallToolRequest, args WriteToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args WriteToolRequest) (*mcp.CallToolResult, error) {
		if args.Text != "" && len(args.Blocks) > 0 {
			return mcp.NewToolResultError("provide either text or blocks, not both"), nil
		}

		content := args.Blocks
		if args.Text != "" {
			content = blocks.FromText(args.Text)
		}

		req := tools.WriteRequest{
			Title:      args.Title,
			Blocks:     content,
			Properties: args.Properties,
			DryRun:     args.DryRun,
		}
		if args.UpdatePageID != "" {
			mode := tools.UpdateMode(args.UpdateMode)
			if args.UpdateMode == "" {
				mode = tools.ModeAppend
			}
			req.Update = &tools.Update{PageID: args.UpdatePageID, Mode: mode}
		}
		if args.ParentPageID != "" || args.ParentDatabaseID != "" {
			req.Parent = &tools.Parent{
				PageID:     args.ParentPageID,
				DatabaseID: args.ParentDatabaseID,
			}
		}

		result, err := tools.NewWriter(api).Write(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return toolResultJSON(result)
	}
}

func toolResultJSON(v interface{}) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
