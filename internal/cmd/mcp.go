package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/notion-tools/internal/mcpserver"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long: `Run a Model Context Protocol server exposing notion_search and
notion_write tools to agents.

By default the server speaks MCP over stdio, which is what most agent
runtimes expect. With --http it serves streamable HTTP instead.

Examples:
  notion-tools mcp
  notion-tools mcp --http :8080`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "Serve MCP over HTTP on this address instead of stdio")
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv := mcpserver.NewServer(GetClient(), version)

	if mcpHTTPAddr != "" {
		if !quietFlag {
			fmt.Fprintf(stderrFromContext(cmd.Context()), "Serving MCP on %s\n", mcpHTTPAddr)
		}
		return mcpserver.ServeHTTP(srv, mcpHTTPAddr)
	}
	return mcpserver.ServeStdio(srv)
}
