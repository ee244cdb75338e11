package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/notion-tools/internal/tools"
)

var (
	searchPageID     string
	searchDatabaseID string
	searchFilterJSON string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search pages and databases",
	Long: `Search a Notion workspace, retrieve a single page, or query a database.

Provide exactly one target: a full-text query argument, --page-id, or
--database-id. Results are normalized to title, object type, id, URL,
parent id, and a short text preview.

Examples:
  # Full-text search
  notion-tools search "meeting notes"

  # Retrieve a single page
  notion-tools search --page-id PAGE_ID

  # Query a database with a filter
  notion-tools search --database-id DB_ID --filter '{"property":"Status","select":{"equals":"Done"}}'

  # Output as JSON
  notion-tools search "todo" --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchPageID, "page-id", "", "Retrieve a single page by ID")
	searchCmd.Flags().StringVar(&searchDatabaseID, "database-id", "", "Query a database by ID")
	searchCmd.Flags().StringVar(&searchFilterJSON, "filter", "", "Filter as JSON (search or database query)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := tools.SearchRequest{
		PageID:     strings.TrimSpace(searchPageID),
		DatabaseID: strings.TrimSpace(searchDatabaseID),
	}
	if len(args) == 1 {
		req.Query = args[0]
	}

	if strings.TrimSpace(searchFilterJSON) != "" {
		filter, err := parseJSONObject(searchFilterJSON, "--filter")
		if err != nil {
			return err
		}
		req.Filter = filter
	}

	searcher := tools.NewSearcher(GetClient())
	results, err := searcher.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printStructured(results)
	}

	out := stdoutFromContext(cmd.Context())
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d result(s)\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(out, "%d. %s (%s)\n", i+1, r.Title, r.ObjectType)
		fmt.Fprintf(out, "   ID: %s\n", r.ID)
		if r.URL != "" {
			fmt.Fprintf(out, "   URL: %s\n", r.URL)
		}
		if r.Preview != "" {
			preview := strings.ReplaceAll(r.Preview, "\n", " ")
			if len(preview) > 100 {
				preview = preview[:100] + "..."
			}
			fmt.Fprintf(out, "   %s\n", preview)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// parseJSONObject decodes a JSON object argument, naming the flag in errors.
func parseJSONObject(raw, flagName string) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("invalid %s JSON: %w", flagName, err)
	}
	return m, nil
}
