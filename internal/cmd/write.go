package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
	"github.com/salmonumbrella/notion-tools/internal/tools"
)

var (
	writeTitle          string
	writeParentPage     string
	writeParentDatabase string
	writeUpdatePage     string
	writeUpdateMode     string
	writePropertiesJSON string
	writeBlocksJSON     string
	writeBlocksFile     string
	writeText           string
	writeDryRun         bool
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Create or update a Notion page",
	Long: `Create a new page or update an existing one.

Content comes from exactly one source: --text (plain text converted to
blocks), --blocks-json (a JSON array of block objects), or --blocks-file
(same JSON read from a file, or - for stdin). Blocks are validated and
sanitized before anything is sent.

When neither --parent-page nor --parent-database is given for a create,
the default parent page from --parent, NOTION_DEFAULT_PARENT_PAGE_ID, or
the config file is used.

Examples:
  # Create a page from text
  notion-tools write --title "Meeting Notes" --parent-page PAGE_ID --text "# Agenda"

  # Create a database row
  notion-tools write --parent-database DB_ID --properties '{"Name":{"title":[{"text":{"content":"Task"}}]}}'

  # Append blocks to an existing page
  notion-tools write --update-page PAGE_ID --blocks-file blocks.json

  # Replace page content, preview only
  notion-tools write --update-page PAGE_ID --update-mode replace --text "New body" --dry-run`,
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)

	writeCmd.Flags().StringVar(&writeTitle, "title", "", "Page title (page parents only)")
	writeCmd.Flags().StringVar(&writeParentPage, "parent-page", "", "Parent page ID for a new page")
	writeCmd.Flags().StringVar(&writeParentDatabase, "parent-database", "", "Parent database ID for a new row")
	writeCmd.Flags().StringVar(&writeUpdatePage, "update-page", "", "Page ID to update instead of creating")
	writeCmd.Flags().StringVar(&writeUpdateMode, "update-mode", "append", "Update mode (append|replace)")
	writeCmd.Flags().StringVar(&writePropertiesJSON, "properties", "", "Page properties as a JSON object")
	writeCmd.Flags().StringVar(&writeBlocksJSON, "blocks-json", "", "Blocks as a JSON array")
	writeCmd.Flags().StringVar(&writeBlocksFile, "blocks-file", "", "Read blocks JSON from file (use - for stdin)")
	writeCmd.Flags().StringVar(&writeText, "text", "", "Plain text content converted to blocks")
	writeCmd.Flags().BoolVar(&writeDryRun, "dry-run", false, "Validate and summarize without calling the API")
}

func runWrite(cmd *cobra.Command, args []string) error {
	req, err := buildWriteRequest(cmd)
	if err != nil {
		return err
	}

	writer := tools.NewWriter(GetClient())
	result, err := writer.Write(cmd.Context(), *req)
	if err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printStructured(result)
	}

	out := stdoutFromContext(cmd.Context())
	fmt.Fprintln(out, result.Summary)
	if result.URL != "" {
		fmt.Fprintf(out, "URL: %s\n", result.URL)
	}
	return nil
}

func buildWriteRequest(cmd *cobra.Command) (*tools.WriteRequest, error) {
	content, err := resolveWriteBlocks(cmd)
	if err != nil {
		return nil, err
	}

	req := &tools.WriteRequest{
		Title:  strings.TrimSpace(writeTitle),
		Blocks: content,
		DryRun: writeDryRun,
	}

	if strings.TrimSpace(writePropertiesJSON) != "" {
		props, err := parseJSONObject(writePropertiesJSON, "--properties")
		if err != nil {
			return nil, err
		}
		req.Properties = props
	}

	if id := strings.TrimSpace(writeUpdatePage); id != "" {
		req.Update = &tools.Update{
			PageID: id,
			Mode:   tools.UpdateMode(strings.ToLower(strings.TrimSpace(writeUpdateMode))),
		}
		return req, nil
	}

	parent := tools.Parent{
		PageID:     strings.TrimSpace(writeParentPage),
		DatabaseID: strings.TrimSpace(writeParentDatabase),
	}
	if parent.PageID == "" && parent.DatabaseID == "" {
		parent.PageID = strings.TrimSpace(defaultParent)
	}
	if parent.PageID != "" || parent.DatabaseID != "" {
		req.Parent = &parent
	}
	return req, nil
}

// resolveWriteBlocks reads the page content from the single configured
// source. A nil return means no blocks were provided.
func resolveWriteBlocks(cmd *cobra.Command) ([]blocks.Block, error) {
	sources := 0
	if flagChanged(cmd, "text") {
		sources++
	}
	if flagChanged(cmd, "blocks-json") {
		sources++
	}
	if flagChanged(cmd, "blocks-file") {
		sources++
	}
	if sources > 1 {
		return nil, fmt.Errorf("use only one of --text, --blocks-json, or --blocks-file")
	}

	switch {
	case flagChanged(cmd, "text"):
		return blocks.FromText(writeText), nil
	case flagChanged(cmd, "blocks-json"):
		return parseBlocksJSON(writeBlocksJSON)
	case flagChanged(cmd, "blocks-file"):
		raw, err := readInputSource(writeBlocksFile, cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return parseBlocksJSON(raw)
	}
	return nil, nil
}

func parseBlocksJSON(raw string) ([]blocks.Block, error) {
	var list []blocks.Block
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("invalid blocks JSON: %w", err)
	}
	return list, nil
}
