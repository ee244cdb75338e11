package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
	"github.com/salmonumbrella/notion-tools/internal/notion"
)

// UpdateMode selects how new blocks relate to a page's existing content.
type UpdateMode string

const (
	// ModeAppend adds blocks after the existing content.
	ModeAppend UpdateMode = "append"
	// ModeReplace replaces the existing content with the new blocks.
	ModeReplace UpdateMode = "replace"
)

// Actions reported in WriteResult.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDryRun  = "dry_run"
)

// Parent identifies where a new page is created. Exactly one of PageID
// and DatabaseID must be set.
type Parent struct {
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

func (p Parent) validate() error {
	provided := 0
	if p.PageID != "" {
		provided++
	}
	if p.DatabaseID != "" {
		provided++
	}
	if provided != 1 {
		return configErrorf("provide exactly one of page_id or database_id for parent")
	}
	return nil
}

// apiPayload renders the parent reference in the shape the API expects.
func (p Parent) apiPayload() map[string]interface{} {
	if p.PageID != "" {
		return map[string]interface{}{"type": "page_id", "page_id": p.PageID}
	}
	return map[string]interface{}{"type": "database_id", "database_id": p.DatabaseID}
}

// describe renders the parent for summary text.
func (p Parent) describe() string {
	if p.PageID != "" {
		return "page " + p.PageID
	}
	if p.DatabaseID != "" {
		return "database " + p.DatabaseID
	}
	return "unknown parent"
}

// Update targets an existing page for mutation.
type Update struct {
	PageID string     `json:"page_id"`
	Mode   UpdateMode `json:"mode"`
}

func (u Update) validate() error {
	if u.PageID == "" {
		return configErrorf("update requires a page_id")
	}
	if u.Mode != ModeAppend && u.Mode != ModeReplace {
		return configErrorf("mode must be either %q or %q", ModeAppend, ModeReplace)
	}
	return nil
}

// WriteRequest is the input of a write operation. Exactly one of Parent
// and Update must be set; the remaining rules depend on which one it is.
// Nil and empty are distinct for Blocks and Properties: a nil field was
// not supplied at all, an empty one was supplied deliberately.
type WriteRequest struct {
	Title      string                 `json:"title,omitempty"`
	Parent     *Parent                `json:"parent,omitempty"`
	Blocks     []blocks.Block         `json:"blocks,omitempty"`
	Update     *Update                `json:"update,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	DryRun     bool                   `json:"is_dry_run,omitempty"`
}

// Validate checks the request shape. It never performs network calls.
func (r WriteRequest) Validate() error {
	if r.Update == nil && r.Parent == nil {
		return configErrorf("a parent is required when update instructions are not provided")
	}
	if r.Update != nil && r.Parent != nil {
		return configErrorf("provide either parent for create or update instructions, not both")
	}

	if r.Update != nil {
		if err := r.Update.validate(); err != nil {
			return err
		}
		if r.Blocks == nil && r.Properties == nil {
			return configErrorf("provide blocks and/or properties when using update instructions")
		}
		return nil
	}

	if err := r.Parent.validate(); err != nil {
		return err
	}
	if r.Parent.DatabaseID != "" && r.Properties == nil {
		return configErrorf("properties must be provided when parent is a database")
	}
	if r.Parent.PageID != "" && r.Title == "" && r.Properties == nil {
		return configErrorf("title or properties must be provided when creating under a page parent")
	}
	return nil
}

// WriteResult is the structured output of a write operation.
type WriteResult struct {
	Action  string `json:"action"`
	PageID  string `json:"page_id,omitempty"`
	URL     string `json:"url,omitempty"`
	Summary string `json:"summary"`
}

// WriteAPI is the subset of the client a Writer needs.
type WriteAPI interface {
	CreatePage(ctx context.Context, parent, properties map[string]interface{}, children []blocks.Block) (*notion.Page, error)
	UpdatePageProperties(ctx context.Context, pageID string, properties map[string]interface{}) (*notion.Page, error)
	RetrievePage(ctx context.Context, pageID string) (*notion.Page, error)
	AppendBlockChildren(ctx context.Context, blockID string, children []blocks.Block, replace bool) (*notion.BlockList, error)
}

var _ WriteAPI = (notion.API)(nil)

// Writer creates and updates pages through a client.
type Writer struct {
	api WriteAPI
}

// NewWriter returns a Writer backed by the given client.
func NewWriter(api WriteAPI) *Writer {
	return &Writer{api: api}
}

// Write validates the request, dispatches the create or update branch
// and returns a result with a deterministic summary. Dry runs produce
// the same summary without any network call.
func (w *Writer) Write(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Update != nil {
		return w.update(ctx, req)
	}
	return w.create(ctx, req)
}

func (w *Writer) create(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	sanitized, err := blocks.Sanitize(req.Blocks)
	if err != nil {
		return nil, err
	}

	properties := make(map[string]interface{}, len(req.Properties)+1)
	for k, v := range req.Properties {
		properties[k] = v
	}
	// The convenience title only applies to page parents and never
	// overrides a caller-supplied title property.
	if req.Title != "" && req.Parent.PageID != "" {
		if _, ok := properties["title"]; !ok {
			properties["title"] = titleProperty(req.Title)
		}
	}

	keys := sortedKeys(properties)
	summary := summarizeCreate(*req.Parent, req.Title, len(sanitized), keys, req.DryRun)

	if req.DryRun {
		return &WriteResult{Action: ActionDryRun, Summary: summary}, nil
	}

	page, err := w.api.CreatePage(ctx, req.Parent.apiPayload(), properties, sanitized)
	if err != nil {
		return nil, operationError("Create page", err)
	}

	return &WriteResult{Action: ActionCreated, PageID: page.ID, URL: page.URL, Summary: summary}, nil
}

func (w *Writer) update(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	sanitized, err := blocks.Sanitize(req.Blocks)
	if err != nil {
		return nil, err
	}

	keys := sortedKeys(req.Properties)
	summary := summarizeUpdate(*req.Update, len(sanitized), keys, req.DryRun)

	if req.DryRun {
		return &WriteResult{Action: ActionDryRun, PageID: req.Update.PageID, Summary: summary}, nil
	}

	if len(req.Properties) > 0 {
		if _, err := w.api.UpdatePageProperties(ctx, req.Update.PageID, req.Properties); err != nil {
			return nil, operationError("Update page properties", err)
		}
	}
	if len(sanitized) > 0 {
		replace := req.Update.Mode == ModeReplace
		if _, err := w.api.AppendBlockChildren(ctx, req.Update.PageID, sanitized, replace); err != nil {
			return nil, operationError("Update page blocks", err)
		}
	}

	// The retrieve always runs, even for a no-op update, so the result
	// carries the page's current URL.
	page, err := w.api.RetrievePage(ctx, req.Update.PageID)
	if err != nil {
		return nil, operationError("Retrieve page", err)
	}

	return &WriteResult{Action: ActionUpdated, PageID: req.Update.PageID, URL: page.URL, Summary: summary}, nil
}

// titleProperty renders a plain string as a title property payload.
func titleProperty(title string) map[string]interface{} {
	return map[string]interface{}{
		"title": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": map[string]interface{}{"content": title},
			},
		},
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatPropertyKeys previews up to three property keys for summaries.
func formatPropertyKeys(keys []string) string {
	if len(keys) == 0 {
		return "no properties"
	}
	preview := strings.Join(keys[:min(len(keys), 3)], ", ")
	if len(keys) > 3 {
		preview += ", ..."
	}
	return "properties: " + preview
}

func summarizeCreate(parent Parent, title string, blockCount int, keys []string, dryRun bool) string {
	if title == "" {
		title = "untitled"
	}
	blocksFragment := "no blocks"
	if blockCount > 0 {
		blocksFragment = fmt.Sprintf("%d block(s)", blockCount)
	}

	verb := "Created"
	prefix := ""
	if dryRun {
		verb = "would create"
		prefix = "Dry run: "
	}

	return fmt.Sprintf("%s%s page under %s with title '%s' (%s; %s).",
		prefix, verb, parent.describe(), title, blocksFragment, formatPropertyKeys(keys))
}

func summarizeUpdate(update Update, blockCount int, keys []string, dryRun bool) string {
	propertiesFragment := "properties"
	if len(keys) > 0 {
		propertiesFragment = fmt.Sprintf("properties (%s)", strings.Join(keys, ", "))
	}

	var past, future string
	switch {
	case blockCount > 0:
		if update.Mode == ModeReplace {
			past = fmt.Sprintf("Replaced %d block(s)", blockCount)
			future = fmt.Sprintf("replace %d block(s)", blockCount)
		} else {
			past = fmt.Sprintf("Appended %d block(s)", blockCount)
			future = fmt.Sprintf("append %d block(s)", blockCount)
		}
		if len(keys) > 0 {
			past += " and updated " + propertiesFragment
			future += " and update " + propertiesFragment
		}
	case len(keys) > 0:
		past = "Updated " + propertiesFragment
		future = "update " + propertiesFragment
	default:
		past = "No changes"
		future = "make no changes"
	}

	if dryRun {
		return fmt.Sprintf("Dry run: would %s on page %s.", future, update.PageID)
	}
	return fmt.Sprintf("%s on page %s.", past, update.PageID)
}
