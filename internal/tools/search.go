package tools

import (
	"context"
	"strings"

	"github.com/salmonumbrella/notion-tools/internal/notion"
)

// SearchRequest is the input of a search operation. Exactly one of
// Query, PageID and DatabaseID must be set. Filter is forwarded to the
// search or database query endpoint untouched.
type SearchRequest struct {
	Query      string                 `json:"query,omitempty"`
	PageID     string                 `json:"page_id,omitempty"`
	DatabaseID string                 `json:"database_id,omitempty"`
	Filter     map[string]interface{} `json:"filter,omitempty"`
}

// Validate checks the request shape. It never performs network calls.
func (r SearchRequest) Validate() error {
	provided := 0
	for _, target := range []string{r.Query, r.PageID, r.DatabaseID} {
		if target != "" {
			provided++
		}
	}
	if provided != 1 {
		return configErrorf("provide exactly one of query, page_id, or database_id")
	}
	if r.PageID != "" && r.Filter != nil {
		return configErrorf("filters cannot be used when retrieving a single page")
	}
	return nil
}

// SearchResult is a normalized search hit.
type SearchResult struct {
	Title      string `json:"title"`
	ObjectType string `json:"object_type"`
	ID         string `json:"id"`
	URL        string `json:"url,omitempty"`
	ParentID   string `json:"parent_id,omitempty"`
	Preview    string `json:"preview,omitempty"`
}

// SearchAPI is the subset of the client a Searcher needs.
type SearchAPI interface {
	RetrievePage(ctx context.Context, pageID string) (*notion.Page, error)
	Search(ctx context.Context, query string, filter map[string]interface{}) ([]map[string]interface{}, error)
	QueryDatabase(ctx context.Context, databaseID string, filter map[string]interface{}) ([]map[string]interface{}, error)
}

var _ SearchAPI = (notion.API)(nil)

// Searcher runs searches and lookups through a client.
type Searcher struct {
	api SearchAPI
}

// NewSearcher returns a Searcher backed by the given client.
func NewSearcher(api SearchAPI) *Searcher {
	return &Searcher{api: api}
}

// Search validates the request, dispatches the matching endpoint and
// normalizes the raw objects into SearchResults.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.PageID != "" {
		page, err := s.api.RetrievePage(ctx, req.PageID)
		if err != nil {
			return nil, operationError("Retrieve page", err)
		}
		return []SearchResult{normalizePage(page)}, nil
	}

	if req.DatabaseID != "" {
		items, err := s.api.QueryDatabase(ctx, req.DatabaseID, req.Filter)
		if err != nil {
			return nil, operationError("Query database", err)
		}
		return normalizeItems(items), nil
	}

	items, err := s.api.Search(ctx, req.Query, req.Filter)
	if err != nil {
		return nil, operationError("Search", err)
	}
	return normalizeItems(items), nil
}

func normalizeItems(items []map[string]interface{}) []SearchResult {
	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, normalizeItem(item))
	}
	return results
}

func normalizeItem(item map[string]interface{}) SearchResult {
	objectType := stringField(item, "object")
	if objectType == "" {
		objectType = "unknown"
	}

	id := stringField(item, "id")
	title := extractTitle(item)
	if title == "" {
		title = id
	}

	return SearchResult{
		Title:      title,
		ObjectType: objectType,
		ID:         id,
		URL:        stringField(item, "url"),
		ParentID:   extractParentID(item["parent"]),
		Preview:    extractPreview(item),
	}
}

// normalizePage funnels a typed page through the same normalization as
// raw search hits.
func normalizePage(page *notion.Page) SearchResult {
	return normalizeItem(map[string]interface{}{
		"object":     page.Object,
		"id":         page.ID,
		"url":        page.URL,
		"parent":     page.Parent,
		"properties": page.Properties,
	})
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// richTextPlainText joins the non-empty plain_text values of a rich
// text list with single spaces.
func richTextPlainText(items []interface{}) string {
	var parts []string
	for _, item := range items {
		piece, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if text := strings.TrimSpace(stringField(piece, "plain_text")); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// extractTitle pulls a best-effort title: an explicit title list first,
// then title-type properties, then rich_text properties. Properties are
// visited in sorted key order so extraction is deterministic.
func extractTitle(item map[string]interface{}) string {
	if list, ok := item["title"].([]interface{}); ok {
		if title := richTextPlainText(list); title != "" {
			return title
		}
	}

	properties, ok := item["properties"].(map[string]interface{})
	if !ok {
		return ""
	}
	for _, wanted := range []string{"title", "rich_text"} {
		for _, key := range sortedKeys(properties) {
			prop, ok := properties[key].(map[string]interface{})
			if !ok || stringField(prop, "type") != wanted {
				continue
			}
			list, ok := prop[wanted].([]interface{})
			if !ok {
				continue
			}
			if title := richTextPlainText(list); title != "" {
				return title
			}
		}
	}
	return ""
}

// extractPreview pulls a short text preview: an explicit preview string
// first, then the first non-empty rich_text property in sorted key order.
func extractPreview(item map[string]interface{}) string {
	if preview, ok := item["preview"].(string); ok {
		return strings.TrimSpace(preview)
	}

	properties, ok := item["properties"].(map[string]interface{})
	if !ok {
		return ""
	}
	for _, key := range sortedKeys(properties) {
		prop, ok := properties[key].(map[string]interface{})
		if !ok || stringField(prop, "type") != "rich_text" {
			continue
		}
		list, ok := prop["rich_text"].([]interface{})
		if !ok {
			continue
		}
		if preview := richTextPlainText(list); preview != "" {
			return preview
		}
	}
	return ""
}

func extractParentID(parent interface{}) string {
	m, ok := parent.(map[string]interface{})
	if !ok {
		return ""
	}
	switch stringField(m, "type") {
	case "page_id":
		return stringField(m, "page_id")
	case "database_id":
		return stringField(m, "database_id")
	}
	return ""
}
