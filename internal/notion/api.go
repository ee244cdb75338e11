package notion

import (
	"context"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
)

// API defines the interface for interacting with the Notion REST API.
// Client implements it against the real service; tests substitute fakes.
// Every call takes a context and performs exactly one logical remote
// operation (the client may retry rate-limited requests internally).
type API interface {
	// CreatePage creates a new page under the given parent reference.
	// The children key is sent only when at least one block is supplied.
	CreatePage(ctx context.Context, parent, properties map[string]interface{}, children []blocks.Block) (*Page, error)

	// UpdatePageProperties patches the properties of an existing page.
	UpdatePageProperties(ctx context.Context, pageID string, properties map[string]interface{}) (*Page, error)

	// RetrievePage fetches a page, primarily for its current URL.
	RetrievePage(ctx context.Context, pageID string) (*Page, error)

	// AppendBlockChildren appends blocks to a page or block. When replace
	// is true the existing children are replaced instead of extended.
	AppendBlockChildren(ctx context.Context, blockID string, children []blocks.Block, replace bool) (*BlockList, error)

	// Search runs a workspace-wide full text search.
	Search(ctx context.Context, query string, filter map[string]interface{}) ([]map[string]interface{}, error)

	// QueryDatabase queries rows of a database, optionally filtered.
	QueryDatabase(ctx context.Context, databaseID string, filter map[string]interface{}) ([]map[string]interface{}, error)
}
