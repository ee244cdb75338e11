package cmd

import (
	"context"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
	"github.com/salmonumbrella/notion-tools/internal/notion"
)

// fakeClient implements notion.API for command tests. Each method
// delegates to an optional Func field and falls back to a benign default.
type fakeClient struct {
	CreatePageFunc           func(ctx context.Context, parent, properties map[string]interface{}, children []blocks.Block) (*notion.Page, error)
	UpdatePagePropertiesFunc func(ctx context.Context, pageID string, properties map[string]interface{}) (*notion.Page, error)
	RetrievePageFunc         func(ctx context.Context, pageID string) (*notion.Page, error)
	AppendBlockChildrenFunc  func(ctx context.Context, blockID string, children []blocks.Block, replace bool) (*notion.BlockList, error)
	SearchFunc               func(ctx context.Context, query string, filter map[string]interface{}) ([]map[string]interface{}, error)
	QueryDatabaseFunc        func(ctx context.Context, databaseID string, filter map[string]interface{}) ([]map[string]interface{}, error)
}

var _ notion.API = (*fakeClient)(nil)

func (f *fakeClient) CreatePage(ctx context.Context, parent, properties map[string]interface{}, children []blocks.Block) (*notion.Page, error) {
	if f.CreatePageFunc != nil {
		return f.CreatePageFunc(ctx, parent, properties, children)
	}
	return &notion.Page{Object: "page", ID: "page-1", URL: "https://notion.example/page-1"}, nil
}

func (f *fakeClient) UpdatePageProperties(ctx context.Context, pageID string, properties map[string]interface{}) (*notion.Page, error) {
	if f.UpdatePagePropertiesFunc != nil {
		return f.UpdatePagePropertiesFunc(ctx, pageID, properties)
	}
	return &notion.Page{Object: "page", ID: pageID}, nil
}

func (f *fakeClient) RetrievePage(ctx context.Context, pageID string) (*notion.Page, error) {
	if f.RetrievePageFunc != nil {
		return f.RetrievePageFunc(ctx, pageID)
	}
	return &notion.Page{Object: "page", ID: pageID, URL: "https://notion.example/" + pageID}, nil
}

func (f *fakeClient) AppendBlockChildren(ctx context.Context, blockID string, children []blocks.Block, replace bool) (*notion.BlockList, error) {
	if f.AppendBlockChildrenFunc != nil {
		return f.AppendBlockChildrenFunc(ctx, blockID, children, replace)
	}
	return &notion.BlockList{Object: "list"}, nil
}

func (f *fakeClient) Search(ctx context.Context, query string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, query, filter)
	}
	return nil, nil
}

func (f *fakeClient) QueryDatabase(ctx context.Context, databaseID string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	if f.QueryDatabaseFunc != nil {
		return f.QueryDatabaseFunc(ctx, databaseID, filter)
	}
	return nil, nil
}
