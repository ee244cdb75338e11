package tools

import (
	"context"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
	"github.com/salmonumbrella/notion-tools/internal/notion"
)

type fakeAPI struct {
	CreatePageFunc           func(parent, properties map[string]interface{}, children []blocks.Block) (*notion.Page, error)
	UpdatePagePropertiesFunc func(pageID string, properties map[string]interface{}) (*notion.Page, error)
	RetrievePageFunc         func(pageID string) (*notion.Page, error)
	AppendBlockChildrenFunc  func(blockID string, children []blocks.Block, replace bool) (*notion.BlockList, error)
	SearchFunc               func(query string, filter map[string]interface{}) ([]map[string]interface{}, error)
	QueryDatabaseFunc        func(databaseID string, filter map[string]interface{}) ([]map[string]interface{}, error)

	createCalls   int
	updateCalls   int
	retrieveCalls int
	appendCalls   int
	searchCalls   int
	queryCalls    int
}

func (f *fakeAPI) CreatePage(ctx context.Context, parent, properties map[string]interface{}, children []blocks.Block) (*notion.Page, error) {
	f.createCalls++
	if f.CreatePageFunc != nil {
		return f.CreatePageFunc(parent, properties, children)
	}
	return &notion.Page{Object: "page", ID: "page-1", URL: "https://notion.example/page-1"}, nil
}

func (f *fakeAPI) UpdatePageProperties(ctx context.Context, pageID string, properties map[string]interface{}) (*notion.Page, error) {
	f.updateCalls++
	if f.UpdatePagePropertiesFunc != nil {
		return f.UpdatePagePropertiesFunc(pageID, properties)
	}
	return &notion.Page{Object: "page", ID: pageID}, nil
}

func (f *fakeAPI) RetrievePage(ctx context.Context, pageID string) (*notion.Page, error) {
	f.retrieveCalls++
	if f.RetrievePageFunc != nil {
		return f.RetrievePageFunc(pageID)
	}
	return &notion.Page{Object: "page", ID: pageID, URL: "https://notion.example/" + pageID}, nil
}

func (f *fakeAPI) AppendBlockChildren(ctx context.Context, blockID string, children []blocks.Block, replace bool) (*notion.BlockList, error) {
	f.appendCalls++
	if f.AppendBlockChildrenFunc != nil {
		return f.AppendBlockChildrenFunc(blockID, children, replace)
	}
	return &notion.BlockList{Object: "list"}, nil
}

func (f *fakeAPI) Search(ctx context.Context, query string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	f.searchCalls++
	if f.SearchFunc != nil {
		return f.SearchFunc(query, filter)
	}
	return nil, nil
}

func (f *fakeAPI) QueryDatabase(ctx context.Context, databaseID string, filter map[string]interface{}) ([]map[string]interface{}, error) {
	f.queryCalls++
	if f.QueryDatabaseFunc != nil {
		return f.QueryDatabaseFunc(databaseID, filter)
	}
	return nil, nil
}

var _ notion.API = (*fakeAPI)(nil)
