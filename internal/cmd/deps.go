package cmd

import (
	"os"

	"github.com/salmonumbrella/notion-tools/internal/notion"
	"github.com/salmonumbrella/notion-tools/internal/secrets"
)

var (
	openSecretsStore       = secrets.OpenDefault
	newClientFromCredsFunc = func(token string, opts ...notion.ClientOption) (notion.API, error) {
		return notion.NewClient(token, opts...), nil
	}
	envGet = os.Getenv
)
