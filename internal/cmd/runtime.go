package cmd

import (
	"fmt"
	"strings"

	"github.com/salmonumbrella/notion-tools/internal/config"
	"github.com/salmonumbrella/notion-tools/internal/notion"
	"github.com/salmonumbrella/notion-tools/internal/secrets"
	"github.com/spf13/cobra"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

// resolveCredentials resolves the API token and default parent page with
// precedence: flags > env > keyring > config.
func resolveCredentials(cmd *cobra.Command, cfg *config.Config) (string, string, error) {
	token := strings.TrimSpace(apiToken)
	parent := strings.TrimSpace(defaultParent)

	// Flags (only if explicitly set)
	if !flagChanged(cmd, "token") {
		token = ""
	}
	if !flagChanged(cmd, "parent") {
		parent = ""
	}

	// Environment
	if token == "" {
		if v := strings.TrimSpace(envGet(config.EnvAPIToken)); v != "" {
			token = v
		}
	}
	if parent == "" {
		if v := strings.TrimSpace(envGet(config.EnvDefaultParentPageID)); v != "" {
			parent = v
		}
	}

	// Keyring (only if still missing)
	if token == "" {
		store, err := openSecretsStore()
		if err == nil {
			if tok, err := store.GetToken(secrets.DefaultProfile); err == nil {
				token = tok.APIToken
			}
		}
	}

	// Config fallback
	if token == "" && cfg != nil {
		token = strings.TrimSpace(cfg.Token)
	}
	if parent == "" && cfg != nil {
		parent = strings.TrimSpace(cfg.DefaultParentPageID)
	}

	return token, parent, nil
}

// clientOptionsFromConfig builds API client options from config and env.
func clientOptionsFromConfig(cfg *config.Config) ([]notion.ClientOption, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	var opts []notion.ClientOption
	if v := strings.TrimSpace(cfg.BaseURL); v != "" {
		opts = append(opts, notion.WithBaseURL(v))
	}

	timeout, err := cfg.Timeout(envGet)
	if err != nil {
		return nil, err
	}
	opts = append(opts, notion.WithTimeout(timeout))

	retries, err := cfg.Retries(envGet)
	if err != nil {
		return nil, err
	}
	opts = append(opts, notion.WithMaxRetries(retries))

	return opts, nil
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
