package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/notion-tools/internal/notion"
	"github.com/salmonumbrella/notion-tools/internal/output"
	"github.com/salmonumbrella/notion-tools/internal/tools"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	payload := map[string]interface{}{
		"error": map[string]interface{}{
			"message": err.Error(),
		},
	}

	errMap := payload["error"].(map[string]interface{})
	errMap["category"] = "system"
	errMap["type"] = "error"

	var cfgErr tools.ConfigurationError
	if errors.As(err, &cfgErr) {
		errMap["type"] = "configuration"
		errMap["category"] = "user"
	}

	var apiErr notion.APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		errMap["code"] = apiErr.Code
	}

	switch {
	case notion.IsAuthentication(err):
		errMap["type"] = "auth"
		errMap["category"] = "user"
	case notion.IsValidation(err):
		errMap["type"] = "validation"
		errMap["category"] = "user"
	case notion.IsNotFound(err):
		errMap["type"] = "not_found"
		errMap["category"] = "user"
	case notion.IsRateLimit(err):
		errMap["type"] = "rate_limit"
		errMap["category"] = "system"
	}

	var opErr tools.OperationError
	if errors.As(err, &opErr) {
		errMap["operation"] = opErr.Operation
	}

	return payload
}
