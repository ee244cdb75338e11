package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/notion-tools/internal/blocks"
	"github.com/salmonumbrella/notion-tools/internal/notion"
	"github.com/salmonumbrella/notion-tools/internal/output"
	"github.com/salmonumbrella/notion-tools/internal/tools"
)

func TestValidateErrorFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"auto", false},
		{"text", false},
		{"json", false},
		{"yaml", false},
		{"AUTO", false},   // case insensitive
		{" json ", false}, // whitespace trimmed
		{"invalid", true},
		{"xml", true},
		{"ndjson", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateErrorFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateErrorFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveErrorFormat(t *testing.T) {
	tests := []struct {
		name         string
		errorFormat  string
		outputFormat output.Format
		want         string
	}{
		{"empty defaults to text", "", output.FormatText, "text"},
		{"auto with json output", "auto", output.FormatJSON, "json"},
		{"auto with ndjson output", "auto", output.FormatNDJSON, "json"},
		{"auto with yaml output", "auto", output.FormatYAML, "yaml"},
		{"auto with text output", "auto", output.FormatText, "text"},
		{"explicit json overrides", "json", output.FormatText, "json"},
		{"explicit yaml overrides", "yaml", output.FormatText, "yaml"},
		{"explicit text overrides", "text", output.FormatJSON, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ctx = WithErrorFormat(ctx, tt.errorFormat)
			ctx = output.WithFormat(ctx, tt.outputFormat)

			got := effectiveErrorFormat(ctx)
			if got != tt.want {
				t.Errorf("effectiveErrorFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildErrorEnvelope(t *testing.T) {
	apiErr := func(status int, code, msg string) error {
		return tools.OperationError{Operation: "Search", Err: notion.APIError{Status: status, Code: code, Message: msg}}
	}

	tests := []struct {
		name         string
		err          error
		wantType     string
		wantCategory string
		wantCode     string
	}{
		{
			name:         "generic error",
			err:          errors.New("something went wrong"),
			wantType:     "error",
			wantCategory: "system",
		},
		{
			name:         "configuration error",
			err:          blocks.ConfigurationError{Message: "unsupported block type: video"},
			wantType:     "configuration",
			wantCategory: "user",
		},
		{
			name:         "auth error",
			err:          apiErr(401, "unauthorized", "API token is invalid"),
			wantType:     "auth",
			wantCategory: "user",
			wantCode:     "unauthorized",
		},
		{
			name:         "validation error",
			err:          apiErr(400, "validation_error", "body failed validation"),
			wantType:     "validation",
			wantCategory: "user",
			wantCode:     "validation_error",
		},
		{
			name:         "not found error",
			err:          apiErr(404, "object_not_found", "could not find page"),
			wantType:     "not_found",
			wantCategory: "user",
			wantCode:     "object_not_found",
		},
		{
			name:         "rate limit error",
			err:          apiErr(429, "rate_limited", "too many requests"),
			wantType:     "rate_limit",
			wantCategory: "system",
			wantCode:     "rate_limited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildErrorEnvelope(tt.err)

			errMap, ok := result["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected 'error' map in result")
			}

			if errMap["message"] != tt.err.Error() {
				t.Errorf("message = %v, want %v", errMap["message"], tt.err.Error())
			}
			if errMap["type"] != tt.wantType {
				t.Errorf("type = %v, want %v", errMap["type"], tt.wantType)
			}
			if errMap["category"] != tt.wantCategory {
				t.Errorf("category = %v, want %v", errMap["category"], tt.wantCategory)
			}
			if tt.wantCode != "" && errMap["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", errMap["code"], tt.wantCode)
			}
		})
	}
}

func TestBuildErrorEnvelopeOperation(t *testing.T) {
	err := tools.OperationError{Operation: "Create page", Err: errors.New("boom")}

	result := buildErrorEnvelope(err)
	errMap := result["error"].(map[string]interface{})

	if errMap["operation"] != "Create page" {
		t.Errorf("operation = %v, want 'Create page'", errMap["operation"])
	}
}

func TestPrintCommandError_Nil(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, errBuf)

	printCommandError(ctx, nil)

	if errBuf.Len() != 0 {
		t.Errorf("expected no output for nil error, got %q", errBuf.String())
	}
}

func TestPrintCommandError_Text(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "text")
	ctx = output.WithFormat(ctx, output.FormatText)

	printCommandError(ctx, errors.New("test error message"))

	got := strings.TrimSpace(errBuf.String())
	if got != "test error message" {
		t.Errorf("expected %q, got %q", "test error message", got)
	}
}

func TestPrintCommandError_JSON(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "json")
	ctx = output.WithFormat(ctx, output.FormatText)

	testErr := tools.OperationError{Operation: "Search", Err: notion.APIError{Status: 401, Code: "unauthorized", Message: "auth failed"}}
	printCommandError(ctx, testErr)

	var result map[string]interface{}
	if err := json.Unmarshal(errBuf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	errMap, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'error' map in output")
	}
	if errMap["type"] != "auth" {
		t.Errorf("type = %v, want 'auth'", errMap["type"])
	}
}

func TestPrintCommandError_YAML(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "yaml")
	ctx = output.WithFormat(ctx, output.FormatText)

	testErr := blocks.ConfigurationError{Message: "blocks payload exceeds limit"}
	printCommandError(ctx, testErr)

	var result map[string]interface{}
	if err := yaml.Unmarshal(errBuf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse YAML output: %v", err)
	}

	errMap, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'error' map in output")
	}
	if errMap["message"] != "blocks payload exceeds limit" {
		t.Errorf("message = %v, want 'blocks payload exceeds limit'", errMap["message"])
	}
	if errMap["type"] != "configuration" {
		t.Errorf("type = %v, want 'configuration'", errMap["type"])
	}
}
