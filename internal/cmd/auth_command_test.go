package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/salmonumbrella/notion-tools/internal/notion"
	"github.com/salmonumbrella/notion-tools/internal/output"
	"github.com/salmonumbrella/notion-tools/internal/secrets"
)

func resetAuthFlags() {
	loginToken = ""
	loginWorkspace = ""
	verifyAuth = false
}

func TestAuthLoginStoresToken(t *testing.T) {
	store := newFakeStore()
	defer stubSecretsStore(t, store, nil)()
	defer stubEnv(t, nil)()

	out, _, restoreCtx := withTestContext(t, output.FormatJSON)
	defer restoreCtx()
	setCmdContext(loginCmd)

	resetAuthFlags()
	defer resetAuthFlags()
	loginToken = "secret_abcdef123456"
	loginWorkspace = "Acme"

	if err := runLogin(loginCmd, nil); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	tok, err := store.GetToken(secrets.DefaultProfile)
	if err != nil {
		t.Fatalf("token not stored: %v", err)
	}
	if tok.APIToken != "secret_abcdef123456" {
		t.Fatalf("unexpected token: %q", tok.APIToken)
	}
	if tok.Workspace != "Acme" {
		t.Fatalf("unexpected workspace: %q", tok.Workspace)
	}
	if tok.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	if strings.Contains(out.String(), "secret_abcdef123456") {
		t.Fatalf("token leaked in output: %q", out.String())
	}
}

func TestAuthLoginPromptsWhenMissing(t *testing.T) {
	store := newFakeStore()
	defer stubSecretsStore(t, store, nil)()
	defer stubEnv(t, nil)()

	in := bytes.NewBufferString("prompted-token\nTeam\n")
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), in, out, errBuf)
	ctx = output.WithFormat(ctx, output.FormatText)
	rootCmd.SetContext(ctx)
	defer rootCmd.SetContext(context.Background())
	setCmdContext(loginCmd)

	prevType := outputType
	outputType = output.FormatText
	defer func() { outputType = prevType }()

	resetAuthFlags()
	defer resetAuthFlags()

	if err := runLogin(loginCmd, nil); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if !strings.Contains(errBuf.String(), "Enter API token:") {
		t.Fatalf("expected prompt on stderr, got %q", errBuf.String())
	}

	tok, err := store.GetToken(secrets.DefaultProfile)
	if err != nil {
		t.Fatalf("token not stored: %v", err)
	}
	if tok.APIToken != "prompted-token" {
		t.Fatalf("unexpected token: %q", tok.APIToken)
	}
	if tok.Workspace != "Team" {
		t.Fatalf("unexpected workspace: %q", tok.Workspace)
	}
}

func TestAuthLoginEmptyTokenFails(t *testing.T) {
	defer stubSecretsStore(t, newFakeStore(), nil)()
	defer stubEnv(t, nil)()

	in := bytes.NewBufferString("\n")
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), in, out, errBuf)
	rootCmd.SetContext(ctx)
	defer rootCmd.SetContext(context.Background())
	setCmdContext(loginCmd)

	resetAuthFlags()
	defer resetAuthFlags()

	err := runLogin(loginCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "API token is required") {
		t.Fatalf("expected token-required error, got %v", err)
	}
}

func TestAuthLogout(t *testing.T) {
	store := newFakeStore()
	store.tokens[secrets.DefaultProfile] = secrets.Token{APIToken: "tok"}
	defer stubSecretsStore(t, store, nil)()

	out, _, restoreCtx := withTestContext(t, output.FormatJSON)
	defer restoreCtx()
	setCmdContext(logoutCmd)

	if err := runLogout(logoutCmd, nil); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := store.GetToken(secrets.DefaultProfile); err == nil {
		t.Fatal("expected token to be deleted")
	}

	var result map[string]string
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if result["status"] != "logged_out" {
		t.Fatalf("unexpected status: %v", result)
	}
}

func TestAuthLogoutWithoutToken(t *testing.T) {
	defer stubSecretsStore(t, newFakeStore(), nil)()

	_, _, restoreCtx := withTestContext(t, output.FormatJSON)
	defer restoreCtx()
	setCmdContext(logoutCmd)

	// Missing token is not an error.
	if err := runLogout(logoutCmd, nil); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
}

func TestAuthStatusNotAuthenticated(t *testing.T) {
	defer stubSecretsStore(t, newFakeStore(), nil)()

	out, _, restoreCtx := withTestContext(t, output.FormatJSON)
	defer restoreCtx()
	setCmdContext(statusCmd)

	resetAuthFlags()
	defer resetAuthFlags()

	if err := runStatus(statusCmd, nil); err != nil {
		t.Fatalf("status failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if result["authenticated"] != false {
		t.Fatalf("expected authenticated=false, got %v", result)
	}
}

func TestAuthStatusMasksToken(t *testing.T) {
	store := newFakeStore()
	store.tokens[secrets.DefaultProfile] = secrets.Token{APIToken: "secret_abcdef123456", Workspace: "Acme"}
	defer stubSecretsStore(t, store, nil)()

	out, _, restoreCtx := withTestContext(t, output.FormatText)
	defer restoreCtx()
	setCmdContext(statusCmd)

	resetAuthFlags()
	defer resetAuthFlags()

	if err := runStatus(statusCmd, nil); err != nil {
		t.Fatalf("status failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Authenticated.") {
		t.Errorf("missing status line: %q", got)
	}
	if !strings.Contains(got, "Workspace: Acme") {
		t.Errorf("missing workspace line: %q", got)
	}
	if strings.Contains(got, "secret_abcdef123456") {
		t.Errorf("token leaked: %q", got)
	}
	if !strings.Contains(got, "3456") {
		t.Errorf("expected masked token suffix: %q", got)
	}
}

func TestAuthStatusVerify(t *testing.T) {
	store := newFakeStore()
	store.tokens[secrets.DefaultProfile] = secrets.Token{APIToken: "tok"}
	defer stubSecretsStore(t, store, nil)()

	var searched bool
	prevNewClient := newClientFromCredsFunc
	newClientFromCredsFunc = func(token string, opts ...notion.ClientOption) (notion.API, error) {
		return &fakeClient{
			SearchFunc: func(ctx context.Context, query string, filter map[string]interface{}) ([]map[string]interface{}, error) {
				searched = true
				return nil, nil
			},
		}, nil
	}
	defer func() { newClientFromCredsFunc = prevNewClient }()

	out, _, restoreCtx := withTestContext(t, output.FormatJSON)
	defer restoreCtx()
	setCmdContext(statusCmd)

	resetAuthFlags()
	defer resetAuthFlags()
	verifyAuth = true

	if err := runStatus(statusCmd, nil); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !searched {
		t.Fatal("expected verification search")
	}

	var result map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if result["verified"] != true {
		t.Fatalf("expected verified=true, got %v", result)
	}
}
