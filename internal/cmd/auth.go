package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/salmonumbrella/notion-tools/internal/config"
	"github.com/salmonumbrella/notion-tools/internal/secrets"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication credentials",
	Long: `Manage authentication credentials for the Notion API.

Credentials are stored securely in your system keychain (macOS Keychain,
Windows Credential Manager, or encrypted file on Linux).

Examples:
  notion-tools auth login --token YOUR_API_TOKEN
  notion-tools auth login  # Interactive prompt for the token
  notion-tools auth status
  notion-tools auth logout`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token",
	Long: `Store a Notion API token in the system keychain.

To obtain an API token:
  1. Go to https://www.notion.so/my-integrations
  2. Create an internal integration (or open an existing one)
  3. Copy the integration secret
  4. Share the pages or databases you want to access with the integration

Examples:
  notion-tools auth login                      # Prompt for the token
  notion-tools auth login --token TOKEN        # Non-interactive
  notion-tools auth login --workspace "Acme"   # Label the workspace`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored credentials",
	Long: `Clear the stored API token from the system keychain.

Examples:
  notion-tools auth logout`,
	RunE: runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current authentication status",
	Long: `Display the current authentication status.

Shows whether a token is stored and, with --verify, checks it against
the Notion API.

Examples:
  notion-tools auth status
  notion-tools auth status --verify`,
	RunE: runStatus,
}

var (
	loginToken     string
	loginWorkspace string
	verifyAuth     bool
)

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	rootCmd.AddCommand(authCmd)

	loginCmd.Flags().StringVar(&loginToken, "token", "", "API token to store")
	loginCmd.Flags().StringVar(&loginWorkspace, "workspace", "", "Workspace label for this token")

	statusCmd.Flags().BoolVar(&verifyAuth, "verify", false, "Verify credentials with the API")
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	structured := structuredOutputRequested()

	token := strings.TrimSpace(loginToken)
	if token == "" {
		token = strings.TrimSpace(envGet(config.EnvAPIToken))
	}
	prompted := false
	if token == "" {
		prompted = true
		token, err = promptSecret(cmd.Context(), "Enter API token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token == "" {
		return fmt.Errorf("API token is required")
	}

	workspace := strings.TrimSpace(loginWorkspace)
	if workspace == "" && prompted && !structured {
		workspace, err = promptString(cmd.Context(), "Workspace label (optional): ")
		if err != nil {
			return fmt.Errorf("failed to read workspace label: %w", err)
		}
	}

	tok := secrets.Token{
		APIToken:  token,
		Workspace: workspace,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.SetToken(secrets.DefaultProfile, tok); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	if structured {
		return printStructured(map[string]string{
			"status": "authenticated",
			"token":  config.RedactToken(token),
		})
	}

	out := stdoutFromContext(cmd.Context())
	fmt.Fprintln(out, "Token stored.")
	fmt.Fprintln(out, "You can now use notion-tools commands without the --token flag.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	err = store.DeleteToken(secrets.DefaultProfile)
	if err != nil && !errors.Is(err, secrets.ErrTokenNotFound) {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	if structuredOutputRequested() {
		return printStructured(map[string]string{"status": "logged_out"})
	}

	fmt.Fprintln(stdoutFromContext(cmd.Context()), "Credentials cleared.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := openSecretsStore()
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	tok, err := store.GetToken(secrets.DefaultProfile)
	if errors.Is(err, secrets.ErrTokenNotFound) {
		if structuredOutputRequested() {
			return printStructured(map[string]interface{}{"authenticated": false})
		}
		fmt.Fprintln(stdoutFromContext(cmd.Context()), "Not authenticated. Run 'notion-tools auth login'.")
		return nil
	}
	if err != nil {
		return err
	}

	verified := false
	var verifyErr error
	if verifyAuth {
		verified, verifyErr = verifyToken(cmd.Context(), tok.APIToken)
	}

	if structuredOutputRequested() {
		payload := map[string]interface{}{
			"authenticated": true,
			"token":         config.RedactToken(tok.APIToken),
			"workspace":     tok.Workspace,
			"created_at":    tok.CreatedAt,
		}
		if verifyAuth {
			payload["verified"] = verified
			if verifyErr != nil {
				payload["verify_error"] = verifyErr.Error()
			}
		}
		return printStructured(payload)
	}

	out := stdoutFromContext(cmd.Context())
	fmt.Fprintln(out, "Authenticated.")
	if tok.Workspace != "" {
		fmt.Fprintf(out, "Workspace: %s\n", tok.Workspace)
	}
	fmt.Fprintf(out, "Token: %s\n", config.RedactToken(tok.APIToken))
	if !tok.CreatedAt.IsZero() {
		fmt.Fprintf(out, "Stored: %s\n", tok.CreatedAt.Format(time.RFC3339))
	}
	if verifyAuth {
		if verified {
			fmt.Fprintln(out, "Verification: ok")
		} else {
			fmt.Fprintf(out, "Verification: failed (%v)\n", verifyErr)
		}
	}
	return nil
}

// verifyToken runs a minimal search to confirm the token is accepted.
func verifyToken(ctx context.Context, token string) (bool, error) {
	api, err := newClientFromCredsFunc(token)
	if err != nil {
		return false, err
	}
	if _, err := api.Search(ctx, "", nil); err != nil {
		return false, err
	}
	return true, nil
}

// promptString prompts for a string input
func promptString(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(stderrFromContext(ctx), prompt)
	reader := bufio.NewReader(stdinFromContext(ctx))
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptSecret prompts for a secret input (no echo)
func promptSecret(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(stderrFromContext(ctx), prompt)

	in := stdinFromContext(ctx)
	if file, ok := in.(*os.File); ok {
		if term.IsTerminal(int(file.Fd())) {
			password, err := term.ReadPassword(int(file.Fd()))
			fmt.Fprintln(stderrFromContext(ctx))
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(password)), nil
		}
	}

	// Fall back to regular input for non-terminal (e.g., piped input)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
