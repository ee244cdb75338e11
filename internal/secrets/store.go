package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"github.com/salmonumbrella/notion-tools/internal/config"
)

const (
	// serviceName identifies this application's entries in the OS keyring.
	serviceName = "notion-tools"
	// DefaultProfile is the profile used when none is specified.
	DefaultProfile = "default"
	// openTimeout bounds keyring opens that may hang on an unresponsive
	// session bus.
	openTimeout = 5 * time.Second
)

// ErrTokenNotFound is returned when a profile has no stored token.
var ErrTokenNotFound = errors.New("no token stored")

// Token is a stored API credential.
type Token struct {
	APIToken  string    `json:"api_token"`
	Workspace string    `json:"workspace,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists API tokens per profile.
type Store interface {
	GetToken(profile string) (*Token, error)
	SetToken(profile string, tok Token) error
	DeleteToken(profile string) error
	Keys() ([]string, error)
}

// KeyringBackendInfo records the selected keyring backend and where the
// selection came from.
type KeyringBackendInfo struct {
	Value  string // auto, keychain, file
	Source string // env, config, default
}

// ResolveBackend picks the keyring backend from the environment, then
// the config file, then falls back to auto.
func ResolveBackend() KeyringBackendInfo {
	if v := strings.TrimSpace(os.Getenv(config.EnvKeyringBackend)); v != "" {
		return KeyringBackendInfo{Value: v, Source: "env"}
	}
	if cfg, err := config.ReadConfig(); err == nil && cfg.KeyringBackend != "" {
		return KeyringBackendInfo{Value: cfg.KeyringBackend, Source: "config"}
	}
	return KeyringBackendInfo{Value: "auto", Source: "default"}
}

// OpenDefault opens the keyring store using the resolved backend. On
// Linux without a session bus the file backend is forced so the open
// cannot hang waiting for dbus.
func OpenDefault() (Store, error) {
	info := ResolveBackend()
	dbusAddr := os.Getenv("DBUS_SESSION_BUS_ADDRESS")

	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	useFile := info.Value == "file" || shouldForceFileBackend(runtime.GOOS, info, dbusAddr)
	switch {
	case useFile:
		dir, err := config.EnsureKeyringDir()
		if err != nil {
			return nil, err
		}
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		cfg.FileDir = dir
		cfg.FilePasswordFunc = filePassword
	case info.Value == "keychain":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend}
	}

	var ring keyring.Keyring
	var err error
	if shouldUseKeyringTimeout(runtime.GOOS, info, dbusAddr) {
		ring, err = openKeyringWithTimeout(cfg, openTimeout)
	} else {
		ring, err = keyringOpenFunc(cfg)
	}
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	return &keyringStore{ring: ring}, nil
}

// filePassword reads the file backend password from the environment or
// prompts on the terminal.
func filePassword(prompt string) (string, error) {
	if pw := os.Getenv("NOTION_KEYRING_PASSWORD"); pw != "" {
		return pw, nil
	}
	return keyring.TerminalPrompt(prompt)
}

type keyringStore struct {
	ring keyring.Keyring
}

func (s *keyringStore) GetToken(profile string) (*Token, error) {
	item, err := s.ring.Get(profile)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w for profile %q", ErrTokenNotFound, profile)
		}
		return nil, wrapKeychainError(err)
	}
	var tok Token
	if err := json.Unmarshal(item.Data, &tok); err != nil {
		return nil, fmt.Errorf("parsing stored token: %w", err)
	}
	return &tok, nil
}

func (s *keyringStore) SetToken(profile string, tok Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := s.ring.Set(keyring.Item{
		Key:   profile,
		Data:  data,
		Label: serviceName + " " + profile,
	}); err != nil {
		return wrapKeychainError(err)
	}
	return nil
}

func (s *keyringStore) DeleteToken(profile string) error {
	if err := s.ring.Remove(profile); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("%w for profile %q", ErrTokenNotFound, profile)
		}
		return wrapKeychainError(err)
	}
	return nil
}

func (s *keyringStore) Keys() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, wrapKeychainError(err)
	}
	return keys, nil
}

// wrapKeychainError attaches unlock instructions to locked-keychain
// errors from macOS; other errors pass through unchanged.
func wrapKeychainError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "errSecInteractionNotAllowed") || strings.Contains(msg, "-25308") {
		return fmt.Errorf("%w\n\nThe macOS keychain is locked. Unlock it with:\n  security unlock-keychain", err)
	}
	return err
}
