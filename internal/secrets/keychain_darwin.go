//go:build darwin

package secrets

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// IsKeychainLockedError reports whether an error string comes from a
// locked macOS keychain.
func IsKeychainLockedError(errStr string) bool {
	return strings.Contains(errStr, "errSecInteractionNotAllowed") ||
		strings.Contains(errStr, "-25308")
}

// loginKeychainPath returns the path of the user's login keychain.
func loginKeychainPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "login.keychain-db"
	}
	return filepath.Join(home, "Library", "Keychains", "login.keychain-db")
}

// CheckKeychainLocked reports whether the login keychain is locked.
func CheckKeychainLocked() bool {
	out, err := exec.Command("security", "show-keychain-info", loginKeychainPath()).CombinedOutput()
	if err != nil {
		return IsKeychainLockedError(string(out))
	}
	return false
}

// UnlockKeychain prompts the user to unlock the login keychain.
func UnlockKeychain() error {
	cmd := exec.Command("security", "unlock-keychain", loginKeychainPath())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("unlocking keychain: %w", err)
	}
	return nil
}

// EnsureKeychainAccess unlocks the keychain if it is currently locked.
func EnsureKeychainAccess() error {
	if CheckKeychainLocked() {
		return UnlockKeychain()
	}
	return nil
}
