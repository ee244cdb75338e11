package secrets

import (
	"errors"
	"fmt"
	"time"

	"github.com/99designs/keyring"

	"github.com/salmonumbrella/notion-tools/internal/config"
)

// keyringOpenFunc is swapped in tests to simulate slow or failing opens.
var keyringOpenFunc = keyring.Open

var errKeyringTimeout = errors.New("keyring open timed out")

// openKeyringWithTimeout opens a keyring, abandoning the attempt if it
// does not complete in time. A dbus session bus that accepts connections
// but never answers would otherwise hang the process indefinitely.
func openKeyringWithTimeout(cfg keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	type result struct {
		ring keyring.Keyring
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		ring, err := keyringOpenFunc(cfg)
		ch <- result{ring: ring, err: err}
	}()

	select {
	case res := <-ch:
		return res.ring, res.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w after %s; the session keyring may be unavailable. Set %s=file to use the encrypted file backend instead",
			errKeyringTimeout, timeout, config.EnvKeyringBackend)
	}
}

// shouldForceFileBackend reports whether the file backend must be used
// because no session bus exists to serve the auto backend.
func shouldForceFileBackend(goos string, info KeyringBackendInfo, dbusAddr string) bool {
	if goos != "linux" {
		return false
	}
	if info.Value != "auto" && info.Value != "" {
		return false
	}
	return dbusAddr == ""
}

// shouldUseKeyringTimeout reports whether opens should be bounded by a
// timeout. Only the Linux auto backend talks to dbus and can hang.
func shouldUseKeyringTimeout(goos string, info KeyringBackendInfo, dbusAddr string) bool {
	if goos != "linux" {
		return false
	}
	if info.Value != "auto" && info.Value != "" {
		return false
	}
	return dbusAddr != ""
}
