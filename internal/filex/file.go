// Package filex resolves on-disk locations used by the client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) with owner-only permissions and
// returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// DefaultDataDir returns <user config dir>/<app>, falling back to ./.<app>
// when the platform has no config dir.
func DefaultDataDir(app string) string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "." + app
	}
	return filepath.Join(base, app)
}

// DataFile ensures dataDir exists and joins name onto it. Absolute names are
// returned unchanged.
func DataFile(dataDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir, err := EnsureDir(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
