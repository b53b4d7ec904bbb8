//go:build windows

package hardlink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// keyOf falls back to the cleaned absolute path; hardlinks are not detected
// on Windows.
func keyOf(path string) (fileKey, error) {
	if _, err := os.Stat(path); err != nil {
		return fileKey{}, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, err
	}
	return fileKey{path: strings.ToLower(abs)}, nil
}
