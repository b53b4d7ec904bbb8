//go:build !windows

package hardlink

import (
	"fmt"
	"os"
	"syscall"
)

// keyOf identifies a file by device and inode, following symlinks.
func keyOf(path string) (fileKey, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return fileKey{}, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, fmt.Errorf("cannot convert to syscall.Stat_t for %s", path)
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, nil
}
