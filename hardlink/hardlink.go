// Package hardlink groups paths that name the same file on disk, whether the
// path was repeated, reached through a symlink or is a hardlink.
package hardlink

// fileKey identifies a file on disk. Unix fills dev and ino, Windows the
// absolute path.
type fileKey struct {
	dev  uint64
	ino  uint64
	path string
}

// Group collapses paths that refer to the same file. It returns the first path
// of each file in input order, and maps every input path to that first path.
// Paths that cannot be stat'ed form a group of their own so the caller sees the
// error when it opens them.
func Group(paths []string) (unique []string, canonical map[string]string) {
	canonical = make(map[string]string, len(paths))
	seen := make(map[fileKey]string, len(paths))

	for _, p := range paths {
		if _, ok := canonical[p]; ok {
			continue
		}

		key, err := keyOf(p)
		if err != nil {
			canonical[p] = p
			unique = append(unique, p)
			continue
		}

		if first, ok := seen[key]; ok {
			canonical[p] = first
			continue
		}
		seen[key] = p
		canonical[p] = p
		unique = append(unique, p)
	}

	return unique, canonical
}
