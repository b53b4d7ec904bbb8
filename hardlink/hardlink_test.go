//go:build !windows

package hardlink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jar")
	b := filepath.Join(dir, "b.jar")
	linked := filepath.Join(dir, "linked.jar")
	symlinked := filepath.Join(dir, "symlinked.jar")
	missing := filepath.Join(dir, "missing.jar")

	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("a"), 0o644))
	require.NoError(t, os.Link(a, linked))
	require.NoError(t, os.Symlink(a, symlinked))

	unique, canonical := Group([]string{a, b, linked, a, symlinked, missing})

	// Same contents but different files stay apart.
	assert.Equal(t, []string{a, b, missing}, unique)
	assert.Equal(t, map[string]string{
		a:         a,
		b:         b,
		linked:    a,
		symlinked: a,
		missing:   missing,
	}, canonical)
}

func TestGroupEmpty(t *testing.T) {
	unique, canonical := Group(nil)
	assert.Empty(t, unique)
	assert.Empty(t, canonical)
}
