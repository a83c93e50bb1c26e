package lint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

func touch(t *testing.T, root string, rel string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("export {};\n"), 0o600))

	return path
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	want := []string{
		touch(t, root, "src/index.ts"),
		touch(t, root, "src/view.tsx"),
		touch(t, root, "src/types.d.ts"),
		touch(t, root, "lib/util.mts"),
	}

	touch(t, root, "src/readme.md")
	touch(t, root, "node_modules/pkg/index.ts")
	touch(t, root, "dist/index.ts")
	touch(t, root, "src/api.generated.ts")
	touch(t, root, "tmp/scratch.ts")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("tmp/\n"), 0o600))

	files, err := lint.Discover([]string{root}, []string{"*.generated.ts"})
	require.NoError(t, err)
	assert.ElementsMatch(t, want, files)
	assert.IsNonDecreasing(t, files)
}

func TestDiscover_ExplicitFilesAndDuplicates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ignored := touch(t, root, "dist/keep.ts")
	other := touch(t, root, "a.ts")

	files, err := lint.Discover([]string{ignored, other, root}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{other, ignored}, files)
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	_, err := lint.Discover([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	require.ErrorIs(t, err, os.ErrNotExist)

	root := t.TempDir()
	touch(t, root, "notes.txt")

	_, err = lint.Discover([]string{root}, nil)
	require.ErrorIs(t, err, lint.ErrNoInputs)
}
