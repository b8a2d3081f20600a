package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/hreflang-audit/pkg/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectories(t *testing.T) {
	base := t.TempDir()

	err := fileutil.EnsureDir(base, "reports", "2024")
	require.Nil(t, err)

	info, statErr := os.Stat(filepath.Join(base, "reports", "2024"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_ExistingDirectoryIsNoop(t *testing.T) {
	base := t.TempDir()

	require.Nil(t, fileutil.EnsureDir(base, "reports"))
	require.Nil(t, fileutil.EnsureDir(base, "reports"))
}

func TestEnsureParentDir(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "out", "audit.csv")

	err := fileutil.EnsureParentDir(target)
	require.Nil(t, err)

	info, statErr := os.Stat(filepath.Join(base, "out"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestEnsureParentDir_BareFilename(t *testing.T) {
	assert.Nil(t, fileutil.EnsureParentDir("audit.csv"))
}
