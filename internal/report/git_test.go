package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGitFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, ".git", filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGitInfo_Branch(t *testing.T) {
	root := t.TempDir()
	writeGitFile(t, root, "HEAD", "ref: refs/heads/main\n")
	writeGitFile(t, root, "refs/heads/main", "0123456789abcdef0123456789abcdef01234567\n")

	info := GitInfo(root)
	require.NotNil(t, info)
	assert.Equal(t, "main", info.Branch)
	assert.Equal(t, "01234567", info.Commit)
}

func TestGitInfo_DetachedHead(t *testing.T) {
	root := t.TempDir()
	writeGitFile(t, root, "HEAD", "fedcba9876543210fedcba9876543210fedcba98\n")

	info := GitInfo(root)
	require.NotNil(t, info)
	assert.Empty(t, info.Branch)
	assert.Equal(t, "fedcba98", info.Commit)
}

func TestGitInfo_MissingRefFile(t *testing.T) {
	root := t.TempDir()
	writeGitFile(t, root, "HEAD", "ref: refs/heads/feature/x\n")

	info := GitInfo(root)
	require.NotNil(t, info)
	assert.Equal(t, "feature/x", info.Branch)
	assert.Empty(t, info.Commit)
}

func TestGitInfo_NoRepository(t *testing.T) {
	assert.Nil(t, GitInfo(t.TempDir()))
}
