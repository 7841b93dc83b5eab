package gitinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points HOME and XDG_CONFIG_HOME at an empty directory so the
// developer's global git identity does not leak into the tests.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

// setupTestRepo creates a repository in a temporary directory with a
// repository-level user identity and returns its path.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "failed to init repository")

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test User"
	cfg.User.Email = "test@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	return dir
}

func sameDir(t *testing.T, want, got string) {
	t.Helper()
	w, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)
	g, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, w, g)
}

func TestDetect_InRepo(t *testing.T) {
	isolateHome(t)
	dir := setupTestRepo(t)

	info := Detect(dir)

	assert.True(t, info.InRepo())
	sameDir(t, dir, info.RepoRoot)
	assert.Equal(t, "Test User", info.UserName)
	assert.Equal(t, "test@example.com", info.UserEmail)
	assert.Equal(t, "master", info.Branch, "an unborn default branch still resolves")
}

// TestDetect_Subdirectory verifies that Detect walks up from a nested
// directory to the repository root.
func TestDetect_Subdirectory(t *testing.T) {
	isolateHome(t)
	dir := setupTestRepo(t)
	nested := filepath.Join(dir, "internal", "service")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	info := Detect(nested)

	require.True(t, info.InRepo())
	sameDir(t, dir, info.RepoRoot)
	assert.Equal(t, "Test User", info.UserName)
}

func TestDetect_OutsideRepo(t *testing.T) {
	isolateHome(t)

	info := Detect(t.TempDir())

	assert.False(t, info.InRepo())
	assert.Empty(t, info.Branch)
	assert.Empty(t, info.UserName)
}
