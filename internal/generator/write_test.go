package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/cobalt/internal/model"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"same.txt":    "same",
		"changed.txt": "old",
	})
	files := []File{
		{Path: "nested/dir/new.txt", Content: []byte("new"), Mode: 0o644},
		{Path: "same.txt", Content: []byte("same"), Mode: 0o644},
		{Path: "changed.txt", Content: []byte("new"), Mode: 0o644},
	}

	t.Run("without force existing files are skipped", func(t *testing.T) {
		results, err := Write(files, root, WriteOptions{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, []WriteResult{
			{Path: "nested/dir/new.txt", Action: ActionCreated},
			{Path: "same.txt", Action: ActionUnchanged},
			{Path: "changed.txt", Action: ActionSkipped},
		}, results)
		_, err = os.Stat(filepath.Join(root, "nested"))
		assert.True(t, os.IsNotExist(err), "dry run writes nothing")
	})

	t.Run("force overwrites", func(t *testing.T) {
		results, err := Write(files, root, WriteOptions{Force: true})
		require.NoError(t, err)
		assert.Equal(t, []WriteResult{
			{Path: "nested/dir/new.txt", Action: ActionCreated},
			{Path: "same.txt", Action: ActionUnchanged},
			{Path: "changed.txt", Action: ActionOverwritten},
		}, results)
		assert.Equal(t, "new", readFile(t, filepath.Join(root, "nested", "dir", "new.txt")))
		assert.Equal(t, "new", readFile(t, filepath.Join(root, "changed.txt")))
	})

	t.Run("second run is unchanged", func(t *testing.T) {
		results, err := Write(files, root, WriteOptions{})
		require.NoError(t, err)
		for _, r := range results {
			assert.Equal(t, ActionUnchanged, r.Action, r.Path)
		}
	})
}

func TestWrite_PreservesMode(t *testing.T) {
	root := t.TempDir()
	_, err := Write([]File{{Path: "run.sh", Content: []byte("#!/bin/sh\n"), Mode: 0o755}}, root, WriteOptions{})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestWrite_Failure(t *testing.T) {
	root := t.TempDir()
	// A regular file where a directory is needed makes MkdirAll fail.
	writeTree(t, root, map[string]string{"blocker": "x"})

	results, err := Write([]File{
		{Path: "ok.txt", Content: []byte("ok")},
		{Path: "blocker/child.txt", Content: []byte("x")},
	}, root, WriteOptions{})

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitWriteFailed, cliErr.Code)
	assert.Equal(t, []WriteResult{{Path: "ok.txt", Action: ActionCreated}}, results)
}
