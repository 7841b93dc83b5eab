package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/cobalt/internal/model"
)

// Action is what Write did (or, in a dry run, would do) with one file.
type Action string

const (
	ActionCreated     Action = "created"
	ActionOverwritten Action = "overwritten"
	ActionSkipped     Action = "skipped"
	ActionUnchanged   Action = "unchanged"
)

// String returns the string representation of Action.
func (a Action) String() string {
	return string(a)
}

// WriteOptions controls Write.
type WriteOptions struct {
	// Force overwrites existing files whose contents differ.
	Force bool

	// DryRun computes the actions without touching the filesystem.
	DryRun bool
}

// WriteResult reports the action taken for one file.
type WriteResult struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
}

// Write writes files under root. Existing files with identical contents are
// left alone; differing files are skipped unless opts.Force is set.
//
// Returns a CLIError with ExitWriteFailed if a file cannot be written.
// Results for the files processed before the failure are still returned.
func Write(files []File, root string, opts WriteOptions) ([]WriteResult, error) {
	results := make([]WriteResult, 0, len(files))
	for _, f := range files {
		target := filepath.Join(root, filepath.FromSlash(f.Path))

		action := ActionCreated
		existing, err := os.ReadFile(target)
		switch {
		case err == nil && bytes.Equal(existing, f.Content):
			action = ActionUnchanged
		case err == nil && !opts.Force:
			action = ActionSkipped
		case err == nil:
			action = ActionOverwritten
		case !os.IsNotExist(err):
			return results, model.WrapCLIError(model.ExitWriteFailed,
				fmt.Sprintf("cannot read existing file %s", target), err)
		}

		if !opts.DryRun && (action == ActionCreated || action == ActionOverwritten) {
			if err := writeFile(target, f); err != nil {
				return results, model.WrapCLIError(model.ExitWriteFailed,
					fmt.Sprintf("cannot write %s", target), err)
			}
		}
		results = append(results, WriteResult{Path: f.Path, Action: action})
	}
	return results, nil
}

func writeFile(target string, f File) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	mode := f.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(target, f.Content, mode); err != nil {
		return err
	}
	// WriteFile keeps the mode of a file it overwrites.
	return os.Chmod(target, mode)
}
