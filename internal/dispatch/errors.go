package dispatch

import (
	"errors"

	"github.com/shinji-kodama/cobalt/internal/model"
)

// Stage names the step of Run that failed.
type Stage string

const (
	StageLoad    Stage = "load"
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageExecute Stage = "execute"
)

// String returns the string representation of Stage.
func (s Stage) String() string {
	return string(s)
}

// ExitCode returns the default process exit code for failures in s.
func (s Stage) ExitCode() model.ExitCode {
	switch s {
	case StageLoad:
		return model.ExitLoadFailed
	case StageParse:
		return model.ExitUsage
	case StageResolve:
		return model.ExitUnknownCommand
	default:
		return model.ExitGeneralError
	}
}

// Error classifies a Run failure by stage. Its message is the message of
// the wrapped error, unchanged.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the error produced by the failing collaborator.
func (e *Error) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, if err wraps an *Error.
func StageOf(err error) (Stage, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Stage, true
	}
	return "", false
}
