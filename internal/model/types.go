package model

import (
	"fmt"
	"regexp"
	"sort"
)

// Options is the parsed form of the process arguments. It is produced by the
// option parser and handed unchanged both to the command resolver and to the
// selected command.
type Options struct {
	// Command is the first positional argument, the name of the command to run.
	// It is set even when no registered command matches, so that resolution
	// (not parsing) decides whether the name is known.
	Command string `json:"command"`

	// Args holds the positional arguments that follow the command name.
	Args []string `json:"args,omitempty"`

	// Vars holds template variables given with --set key=value.
	Vars map[string]string `json:"vars,omitempty"`

	// OutputDir is the directory generated files are written under.
	// Empty means the configured default.
	OutputDir string `json:"outputDir,omitempty"`

	// DryRun reports what would be written without touching the filesystem.
	DryRun bool `json:"dryRun,omitempty"`

	// Force allows existing files to be overwritten.
	Force bool `json:"force,omitempty"`

	// Verbose enables debug logging.
	Verbose bool `json:"verbose,omitempty"`

	// JSON switches command output (and error output) to JSON.
	JSON bool `json:"json,omitempty"`
}

// VarNames returns the names of the --set variables in sorted order.
func (o *Options) VarNames() []string {
	names := make([]string, 0, len(o.Vars))
	for k := range o.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// nameRegex validates generator names: lowercase alphanumeric plus hyphens,
// starting and ending with an alphanumeric character.
var nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$|^[a-z0-9]$`)

// ValidateName checks if the given name is a valid generator name.
// Generator names double as directory names and command arguments, so they
// are restricted to lowercase alphanumerics and hyphens.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("generator name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid generator name %q: must contain only lowercase alphanumeric characters and hyphens, and start/end with alphanumeric", name)
	}
	return nil
}

// ExitCode defines the process exit codes of the cobalt binary.
// Scripts and CI systems can rely on these to tell failure classes apart.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitUsage indicates the arguments could not be parsed.
	ExitUsage ExitCode = 2

	// ExitUnknownCommand indicates no registered command matches the
	// requested name.
	ExitUnknownCommand ExitCode = 3

	// ExitLoadFailed indicates the generator set could not be loaded.
	ExitLoadFailed ExitCode = 4

	// ExitGeneratorNotFound indicates the requested generator does not exist.
	ExitGeneratorNotFound ExitCode = 5

	// ExitMissingVariable indicates a required template variable has no value.
	ExitMissingVariable ExitCode = 6

	// ExitRenderFailed indicates a template could not be rendered.
	ExitRenderFailed ExitCode = 7

	// ExitWriteFailed indicates generated files could not be written.
	ExitWriteFailed ExitCode = 8

	// ExitIncompatible indicates the generator requires a different
	// cobalt version.
	ExitIncompatible ExitCode = 9
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
