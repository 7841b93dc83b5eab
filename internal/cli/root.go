// Package cli wires the cobalt process together: it loads settings, builds
// the configuration store and logger, runs the dispatcher, and translates
// the outcome into an exit code and error output.
//
// The concrete command set (generate, list) is produced by Loader in
// loader.go; each command lives in its own file.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/cobalt/internal/argv"
	"github.com/shinji-kodama/cobalt/internal/config"
	"github.com/shinji-kodama/cobalt/internal/dispatch"
	"github.com/shinji-kodama/cobalt/internal/model"
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	// Generators' requires constraints are checked against it.
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Execute runs cobalt with args (without the program name) and returns the
// process exit code. Command output goes to stdout; logs, help on error,
// and error messages go to stderr.
//
// Help and version requests exit with ExitSuccess. CLIError values carry
// their own exit codes; other failures are mapped by the dispatch stage
// they occurred in.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	settings, err := config.Load("")
	if err != nil {
		printError(stderr, flagRequested(args, "--json"), err)
		return int(model.ExitGeneralError)
	}

	logger := newLogger(stderr, settings.LogLevel)
	// --verbose is parsed after generators are loaded; honor it up front so
	// discovery is logged too.
	if flagRequested(args, "--verbose", "-v") {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.WithFields(logrus.Fields{
		"version": Version,
		"commit":  Commit,
		"built":   Date,
	}).Debug("starting")

	store := config.NewStore(settings, logger)
	store.Version = Version

	mgr := argv.NewManager(args, stdout, stderr)
	d := dispatch.New(store, NewLoader(stdout), mgr, mgr)

	err = d.Run(ctx)
	code := ExitCodeOf(err)
	if code != model.ExitSuccess {
		asJSON := flagRequested(args, "--json")
		if opts := mgr.Parsed(); opts != nil {
			asJSON = opts.JSON
		}
		printError(stderr, asJSON, err)
	}
	return int(code)
}

// ExitCodeOf maps a dispatcher result to a process exit code.
func ExitCodeOf(err error) model.ExitCode {
	if err == nil || errors.Is(err, argv.ErrNoCommand) {
		return model.ExitSuccess
	}
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	if stage, ok := dispatch.StageOf(err); ok {
		return stage.ExitCode()
	}
	return model.ExitGeneralError
}

// newLogger creates the process logger. An unknown level name falls back
// to info with a warning.
func newLogger(out io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// flagRequested reports whether one of the boolean flags names appears in
// args before any "--" terminator. It is used before (or when) the options
// could not be parsed.
func flagRequested(args []string, names ...string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		for _, name := range names {
			if a == name || a == name+"=true" {
				return true
			}
		}
	}
	return false
}

// errorJSON is the JSON error document written to stderr.
type errorJSON struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Code    int    `json:"code"`
}

// printError outputs err to w as text ("Error: <message>") or, when asJSON
// is set, as a JSON document. stdout stays reserved for command output.
func printError(w io.Writer, asJSON bool, err error) {
	body := errorBody{Message: err.Error(), Code: int(ExitCodeOf(err))}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		body.Message = cliErr.Message
		if cliErr.Err != nil {
			body.Detail = cliErr.Err.Error()
		}
	}
	if stage, ok := dispatch.StageOf(err); ok {
		body.Stage = stage.String()
	}

	if asJSON {
		data, _ := json.MarshalIndent(errorJSON{Error: body}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	if body.Detail != "" {
		fmt.Fprintf(w, "Error: %s: %s\n", body.Message, body.Detail)
		return
	}
	fmt.Fprintf(w, "Error: %s\n", body.Message)
}
