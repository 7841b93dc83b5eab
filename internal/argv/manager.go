// Package argv turns the process arguments into parsed options and resolves
// the command they name.
//
// Parsing is done with cobra. The root command carries the global flags and
// gets one subcommand per entry of the command table found in the
// configuration store, which is why the table must be installed before
// GetOptions runs. Resolution is a plain lookup in the same table.
package argv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cobalt/internal/command"
	"github.com/shinji-kodama/cobalt/internal/config"
	"github.com/shinji-kodama/cobalt/internal/model"
)

// ProgramName is the name shown in usage output.
const ProgramName = "cobalt"

var (
	// ErrNoCommand is returned by GetOptions when the arguments were fully
	// handled by the parser itself (help or version output) and no command
	// should run.
	ErrNoCommand = errors.New("no command to run")

	// ErrUnknownCommand is wrapped by GetCommand when the requested name is
	// not in the command table.
	ErrUnknownCommand = errors.New("unknown command")
)

// Manager parses one argument vector.
type Manager struct {
	args   []string
	out    io.Writer
	errOut io.Writer

	parsed *model.Options
}

// NewManager creates a Manager over args (without the program name).
// Help and version output go to out; nil writers default to the
// process stdout and stderr.
func NewManager(args []string, out, errOut io.Writer) *Manager {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Manager{
		args:   append([]string{}, args...),
		out:    out,
		errOut: errOut,
	}
}

// Parsed returns the options produced by the last successful GetOptions,
// or nil.
func (m *Manager) Parsed() *model.Options {
	return m.parsed
}

// GetOptions parses the arguments against the command table in store.
//
// An unmatched first positional argument is still reported as
// Options.Command; deciding that it is unknown is left to GetCommand.
// A malformed argument vector yields a CLIError with ExitUsage.
func (m *Manager) GetOptions(ctx context.Context, store *config.Store) (*model.Options, error) {
	opts := &model.Options{}
	root := m.newRootCommand(store, opts)

	root.SetArgs(append([]string{}, m.args...))
	root.SetOut(m.out)
	root.SetErr(m.errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		return nil, model.WrapCLIError(model.ExitUsage, "invalid arguments", err)
	}
	if opts.Command == "" {
		return nil, ErrNoCommand
	}

	if opts.OutputDir == "" {
		opts.OutputDir = store.Settings.OutputDir
	}
	if opts.Verbose {
		store.Logger().SetLevel(logrus.DebugLevel)
	}
	store.Logger().WithFields(logrus.Fields{
		"command": opts.Command,
		"args":    opts.Args,
		"vars":    opts.VarNames(),
	}).Debug("parsed options")

	m.parsed = opts
	return opts, nil
}

// GetCommand looks up opts.Command in the command table held by store.
func (m *Manager) GetCommand(store *config.Store, opts *model.Options) (command.Command, error) {
	cmd, ok := store.Commands().Lookup(opts.Command)
	if !ok {
		return nil, model.WrapCLIError(
			model.ExitUnknownCommand,
			fmt.Sprintf("run '%s --help' for usage", ProgramName),
			fmt.Errorf("%w %q", ErrUnknownCommand, opts.Command),
		)
	}
	return cmd, nil
}

// newRootCommand builds the cobra tree whose RunE functions fill opts.
func (m *Manager) newRootCommand(store *config.Store, opts *model.Options) *cobra.Command {
	root := &cobra.Command{
		Use:   ProgramName + " <command> [args...]",
		Short: "Project scaffolding from reusable generators",
		Long: `cobalt renders project files from generators: directories holding a
generator.json (or generator.yaml) manifest and a templates/ tree.

Examples:
  cobalt list
  cobalt generate service --set name=billing
  cobalt generate service name=billing --dry-run`,

		// The first positional may name a command that is not registered.
		// It is accepted here and rejected by GetCommand.
		Args: cobra.ArbitraryArgs,

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			opts.Command = args[0]
			opts.Args = positional(args[1:])
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	if store.Version != "" {
		root.Version = store.Version
		root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&opts.JSON, "json", false, "Output in JSON format")
	flags.StringVarP(&opts.OutputDir, "output", "o", "", "Directory generated files are written under")
	flags.StringToStringVar(&opts.Vars, "set", nil, "Template variable as key=value (repeatable)")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Show what would be written without writing")
	flags.BoolVar(&opts.Force, "force", false, "Overwrite existing files")

	table := store.Commands()
	for _, name := range table.Names() {
		name := name
		root.AddCommand(&cobra.Command{
			Use:   name + " [args...]",
			Short: table.Summary(name),
			Args:  cobra.ArbitraryArgs,
			RunE: func(_ *cobra.Command, args []string) error {
				opts.Command = name
				opts.Args = positional(args)
				return nil
			},
		})
	}
	return root
}

// positional normalizes an empty argument list to nil.
func positional(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return args
}
