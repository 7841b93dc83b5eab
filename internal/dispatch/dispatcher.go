package dispatch

import (
	"context"
	"errors"

	"github.com/shinji-kodama/cobalt/internal/command"
	"github.com/shinji-kodama/cobalt/internal/config"
	"github.com/shinji-kodama/cobalt/internal/model"
)

// Loader builds the command table for one run.
type Loader interface {
	LoadGenerators(ctx context.Context, store *config.Store) (command.Table, error)
}

// OptionParser turns the process arguments into parsed options.
type OptionParser interface {
	GetOptions(ctx context.Context, store *config.Store) (*model.Options, error)
}

// ErrNoCommandResolved is returned (in the resolve stage) when a Resolver
// reports success without returning a command.
var ErrNoCommandResolved = errors.New("resolver returned no command")

// Resolver selects the command named by the parsed options. It returns
// either a non-nil command or an error.
type Resolver interface {
	GetCommand(store *config.Store, opts *model.Options) (command.Command, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, store *config.Store) (command.Table, error)

// LoadGenerators calls f(ctx, store).
func (f LoaderFunc) LoadGenerators(ctx context.Context, store *config.Store) (command.Table, error) {
	return f(ctx, store)
}

// ParserFunc adapts a function to the OptionParser interface.
type ParserFunc func(ctx context.Context, store *config.Store) (*model.Options, error)

// GetOptions calls f(ctx, store).
func (f ParserFunc) GetOptions(ctx context.Context, store *config.Store) (*model.Options, error) {
	return f(ctx, store)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(store *config.Store, opts *model.Options) (command.Command, error)

// GetCommand calls f(store, opts).
func (f ResolverFunc) GetCommand(store *config.Store, opts *model.Options) (command.Command, error) {
	return f(store, opts)
}

// Dispatcher runs one command per call to Run.
type Dispatcher struct {
	// Store is shared with every collaborator. Callers may configure it
	// before Run and inspect it afterwards.
	Store *config.Store

	loader   Loader
	parser   OptionParser
	resolver Resolver
}

// New creates a Dispatcher over store and its three collaborators.
func New(store *config.Store, loader Loader, parser OptionParser, resolver Resolver) *Dispatcher {
	return &Dispatcher{
		Store:    store,
		loader:   loader,
		parser:   parser,
		resolver: resolver,
	}
}

// Run loads the command table into the store, parses the options, resolves
// the command and executes it with those options.
//
// Every call reloads the table and replaces the previous COMMANDS entry.
func (d *Dispatcher) Run(ctx context.Context) error {
	log := d.Store.Logger()

	table, err := d.loader.LoadGenerators(ctx, d.Store)
	if err != nil {
		return &Error{Stage: StageLoad, Err: err}
	}
	d.Store.SetCommands(table)
	log.WithField("commands", table.Names()).Debug("command table installed")

	opts, err := d.parser.GetOptions(ctx, d.Store)
	if err != nil {
		return &Error{Stage: StageParse, Err: err}
	}

	cmd, err := d.resolver.GetCommand(d.Store, opts)
	if err != nil {
		return &Error{Stage: StageResolve, Err: err}
	}
	if cmd == nil {
		return &Error{Stage: StageResolve, Err: ErrNoCommandResolved}
	}
	log.WithField("command", opts.Command).Debug("executing command")

	if err := cmd.Execute(ctx, opts); err != nil {
		return &Error{Stage: StageExecute, Err: err}
	}
	return nil
}
