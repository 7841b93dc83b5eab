package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/shinji-kodama/cobalt/internal/model"
)

// Command is a unit of work selected by name from the command line.
type Command interface {
	Execute(ctx context.Context, opts *model.Options) error
}

// Describer is implemented by commands that provide a one-line summary
// for help output.
type Describer interface {
	Summary() string
}

// Func adapts an ordinary function to the Command interface.
type Func func(ctx context.Context, opts *model.Options) error

// Execute calls f(ctx, opts).
func (f Func) Execute(ctx context.Context, opts *model.Options) error {
	return f(ctx, opts)
}

// Table maps command names to commands.
type Table map[string]Command

// Register sets the command for name. It panics if name is empty, cmd is nil,
// or name is already registered.
func (t Table) Register(name string, cmd Command) {
	if name == "" {
		panic("command: empty command name")
	}
	if cmd == nil {
		panic(fmt.Sprintf("command: nil command for %s", name))
	}
	if _, exists := t[name]; exists {
		panic(fmt.Sprintf("command %s already registered", name))
	}
	t[name] = cmd
}

// Lookup returns the command registered under name and whether it exists.
func (t Table) Lookup(name string) (Command, bool) {
	cmd, ok := t[name]
	return cmd, ok
}

// Names returns the registered command names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary returns the summary of the command registered under name, or ""
// when the command does not describe itself.
func (t Table) Summary(name string) string {
	if d, ok := t[name].(Describer); ok {
		return d.Summary()
	}
	return ""
}
