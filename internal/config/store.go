// Package config holds the configuration store shared by the dispatcher and
// its collaborators, together with the settings file it is seeded from.
//
// The store is an explicit value: it is built once by the process entrypoint
// and handed to every collaborator call, instead of living in a package-level
// variable. It is not safe for concurrent writes; a run has one writer.
package config

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/cobalt/internal/command"
)

// CommandsKey is the store key holding the command table.
const CommandsKey = "COMMANDS"

// Store is a mutable mapping from setting name to value, plus the typed
// settings, version string and logger that collaborators share.
type Store struct {
	// Settings is the parsed settings file (or its defaults).
	Settings Settings

	// Version is the version of the running binary, used for generator
	// compatibility checks and --version output.
	Version string

	values map[string]any
	logger *logrus.Logger
}

// NewStore creates a store over settings. A nil logger is replaced by one
// that discards its output.
func NewStore(settings Settings, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Store{
		Settings: settings,
		Version:  "dev",
		values:   make(map[string]any),
		logger:   logger,
	}
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.values[key] = value
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetCommands installs the command table under CommandsKey.
func (s *Store) SetCommands(table command.Table) {
	s.Set(CommandsKey, table)
}

// Commands returns the installed command table, or nil if none is installed.
func (s *Store) Commands() command.Table {
	v, ok := s.values[CommandsKey]
	if !ok {
		return nil
	}
	table, _ := v.(command.Table)
	return table
}

// Logger returns the logger shared by all collaborators.
func (s *Store) Logger() *logrus.Logger {
	return s.logger
}
