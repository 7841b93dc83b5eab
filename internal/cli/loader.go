package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/cobalt/internal/command"
	"github.com/shinji-kodama/cobalt/internal/config"
	"github.com/shinji-kodama/cobalt/internal/generator"
	"github.com/shinji-kodama/cobalt/internal/model"
)

// Loader discovers the generators on the configured search paths and
// produces the cobalt command table. It implements dispatch.Loader.
type Loader struct {
	out io.Writer

	// now is the clock used for template data.
	now func() time.Time
}

// NewLoader creates a Loader whose commands write their output to out.
// A nil out defaults to the process stdout.
func NewLoader(out io.Writer) *Loader {
	if out == nil {
		out = os.Stdout
	}
	return &Loader{out: out, now: time.Now}
}

// LoadGenerators scans store.Settings.GeneratorPaths and returns the
// command table. A generator that cannot be loaded fails the whole load
// with ExitLoadFailed.
func (l *Loader) LoadGenerators(ctx context.Context, store *config.Store) (command.Table, error) {
	log := store.Logger()

	gens, err := generator.Discover(store.Settings.GeneratorPaths, log)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitLoadFailed, "failed to load generators", err)
	}
	log.WithFields(logrus.Fields{
		"paths":      store.Settings.GeneratorPaths,
		"generators": len(gens),
	}).Debug("discovered generators")

	table := command.Table{}
	table.Register("generate", &generateCommand{store: store, generators: gens, out: l.out, now: l.now})
	table.Register("list", &listCommand{generators: gens, out: l.out})
	return table, nil
}
