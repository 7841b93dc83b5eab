package argv

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/cobalt/internal/command"
	"github.com/shinji-kodama/cobalt/internal/config"
	"github.com/shinji-kodama/cobalt/internal/model"
)

type summarized struct {
	command.Func
	summary string
}

func (s summarized) Summary() string { return s.summary }

func noop(context.Context, *model.Options) error { return nil }

func newTestStore() *config.Store {
	settings := config.DefaultSettings()
	settings.OutputDir = "from-settings"
	store := config.NewStore(settings, nil)
	store.Version = "1.2.3"
	store.SetCommands(command.Table{
		"generate": summarized{Func: noop, summary: "Render a generator"},
		"list":     command.Func(noop),
	})
	return store
}

func parse(t *testing.T, store *config.Store, args ...string) (*model.Options, string, error) {
	t.Helper()
	var out bytes.Buffer
	m := NewManager(args, &out, &out)
	opts, err := m.GetOptions(context.Background(), store)
	return opts, out.String(), err
}

func TestGetOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want *model.Options
	}{
		{
			name: "registered command with positionals",
			args: []string{"generate", "service", "name=billing"},
			want: &model.Options{
				Command:   "generate",
				Args:      []string{"service", "name=billing"},
				OutputDir: "from-settings",
			},
		},
		{
			name: "global flags before the command",
			args: []string{"--json", "-o", "out", "list"},
			want: &model.Options{Command: "list", OutputDir: "out", JSON: true},
		},
		{
			name: "flags after the command",
			args: []string{"generate", "api", "--set", "name=users", "--set", "port=8080", "--dry-run", "--force"},
			want: &model.Options{
				Command:   "generate",
				Args:      []string{"api"},
				Vars:      map[string]string{"name": "users", "port": "8080"},
				OutputDir: "from-settings",
				DryRun:    true,
				Force:     true,
			},
		},
		{
			name: "unregistered command is passed through",
			args: []string{"deploy", "prod"},
			want: &model.Options{Command: "deploy", Args: []string{"prod"}, OutputDir: "from-settings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _, err := parse(t, newTestStore(), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestGetOptions_Verbose(t *testing.T) {
	store := newTestStore()
	store.Logger().SetLevel(logrus.InfoLevel)

	opts, _, err := parse(t, store, "-v", "list")
	require.NoError(t, err)
	assert.True(t, opts.Verbose)
	assert.Equal(t, logrus.DebugLevel, store.Logger().GetLevel())
}

func TestGetOptions_NoCommand(t *testing.T) {
	t.Run("no arguments prints usage", func(t *testing.T) {
		_, out, err := parse(t, newTestStore())
		assert.ErrorIs(t, err, ErrNoCommand)
		assert.Contains(t, out, "Usage:")
		assert.Contains(t, out, "generate")
		assert.Contains(t, out, "Render a generator")
	})

	t.Run("help flag", func(t *testing.T) {
		_, out, err := parse(t, newTestStore(), "--help")
		assert.ErrorIs(t, err, ErrNoCommand)
		assert.Contains(t, out, "Usage:")
	})

	t.Run("help for a command", func(t *testing.T) {
		_, out, err := parse(t, newTestStore(), "generate", "-h")
		assert.ErrorIs(t, err, ErrNoCommand)
		assert.Contains(t, out, "Render a generator")
	})

	t.Run("version flag", func(t *testing.T) {
		_, out, err := parse(t, newTestStore(), "--version")
		assert.ErrorIs(t, err, ErrNoCommand)
		assert.Equal(t, "cobalt 1.2.3\n", out)
	})
}

func TestGetOptions_MalformedArguments(t *testing.T) {
	tests := [][]string{
		{"--bogus", "list"},
		{"generate", "--set", "novalue"},
		{"list", "--output"},
	}

	for _, args := range tests {
		t.Run(args[len(args)-1], func(t *testing.T) {
			m := NewManager(args, &bytes.Buffer{}, &bytes.Buffer{})
			opts, err := m.GetOptions(context.Background(), newTestStore())
			require.Error(t, err)
			assert.Nil(t, opts)
			assert.Nil(t, m.Parsed())

			var cliErr *model.CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, model.ExitUsage, cliErr.Code)
		})
	}
}

func TestGetOptions_RecordsParsed(t *testing.T) {
	m := NewManager([]string{"list"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Nil(t, m.Parsed())

	opts, err := m.GetOptions(context.Background(), newTestStore())
	require.NoError(t, err)
	assert.Same(t, opts, m.Parsed())
}

func TestGetCommand(t *testing.T) {
	store := newTestStore()
	m := NewManager(nil, &bytes.Buffer{}, &bytes.Buffer{})

	t.Run("known command", func(t *testing.T) {
		cmd, err := m.GetCommand(store, &model.Options{Command: "generate"})
		require.NoError(t, err)
		d, ok := cmd.(command.Describer)
		require.True(t, ok)
		assert.Equal(t, "Render a generator", d.Summary())
	})

	t.Run("unknown command", func(t *testing.T) {
		cmd, err := m.GetCommand(store, &model.Options{Command: "deploy"})
		assert.Nil(t, cmd)
		assert.ErrorIs(t, err, ErrUnknownCommand)
		assert.Contains(t, err.Error(), `unknown command "deploy"`)

		var cliErr *model.CLIError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, model.ExitUnknownCommand, cliErr.Code)
	})

	t.Run("no table installed", func(t *testing.T) {
		empty := config.NewStore(config.DefaultSettings(), nil)
		_, err := m.GetCommand(empty, &model.Options{Command: "generate"})
		assert.ErrorIs(t, err, ErrUnknownCommand)
	})
}
