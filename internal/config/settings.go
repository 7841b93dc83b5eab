package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	// EnvConfigFile overrides the settings file location.
	EnvConfigFile = "COBALT_CONFIG"

	// EnvGeneratorsPath is a path list searched before the configured
	// generator paths.
	EnvGeneratorsPath = "COBALT_GENERATORS_PATH"
)

// defaultConfigFiles are tried in order when no settings file is named.
var defaultConfigFiles = []string{".cobalt.yml", ".cobalt.yaml", ".cobalt.toml"}

// Settings is the user-editable configuration of cobalt.
type Settings struct {
	// GeneratorPaths lists the directories searched for generators.
	// Earlier entries win when two directories hold a generator of the same name.
	GeneratorPaths []string `yaml:"generatorPaths" toml:"generatorPaths"`

	// OutputDir is the default directory generated files are written under.
	OutputDir string `yaml:"outputDir" toml:"outputDir"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"logLevel" toml:"logLevel"`

	// Concurrency bounds the number of templates rendered in parallel.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`

	// Vars are template variables applied to every generator.
	Vars map[string]string `yaml:"vars" toml:"vars"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	paths := []string{filepath.Join(".cobalt", "generators")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".cobalt", "generators"))
	}
	return Settings{
		GeneratorPaths: paths,
		OutputDir:      ".",
		LogLevel:       "info",
		Concurrency:    runtime.NumCPU(),
	}
}

// Load reads settings from path. If path is empty, $COBALT_CONFIG is used,
// then the first default file found in the working directory. A missing
// default file yields DefaultSettings; a missing explicit file is an error.
//
// $COBALT_GENERATORS_PATH entries are prepended to GeneratorPaths.
func Load(path string) (Settings, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		explicit = false
		path = findDefaultFile()
	}

	settings := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, &settings); err != nil {
				return Settings{}, err
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Settings{}, fmt.Errorf("reading settings: %w", err)
		}
	}

	if env := os.Getenv(EnvGeneratorsPath); env != "" {
		var extra []string
		for _, p := range filepath.SplitList(env) {
			if p != "" {
				extra = append(extra, p)
			}
		}
		settings.GeneratorPaths = append(extra, settings.GeneratorPaths...)
	}

	if settings.Concurrency < 1 {
		settings.Concurrency = 1
	}
	if settings.OutputDir == "" {
		settings.OutputDir = "."
	}
	return settings, nil
}

// decode unmarshals data into settings, picking the format from the file
// extension. Unknown extensions are parsed as YAML.
func decode(path string, data []byte, settings *Settings) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("parsing settings %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("parsing settings %s: %w", path, err)
		}
	}
	return nil
}

func findDefaultFile() string {
	for _, name := range defaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
