package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/cobalt/internal/model"
)

// ErrIncompatible is wrapped by CheckCompatible when a generator's
// requires constraint excludes the running cobalt version.
var ErrIncompatible = errors.New("generator is not compatible with this cobalt version")

// Generator is a discovered, validated generator.
type Generator struct {
	Manifest *Manifest

	// Dir is the absolute path of the generator directory.
	Dir string

	// ManifestPath is the manifest file the generator was loaded from.
	ManifestPath string
}

// Name returns the generator name.
func (g *Generator) Name() string {
	return g.Manifest.Name
}

// TemplatesRoot returns the absolute path of the template tree.
func (g *Generator) TemplatesRoot() string {
	return filepath.Join(g.Dir, g.Manifest.TemplatesDir())
}

// CheckCompatible reports whether the generator can run under the given
// cobalt version. Versions that are not semantic versions (development
// builds such as "dev") always pass.
func (g *Generator) CheckCompatible(version string) error {
	if g.Manifest.Requires == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil
	}
	c, err := semver.NewConstraint(g.Manifest.Requires)
	if err != nil {
		return fmt.Errorf("generator %q: invalid requires constraint: %w", g.Name(), err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %q requires cobalt %s, running %s",
			ErrIncompatible, g.Name(), g.Manifest.Requires, version)
	}
	return nil
}

// Discover scans each search path for generator directories.
//
// Search paths that do not exist are skipped. Subdirectories without a
// manifest are skipped. A manifest that cannot be parsed or fails
// validation fails the whole discovery. When two search paths provide a
// generator with the same name, the one from the earlier path is kept.
//
// The result is sorted by generator name.
func Discover(paths []string, log logrus.FieldLogger) ([]*Generator, error) {
	byName := make(map[string]*Generator)

	for _, root := range paths {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving generator path %s: %w", root, err)
		}

		entries, err := os.ReadDir(abs)
		if err != nil {
			if os.IsNotExist(err) {
				log.WithField("path", abs).Debug("generator path does not exist")
				continue
			}
			return nil, fmt.Errorf("reading generator path %s: %w", abs, err)
		}

		for _, entry := range entries {
			dir := filepath.Join(abs, entry.Name())
			if strings.HasPrefix(entry.Name(), ".") || !isDir(dir) {
				continue
			}

			gen, err := load(dir)
			if errors.Is(err, ErrNoManifest) {
				log.WithField("dir", dir).Debug("skipping directory without manifest")
				continue
			}
			if err != nil {
				return nil, err
			}

			if existing, ok := byName[gen.Name()]; ok {
				log.WithFields(logrus.Fields{
					"generator": gen.Name(),
					"kept":      existing.Dir,
					"ignored":   gen.Dir,
				}).Warn("duplicate generator name")
				continue
			}
			byName[gen.Name()] = gen
			log.WithFields(logrus.Fields{"generator": gen.Name(), "dir": dir}).Debug("discovered generator")
		}
	}

	gens := make([]*Generator, 0, len(byName))
	for _, g := range byName {
		gens = append(gens, g)
	}
	sort.Slice(gens, func(i, j int) bool {
		return gens[i].Name() < gens[j].Name()
	})
	return gens, nil
}

// Find returns the generator called name.
// Returns a CLIError with ExitGeneratorNotFound if there is none.
func Find(gens []*Generator, name string) (*Generator, error) {
	for _, g := range gens {
		if g.Name() == name {
			return g, nil
		}
	}
	return nil, model.NewCLIError(model.ExitGeneratorNotFound,
		fmt.Sprintf("generator %q not found (run 'cobalt list' to see available generators)", name))
}

// load reads and validates the generator in dir.
func load(dir string) (*Generator, error) {
	m, path, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	if err := validationErr(Validate(m)); err != nil {
		return nil, fmt.Errorf("invalid generator %s: %w", path, err)
	}

	gen := &Generator{Manifest: m, Dir: dir, ManifestPath: path}
	if !isDir(gen.TemplatesRoot()) {
		return nil, fmt.Errorf("invalid generator %s: templates directory %s does not exist",
			path, gen.TemplatesRoot())
	}
	return gen, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
