package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Manifest file names, in lookup order.
const (
	ManifestJSON = "generator.json"
	ManifestYAML = "generator.yaml"
	ManifestYML  = "generator.yml"
)

// DefaultTemplatesDir is used when a manifest does not name its template tree.
const DefaultTemplatesDir = "templates"

// ErrNoManifest is returned by LoadManifest when a directory holds none of
// the manifest files.
var ErrNoManifest = errors.New("no generator manifest")

// Manifest describes a generator.
type Manifest struct {
	// Name identifies the generator on the command line. Defaults to the
	// generator's directory name.
	Name string `json:"name" yaml:"name"`

	// Description is a one-line summary shown by "cobalt list".
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Version is the generator's own semantic version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Requires is a semver constraint on the cobalt version (e.g. ">= 1.2").
	Requires string `json:"requires,omitempty" yaml:"requires,omitempty"`

	// Templates is the template tree, relative to the generator directory.
	Templates string `json:"templates,omitempty" yaml:"templates,omitempty"`

	// Variables declares the template variables the generator understands.
	Variables []Variable `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Variable declares one template variable.
type Variable struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// TemplatesDir returns the template tree path relative to the generator
// directory.
func (m *Manifest) TemplatesDir() string {
	if m.Templates == "" {
		return DefaultTemplatesDir
	}
	return m.Templates
}

// LoadManifest reads the manifest in dir. JSON manifests may contain
// comments and trailing commas.
//
// Returns the parsed manifest and the path it was read from, or
// ErrNoManifest if dir contains no manifest file.
func LoadManifest(dir string) (*Manifest, string, error) {
	for _, name := range []string{ManifestJSON, ManifestYAML, ManifestYML} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
		}

		m, err := parseManifest(name, data)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if m.Name == "" {
			m.Name = filepath.Base(dir)
		}
		return m, path, nil
	}
	return nil, "", fmt.Errorf("%w in %s", ErrNoManifest, dir)
}

func parseManifest(name string, data []byte) (*Manifest, error) {
	var m Manifest
	if name == ManifestJSON {
		// Strip JSONC comments (// and /* */) and trailing commas first.
		if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
			return nil, err
		}
		return &m, nil
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
