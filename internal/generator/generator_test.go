package generator

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// writeTree creates the given files (path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// serviceManifest is a JSONC manifest with comments and a trailing comma.
const serviceManifest = `{
  // Scaffolds a Go service.
  "name": "service",
  "description": "Go HTTP service",
  "version": "1.0.0",
  "requires": ">= 1.0.0",
  "variables": [
    {"name": "name", "required": true},
    {"name": "port", "default": "8080"}, /* optional */
  ],
}`

// newServiceGenerator writes a complete "service" generator under root.
func newServiceGenerator(t *testing.T, root string) string {
	t.Helper()
	dir := filepath.Join(root, "service")
	writeTree(t, dir, map[string]string{
		"generator.json": serviceManifest,
		"templates/cmd/{{.Vars.name}}/main.go.tmpl": "package main // {{ .Vars.name | upper }} on {{ .Vars.port }}\n",
		"templates/README.md":                       "static {{ not rendered }}\n",
	})
	return dir
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
