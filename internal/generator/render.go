package generator

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shinji-kodama/cobalt/internal/gitinfo"
)

// TemplateSuffix marks files whose contents are rendered.
const TemplateSuffix = ".tmpl"

// Data is the value templates are executed against.
type Data struct {
	// Vars holds the resolved template variables.
	Vars map[string]string

	// Generator is the manifest of the generator being rendered.
	Generator *Manifest

	// Git holds author and repository details of the output location.
	Git gitinfo.Info

	// Now is the render time, fixed for the whole run.
	Now time.Time
}

// File is one rendered output file.
type File struct {
	// Path is the slash-separated output path, relative to the output root.
	Path string

	// Source is the template file it was rendered from, relative to the
	// template tree.
	Source string

	Content []byte
	Mode    fs.FileMode
}

// Render renders every file of the generator's template tree. At most
// concurrency files are rendered at a time.
//
// The returned files are in template-tree walk order. Rendered paths must
// stay inside the output root and must be unique, and no rendered file may
// sit where another needs a directory.
func Render(ctx context.Context, gen *Generator, data *Data, concurrency int) ([]File, error) {
	root := gen.TemplatesRoot()

	var sources []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			sources = append(sources, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking templates of %q: %w", gen.Name(), err)
	}

	if concurrency < 1 {
		concurrency = 1
	}
	files := make([]File, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := renderFile(root, src, data)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := seen[f.Path]; ok {
			return nil, fmt.Errorf("templates %s and %s both render to %s", prev, f.Source, f.Path)
		}
		seen[f.Path] = f.Source
	}
	// A file cannot also be a parent directory of another output.
	for _, f := range files {
		for dir := path.Dir(f.Path); dir != "."; dir = path.Dir(dir) {
			if prev, ok := seen[dir]; ok {
				return nil, fmt.Errorf("template %s renders to file %s, which %s needs as a directory",
					prev, dir, f.Source)
			}
		}
	}
	return files, nil
}

// renderFile renders the path and, for .tmpl files, the contents of one
// template.
func renderFile(root, src string, data *Data) (File, error) {
	outPath, err := renderString(src, src, data)
	if err != nil {
		return File{}, fmt.Errorf("rendering path %s: %w", src, err)
	}
	isTemplate := strings.HasSuffix(src, TemplateSuffix)
	if isTemplate {
		outPath = strings.TrimSuffix(outPath, TemplateSuffix)
	}
	outPath = path.Clean(outPath)
	if outPath == "." || !filepath.IsLocal(filepath.FromSlash(outPath)) {
		return File{}, fmt.Errorf("template %s renders to %q, which is outside the output directory", src, outPath)
	}

	full := filepath.Join(root, filepath.FromSlash(src))
	info, err := os.Stat(full)
	if err != nil {
		return File{}, err
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		return File{}, err
	}

	content := raw
	if isTemplate {
		out, err := renderString(src, string(raw), data)
		if err != nil {
			return File{}, fmt.Errorf("rendering %s: %w", src, err)
		}
		content = []byte(out)
	}

	return File{Path: outPath, Source: src, Content: content, Mode: info.Mode().Perm()}, nil
}

// renderString executes text as a template named name. Unknown map keys
// (for example a misspelt variable) are errors.
func renderString(name, text string, data *Data) (string, error) {
	tmpl, err := template.New(name).
		Funcs(templateFuncs).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
