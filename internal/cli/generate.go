package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/cobalt/internal/config"
	"github.com/shinji-kodama/cobalt/internal/generator"
	"github.com/shinji-kodama/cobalt/internal/gitinfo"
	"github.com/shinji-kodama/cobalt/internal/model"
)

// generateCommand implements "cobalt generate <generator> [key=value...]".
type generateCommand struct {
	store      *config.Store
	generators []*generator.Generator
	out        io.Writer
	now        func() time.Time
}

// Summary implements command.Describer.
func (c *generateCommand) Summary() string {
	return "Render a generator into the output directory"
}

// Execute resolves the generator and its variables, renders the template
// tree, and writes the result under opts.OutputDir.
//
// Variables are layered: manifest defaults, then the vars section of the
// settings file, then --set flags, then positional key=value arguments.
func (c *generateCommand) Execute(ctx context.Context, opts *model.Options) error {
	if len(opts.Args) == 0 {
		return model.NewCLIError(model.ExitUsage,
			"generate requires a generator name (run 'cobalt list' to see available generators)")
	}

	gen, err := generator.Find(c.generators, opts.Args[0])
	if err != nil {
		return err
	}
	if err := gen.CheckCompatible(c.store.Version); err != nil {
		return model.WrapCLIError(model.ExitIncompatible, "cannot run generator", err)
	}

	assignments, err := generator.ParseAssignments(opts.Args[1:])
	if err != nil {
		return err
	}
	vars, err := generator.ResolveVariables(gen.Manifest, c.store.Settings.Vars, opts.Vars, assignments)
	if err != nil {
		return err
	}

	outDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid output directory", err)
	}

	log := c.store.Logger().WithFields(logrus.Fields{
		"generator": gen.Name(),
		"output":    outDir,
	})

	data := &generator.Data{
		Vars:      vars,
		Generator: gen.Manifest,
		Git:       gitinfo.Detect(existingAncestor(outDir)),
		Now:       c.now(),
	}
	log.WithField("repo", data.Git.RepoRoot).Debug("rendering templates")

	files, err := generator.Render(ctx, gen, data, c.store.Settings.Concurrency)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return model.WrapCLIError(model.ExitRenderFailed,
			fmt.Sprintf("failed to render generator %q", gen.Name()), err)
	}

	results, err := generator.Write(files, outDir, generator.WriteOptions{
		Force:  opts.Force,
		DryRun: opts.DryRun,
	})
	if err != nil {
		return err
	}
	log.WithField("files", len(results)).Info("generated")

	c.printResult(opts, gen, outDir, results)
	return nil
}

// generateResultJSON is the JSON output of the generate command.
type generateResultJSON struct {
	Generator string                  `json:"generator"`
	OutputDir string                  `json:"outputDir"`
	DryRun    bool                    `json:"dryRun"`
	Files     []generator.WriteResult `json:"files"`
}

func (c *generateCommand) printResult(opts *model.Options, gen *generator.Generator, outDir string, results []generator.WriteResult) {
	if opts.JSON {
		data, _ := json.MarshalIndent(generateResultJSON{
			Generator: gen.Name(),
			OutputDir: outDir,
			DryRun:    opts.DryRun,
			Files:     results,
		}, "", "  ")
		fmt.Fprintln(c.out, string(data))
		return
	}

	if opts.DryRun {
		fmt.Fprintf(c.out, "Dry run: generator %q would write to %s\n", gen.Name(), outDir)
	} else {
		fmt.Fprintf(c.out, "Generator %q wrote to %s\n", gen.Name(), outDir)
	}
	for _, r := range results {
		fmt.Fprintf(c.out, "  %-12s %s\n", r.Action, r.Path)
	}
	fmt.Fprintln(c.out, FormatActionCounts(results))
}

// FormatActionCounts summarizes write results as "N created, N skipped"
// style text, listing only actions that occurred, in a fixed order.
// Returns "no files" for an empty result.
func FormatActionCounts(results []generator.WriteResult) string {
	if len(results) == 0 {
		return "no files"
	}
	counts := make(map[generator.Action]int)
	for _, r := range results {
		counts[r.Action]++
	}

	order := []generator.Action{
		generator.ActionCreated,
		generator.ActionOverwritten,
		generator.ActionUnchanged,
		generator.ActionSkipped,
	}
	var s string
	for _, a := range order {
		if counts[a] == 0 {
			continue
		}
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("%d %s", counts[a], a)
	}
	return s
}

// existingAncestor returns dir or its nearest existing parent, so git
// details can be detected before the output directory is created.
func existingAncestor(dir string) string {
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
