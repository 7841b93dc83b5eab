package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shinji-kodama/cobalt/internal/generator"
	"github.com/shinji-kodama/cobalt/internal/model"
)

// listCommand implements "cobalt list". It prints the discovered
// generators as a text table or JSON, depending on --json.
type listCommand struct {
	generators []*generator.Generator
	out        io.Writer
}

// Summary implements command.Describer.
func (c *listCommand) Summary() string {
	return "List available generators"
}

// Execute prints the generator list. Positional arguments are rejected.
func (c *listCommand) Execute(_ context.Context, opts *model.Options) error {
	if len(opts.Args) > 0 {
		return model.NewCLIError(model.ExitUsage,
			fmt.Sprintf("list takes no arguments, got %q", strings.Join(opts.Args, " ")))
	}
	if opts.JSON {
		c.printJSON()
	} else {
		c.printText()
	}
	return nil
}

// listGeneratorJSON is the JSON output structure for a single generator.
type listGeneratorJSON struct {
	Name        string               `json:"name"`
	Version     string               `json:"version,omitempty"`
	Description string               `json:"description,omitempty"`
	Requires    string               `json:"requires,omitempty"`
	Path        string               `json:"path"`
	Variables   []generator.Variable `json:"variables"`
}

// printJSON outputs the generator list under a top-level "generators" key.
func (c *listCommand) printJSON() {
	type resultJSON struct {
		Generators []listGeneratorJSON `json:"generators"`
	}

	// An empty slice keeps the output [] instead of null.
	result := resultJSON{Generators: make([]listGeneratorJSON, 0, len(c.generators))}
	for _, g := range c.generators {
		vars := g.Manifest.Variables
		if vars == nil {
			vars = []generator.Variable{}
		}
		result.Generators = append(result.Generators, listGeneratorJSON{
			Name:        g.Name(),
			Version:     g.Manifest.Version,
			Description: g.Manifest.Description,
			Requires:    g.Manifest.Requires,
			Path:        g.Dir,
			Variables:   vars,
		})
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Fprintln(c.out, string(data))
}

// printText outputs the generator list as a table:
//
//	NAME                 VERSION    VARIABLES            DESCRIPTION
//	service              1.0.0      name*,port           Go HTTP service
//	library              -          -                    Go library
func (c *listCommand) printText() {
	if len(c.generators) == 0 {
		fmt.Fprintln(c.out, "No generators found.")
		return
	}

	fmt.Fprintf(c.out, "%-20s %-10s %-20s %s\n", "NAME", "VERSION", "VARIABLES", "DESCRIPTION")
	for _, g := range c.generators {
		version := g.Manifest.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(c.out, "%-20s %-10s %-20s %s\n",
			g.Name(), version, FormatVariables(g.Manifest.Variables), g.Manifest.Description)
	}
}

// FormatVariables converts manifest variables into a comma-separated list
// of names in declaration order, with required ones marked by "*".
// Returns "-" if there are none.
//
// Example:
//
//	[{Name: "name", Required: true}, {Name: "port"}] → "name*,port"
//	[]                                               → "-"
func FormatVariables(vars []generator.Variable) string {
	if len(vars) == 0 {
		return "-"
	}
	names := make([]string, 0, len(vars))
	for _, v := range vars {
		if v.Required {
			names = append(names, v.Name+"*")
		} else {
			names = append(names, v.Name)
		}
	}
	return strings.Join(names, ",")
}
