package generator

import (
	"fmt"
	"strings"

	"github.com/shinji-kodama/cobalt/internal/model"
)

// ParseAssignments parses positional "key=value" arguments.
// Returns a CLIError with ExitUsage for any argument that is not an
// assignment or has an empty key.
func ParseAssignments(args []string) (map[string]string, error) {
	vars := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, model.NewCLIError(model.ExitUsage,
				fmt.Sprintf("invalid variable %q: expected key=value", arg))
		}
		vars[strings.TrimSpace(key)] = value
	}
	return vars, nil
}

// ResolveVariables merges the manifest defaults with the given layers, later
// layers overriding earlier ones. Every declared variable is present in the
// result (optional ones default to ""), and undeclared keys from the layers
// are passed through.
//
// Returns a CLIError with ExitMissingVariable naming every required
// variable left without a value.
func ResolveVariables(m *Manifest, layers ...map[string]string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, v := range m.Variables {
		vars[v.Name] = v.Default
	}
	for _, layer := range layers {
		for k, v := range layer {
			vars[k] = v
		}
	}

	var missing []string
	for _, v := range m.Variables {
		if v.Required && vars[v.Name] == "" {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return nil, model.NewCLIError(model.ExitMissingVariable,
			fmt.Sprintf("generator %q: missing required variables: %s (set them with --set key=value)",
				m.Name, strings.Join(missing, ", ")))
	}
	return vars, nil
}
