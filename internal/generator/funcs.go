package generator

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/shinji-kodama/cobalt/internal/port"
)

// templateFuncs is the function map available to every template: the sprig
// library plus cobalt's own helpers.
var templateFuncs = newFuncMap(port.NewScanner())

func newFuncMap(scanner *port.Scanner) template.FuncMap {
	funcs := sprig.TxtFuncMap()

	// freePort returns the first TCP port in [start, end] nothing is bound to.
	funcs["freePort"] = func(start, end int) (int, error) {
		return scanner.FindAvailablePort(start, end, "tcp")
	}
	return funcs
}
