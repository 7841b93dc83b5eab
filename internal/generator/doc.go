// Package generator discovers, validates and renders code generators.
//
// A generator is a directory holding a manifest and a template tree:
//
//	service/
//	  generator.json        (or generator.yaml)
//	  templates/
//	    cmd/{{.Vars.name}}/main.go.tmpl
//	    Makefile
//
// Files ending in .tmpl are rendered with text/template (plus the sprig
// function library and freePort) and written without the suffix. Every other file is
// copied verbatim. Path segments are templates too, so a generator can
// name files after its variables.
//
// generator.json may be JSONC (JSON with comments and trailing commas);
// it is normalized with github.com/tidwall/jsonc before decoding.
package generator
