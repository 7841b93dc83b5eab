// Package model defines the value types shared by the cobalt packages.
//
// This package contains pure data structures with no external dependencies:
// the parsed command-line options handed to every command, the generator
// name rules, and the exit codes together with the CLIError type that
// carries them up to the process boundary.
package model
