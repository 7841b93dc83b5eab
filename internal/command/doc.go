// Package command defines the typed command table used by the dispatcher.
//
// A Command exposes a single Execute operation that receives the parsed
// options. The Table maps command names to commands and is installed in the
// configuration store under the COMMANDS key before arguments are parsed,
// so the option parser and the resolver can both read it.
package command
